package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRunRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

type LineResponse struct {
	ID               string          `json:"id,omitempty"`
	DriverID         string          `json:"driver_id"`
	DriverName       string          `json:"driver_name"`
	OrderCount       int64           `json:"order_count"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	ClampedAmount    decimal.Decimal `json:"clamped_amount"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	Success          bool            `json:"success"`
	Error            *string         `json:"error,omitempty"`
	AdvanceDetails   string          `json:"advance_details,omitempty"`
}

type RunResponse struct {
	ID        string `json:"id"`
	RunNumber string `json:"run_number"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	Status    string `json:"status"`

	DriverCount    int `json:"driver_count"`
	ProcessedCount int `json:"processed_count"`
	FailedCount    int `json:"failed_count"`

	TotalBaseSalary decimal.Decimal `json:"total_base_salary"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeducted   decimal.Decimal `json:"total_deducted"`
	TotalNet        decimal.Decimal `json:"total_net"`

	AdvanceDeductionsProcessed bool `json:"advance_deductions_processed"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	PayrollResults []LineResponse `json:"payroll_results,omitempty"`
}

// PreviewResponse adalah hasil kalkulasi dry-run untuk satu bulan; tidak ada
// yang disimpan, garis-garisnya belum punya ID.
type PreviewResponse struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	DriverCount    int `json:"driver_count"`
	ProcessedCount int `json:"processed_count"`
	FailedCount    int `json:"failed_count"`

	TotalBaseSalary decimal.Decimal `json:"total_base_salary"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeducted   decimal.Decimal `json:"total_deducted"`
	TotalNet        decimal.Decimal `json:"total_net"`

	PayrollResults []LineResponse `json:"payroll_results"`
}

type DriverHistoryResponse struct {
	RunID     string       `json:"run_id"`
	RunNumber string       `json:"run_number"`
	Month     int          `json:"month"`
	Year      int          `json:"year"`
	RunStatus string       `json:"run_status"`
	Line      LineResponse `json:"line"`
}

func toLineResponse(line PayrollLine) LineResponse {
	resp := LineResponse{
		DriverID:         line.DriverID.String(),
		DriverName:       line.DriverName,
		OrderCount:       line.OrderCount,
		BaseSalary:       line.BaseSalary,
		CommissionAmount: line.CommissionAmount,
		GrossSalary:      line.GrossSalary,
		AdvanceDeduction: line.AdvanceDeduction,
		ClampedAmount:    line.ClampedAmount,
		NetSalary:        line.NetSalary,
		Success:          line.Success,
		Error:            line.Error,
	}
	if line.ID != uuid.Nil {
		resp.ID = line.ID.String()
	}
	if len(line.AdvanceDetails) > 0 {
		resp.AdvanceDetails = string(line.AdvanceDetails)
	}
	return resp
}

func toRunResponse(run PayrollRun, includeLines bool) RunResponse {
	resp := RunResponse{
		ID:                         run.ID.String(),
		RunNumber:                  run.RunNumber,
		Month:                      run.Month,
		Year:                       run.Year,
		Status:                     run.Status,
		DriverCount:                run.DriverCount,
		ProcessedCount:             run.ProcessedCount,
		FailedCount:                run.FailedCount,
		TotalBaseSalary:            run.TotalBaseSalary,
		TotalCommission:            run.TotalCommission,
		TotalGross:                 run.TotalGross,
		TotalDeducted:              run.TotalDeducted,
		TotalNet:                   run.TotalNet,
		AdvanceDeductionsProcessed: run.AdvanceDeductionsProcessed,
		ApprovedAt:                 run.ApprovedAt,
		ClosedAt:                   run.ClosedAt,
		CreatedAt:                  run.CreatedAt,
	}
	if includeLines {
		resp.PayrollResults = make([]LineResponse, len(run.Lines))
		for i, line := range run.Lines {
			resp.PayrollResults[i] = toLineResponse(line)
		}
	}
	return resp
}

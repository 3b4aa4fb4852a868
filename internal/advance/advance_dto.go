package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	DriverID       string          `json:"driver_id" binding:"required,uuid"`
	Amount         decimal.Decimal `json:"amount"`
	DeductionMode  string          `json:"deduction_mode" binding:"required,oneof=fixed_amount percentage"`
	DeductionValue decimal.Decimal `json:"deduction_value"`
	DateIssued     string          `json:"date_issued" binding:"required"`
	Notes          *string         `json:"notes"`
}

type UpdateAdvanceRequest struct {
	DeductionMode  string          `json:"deduction_mode" binding:"required,oneof=fixed_amount percentage"`
	DeductionValue decimal.Decimal `json:"deduction_value"`
	Notes          *string         `json:"notes"`
}

type AdvanceResponse struct {
	ID             string          `json:"id"`
	DriverID       string          `json:"driver_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Status         string          `json:"status"`
	DeductionMode  string          `json:"deduction_mode"`
	DeductionValue decimal.Decimal `json:"deduction_value"`
	DateIssued     string          `json:"date_issued"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// OutstandingSummary melayani widget saldo kasbon per sopir.
type OutstandingSummary struct {
	DriverID         string          `json:"driver_id"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	OpenAdvances     int             `json:"open_advances"`
	MaxAdvanceLimit  decimal.Decimal `json:"max_advance_limit"`
	RemainingLimit   decimal.Decimal `json:"remaining_limit"`
}

func toAdvanceResponse(a Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:             a.ID.String(),
		DriverID:       a.DriverID.String(),
		Amount:         a.Amount,
		PaidAmount:     a.PaidAmount,
		Outstanding:    a.Outstanding(),
		Status:         a.Status,
		DeductionMode:  a.DeductionMode,
		DeductionValue: a.DeductionValue,
		DateIssued:     a.DateIssued.Format("2006-01-02"),
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
	}
}

func toAdvanceListResponse(advances []Advance) []AdvanceResponse {
	resp := make([]AdvanceResponse, len(advances))
	for i, a := range advances {
		resp[i] = toAdvanceResponse(a)
	}
	return resp
}

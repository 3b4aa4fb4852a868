package payroll

import (
	"context"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/advance"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"

	"github.com/shopspring/decimal"
)

const errMissingBaseSalary = "missing base salary"

// CommissionSource feeds a driver's stored monthly commission aggregates.
type CommissionSource interface {
	TotalsByDriver(ctx context.Context, driverID string, month, year int) (int64, decimal.Decimal, error)
}

// AdvanceSource feeds a driver's open advances for deduction planning.
type AdvanceSource interface {
	FindByDriver(ctx context.Context, driverID string) ([]advance.Advance, error)
}

// RunTotals aggregates the successful lines of a run.
type RunTotals struct {
	DriverCount    int
	ProcessedCount int
	FailedCount    int

	BaseSalary decimal.Decimal
	Commission decimal.Decimal
	Gross      decimal.Decimal
	Deducted   decimal.Decimal
	Net        decimal.Decimal
}

// Calculator menghitung baris payroll per sopir. Hasilnya deterministik untuk
// input yang sama; hitung ulang di run yang sama menghasilkan baris identik.
type Calculator struct {
	commissions CommissionSource
	advances    AdvanceSource
}

func NewCalculator(commissions CommissionSource, advances AdvanceSource) *Calculator {
	return &Calculator{commissions: commissions, advances: advances}
}

// Calculate builds one line per driver for the month. A driver whose data is
// broken gets a failed line instead of sinking the whole run; totals cover
// only successful lines.
//
// Per line: gross = base salary + commission; the planned advance deduction is
// capped at the gross so net never goes negative, and the capped-off part is
// recorded and stays outstanding in the ledger.
func (c *Calculator) Calculate(ctx context.Context, drivers []driver.Driver, month, year int) ([]PayrollLine, RunTotals) {
	lines := make([]PayrollLine, 0, len(drivers))
	totals := RunTotals{
		BaseSalary: decimal.Zero,
		Commission: decimal.Zero,
		Gross:      decimal.Zero,
		Deducted:   decimal.Zero,
		Net:        decimal.Zero,
	}

	for _, d := range drivers {
		line := c.calculateLine(ctx, d, month, year)
		lines = append(lines, line)

		totals.DriverCount++
		if !line.Success {
			totals.FailedCount++
			continue
		}
		totals.ProcessedCount++
		totals.BaseSalary = totals.BaseSalary.Add(line.BaseSalary)
		totals.Commission = totals.Commission.Add(line.CommissionAmount)
		totals.Gross = totals.Gross.Add(line.GrossSalary)
		totals.Deducted = totals.Deducted.Add(line.AdvanceDeduction)
		totals.Net = totals.Net.Add(line.NetSalary)
	}

	return lines, totals
}

func (c *Calculator) calculateLine(ctx context.Context, d driver.Driver, month, year int) PayrollLine {
	line := PayrollLine{
		DriverID:   d.ID,
		DriverName: d.FullName,
		Success:    true,
	}

	if d.SalaryEligible() {
		if !d.BaseSalary.IsPositive() {
			return failLine(line, errMissingBaseSalary)
		}
		line.BaseSalary = d.BaseSalary
	}

	if d.CommissionEligible() {
		orders, amount, err := c.commissions.TotalsByDriver(ctx, d.ID.String(), month, year)
		if err != nil {
			return failLine(line, err.Error())
		}
		line.OrderCount = orders
		line.CommissionAmount = amount
	}

	line.GrossSalary = line.BaseSalary.Add(line.CommissionAmount)

	advances, err := c.advances.FindByDriver(ctx, d.ID.String())
	if err != nil {
		return failLine(line, err.Error())
	}

	desired := advance.TotalDesired(advances, line.GrossSalary)
	applied := decimal.Min(desired, line.GrossSalary)
	line.AdvanceDeduction = applied
	line.ClampedAmount = desired.Sub(applied)
	line.NetSalary = line.GrossSalary.Sub(applied)

	return line
}

func failLine(line PayrollLine, reason string) PayrollLine {
	line.Success = false
	line.Error = &reason
	line.BaseSalary = decimal.Zero
	line.CommissionAmount = decimal.Zero
	line.GrossSalary = decimal.Zero
	line.AdvanceDeduction = decimal.Zero
	line.ClampedAmount = decimal.Zero
	line.NetSalary = decimal.Zero
	return line
}

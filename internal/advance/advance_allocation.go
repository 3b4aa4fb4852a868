package advance

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation is one advance's share of a payroll deduction.
type Allocation struct {
	AdvanceID     uuid.UUID       `json:"advance_id"`
	Applied       decimal.Decimal `json:"applied"`
	NewPaidAmount decimal.Decimal `json:"-"`
	NewStatus     string          `json:"-"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// AllocateDeduction spreads a total deduction across a driver's repayable
// advances, oldest date_issued first. It never applies more than each
// advance's outstanding balance, so the sum of Applied always equals
// min(amount, total outstanding). Pure function; callers persist the result.
func AllocateDeduction(advances []Advance, amount decimal.Decimal) ([]Allocation, decimal.Decimal) {
	if !amount.IsPositive() {
		return nil, decimal.Zero
	}

	ordered := make([]Advance, 0, len(advances))
	for _, a := range advances {
		if a.Repayable() {
			ordered = append(ordered, a)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DateIssued.Before(ordered[j].DateIssued)
	})

	var allocations []Allocation
	remaining := amount
	totalApplied := decimal.Zero

	for _, a := range ordered {
		if !remaining.IsPositive() {
			break
		}

		applied := decimal.Min(remaining, a.Outstanding())
		newPaid := a.PaidAmount.Add(applied)

		allocations = append(allocations, Allocation{
			AdvanceID:     a.ID,
			Applied:       applied,
			NewPaidAmount: newPaid,
			NewStatus:     statusAfterPayment(a.Amount, newPaid),
			Remaining:     a.Amount.Sub(newPaid),
		})

		remaining = remaining.Sub(applied)
		totalApplied = totalApplied.Add(applied)
	}

	return allocations, totalApplied
}

// TotalDesired sums each repayable advance's per-cycle deduction for a gross
// salary. This is the amount a payroll run tries to deduct before clamping.
func TotalDesired(advances []Advance, gross decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range advances {
		if a.Repayable() {
			total = total.Add(a.DesiredDeduction(gross))
		}
	}
	return total
}

// TotalOutstanding sums what the driver still owes across repayable advances.
func TotalOutstanding(advances []Advance) decimal.Decimal {
	total := decimal.Zero
	for _, a := range advances {
		if a.Repayable() {
			total = total.Add(a.Outstanding())
		}
	}
	return total
}

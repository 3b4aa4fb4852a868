package advance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusPartial   = "partial"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

const (
	ModeFixedAmount = "fixed_amount"
	ModePercentage  = "percentage"
)

// Advance adalah kasbon sopir yang dilunasi lewat potongan payroll. PaidAmount
// hanya bertambah lewat payroll run, tidak pernah diedit manual.
type Advance struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID uuid.UUID `gorm:"type:uuid;not null;index"`

	Amount     decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	PaidAmount decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	Status     string          `gorm:"type:varchar(20);not null;default:'active';index"`

	// Kebijakan potongan per advance, bukan per sopir.
	DeductionMode  string          `gorm:"type:varchar(20);not null;default:'fixed_amount'"`
	DeductionValue decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`

	DateIssued time.Time `gorm:"type:date;not null;index"`
	Notes      *string   `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Advance) TableName() string {
	return "advances"
}

// Outstanding is what the driver still owes on this advance.
func (a Advance) Outstanding() decimal.Decimal {
	out := a.Amount.Sub(a.PaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Repayable reports whether this advance participates in payroll deduction.
func (a Advance) Repayable() bool {
	return (a.Status == StatusActive || a.Status == StatusPartial) && a.Outstanding().IsPositive()
}

// DesiredDeduction computes this advance's per-cycle deduction against a gross
// salary: the configured fixed amount, or a percentage of gross, never more
// than what is still outstanding.
func (a Advance) DesiredDeduction(gross decimal.Decimal) decimal.Decimal {
	var desired decimal.Decimal
	switch a.DeductionMode {
	case ModePercentage:
		desired = gross.Mul(a.DeductionValue).Div(decimal.NewFromInt(100))
	default:
		desired = a.DeductionValue
	}

	if desired.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(desired, a.Outstanding())
}

// statusAfterPayment derives the status from the new paid amount.
func statusAfterPayment(amount, paid decimal.Decimal) string {
	if paid.GreaterThanOrEqual(amount) {
		return StatusPaid
	}
	if paid.IsPositive() {
		return StatusPartial
	}
	return StatusActive
}

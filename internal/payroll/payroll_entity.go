package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusClosed   = "closed"
)

// PayrollRun adalah satu batch perhitungan gaji untuk satu bulan. Lifecycle:
// pending -> approved -> closed, tanpa jalan mundur. Maksimal satu run yang
// belum closed per (month, year).
type PayrollRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunNumber string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	Month     int       `gorm:"not null;index:idx_run_month"`
	Year      int       `gorm:"not null;index:idx_run_month"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index"`

	DriverCount    int `gorm:"not null;default:0"`
	ProcessedCount int `gorm:"not null;default:0"`
	FailedCount    int `gorm:"not null;default:0"`

	TotalBaseSalary decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	TotalCommission decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	TotalGross      decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	TotalDeducted   decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	TotalNet        decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`

	// One-shot: potongan kasbon hanya boleh masuk ledger sekali per run.
	AdvanceDeductionsProcessed bool `gorm:"not null;default:false"`

	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt *time.Time
	ClosedBy    *uuid.UUID `gorm:"type:uuid"`
	ClosedAt    *time.Time

	Lines []PayrollLine `gorm:"foreignKey:RunID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// PayrollLine is one driver's result inside a run. A failed line stays in the
// run with its error so the month's coverage is visible; it just contributes
// nothing to the totals.
type PayrollLine struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DriverID uuid.UUID `gorm:"type:uuid;not null;index"`

	DriverName string `gorm:"type:varchar(120);not null"`
	OrderCount int64  `gorm:"type:bigint;not null;default:0"`

	BaseSalary       decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	CommissionAmount decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	GrossSalary      decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	AdvanceDeduction decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`

	// Bagian potongan yang tidak bisa diterapkan karena net tidak boleh
	// negatif. Sisanya tetap terhutang di ledger kasbon.
	ClampedAmount decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`

	NetSalary decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`

	Success bool    `gorm:"not null;default:true"`
	Error   *string `gorm:"type:text"`

	// Rincian alokasi FIFO per advance, diisi saat process_deductions.
	AdvanceDetails []byte `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollLine) TableName() string {
	return "payroll_lines"
}

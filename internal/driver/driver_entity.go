package driver

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EmploymentCommission = "commission"
	EmploymentSalary     = "salary"
	EmploymentMixed      = "mixed"
)

type Driver struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName string    `gorm:"type:varchar(120);not null"`
	Phone    string    `gorm:"type:varchar(30)"`

	// Konfigurasi penggajian. Uang disimpan sebagai numeric(12,3); KWD punya
	// tiga angka desimal, jadi int64 sen tidak cukup presisi di sini.
	EmploymentType            string          `gorm:"type:varchar(20);not null;default:'commission'"`
	BaseSalary                decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	DefaultCommissionPerOrder decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	MaxAdvanceLimit           decimal.Decimal `gorm:"type:numeric(12,3);not null;default:500"`

	IsActive  bool `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Driver) TableName() string {
	return "drivers"
}

// CommissionEligible reports whether the driver participates in monthly
// commission tracking: pure commission drivers always, salaried and mixed
// drivers only when they carry a commission rate.
func (d Driver) CommissionEligible() bool {
	if d.EmploymentType == EmploymentCommission {
		return true
	}
	return (d.EmploymentType == EmploymentSalary || d.EmploymentType == EmploymentMixed) &&
		d.DefaultCommissionPerOrder.IsPositive()
}

// SalaryEligible reports whether the driver receives a base salary in payroll.
func (d Driver) SalaryEligible() bool {
	return d.EmploymentType == EmploymentSalary || d.EmploymentType == EmploymentMixed
}

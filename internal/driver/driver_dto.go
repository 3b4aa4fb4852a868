package driver

import "github.com/shopspring/decimal"

type CreateDriverRequest struct {
	FullName                  string          `json:"full_name" binding:"required"`
	Phone                     string          `json:"phone"`
	EmploymentType            string          `json:"employment_type" binding:"required,oneof=commission salary mixed"`
	BaseSalary                decimal.Decimal `json:"base_salary"`
	DefaultCommissionPerOrder decimal.Decimal `json:"default_commission_per_order"`
	MaxAdvanceLimit           decimal.Decimal `json:"max_advance_limit"`
	IsActive                  *bool           `json:"is_active"`
}

type UpdateDriverRequest struct {
	FullName                  string          `json:"full_name" binding:"required"`
	Phone                     string          `json:"phone"`
	EmploymentType            string          `json:"employment_type" binding:"required,oneof=commission salary mixed"`
	BaseSalary                decimal.Decimal `json:"base_salary"`
	DefaultCommissionPerOrder decimal.Decimal `json:"default_commission_per_order"`
	MaxAdvanceLimit           decimal.Decimal `json:"max_advance_limit"`
	IsActive                  *bool           `json:"is_active"`
}

type DriverResponse struct {
	ID                        string          `json:"id"`
	FullName                  string          `json:"full_name"`
	Phone                     string          `json:"phone,omitempty"`
	EmploymentType            string          `json:"employment_type"`
	BaseSalary                decimal.Decimal `json:"base_salary"`
	DefaultCommissionPerOrder decimal.Decimal `json:"default_commission_per_order"`
	MaxAdvanceLimit           decimal.Decimal `json:"max_advance_limit"`
	IsActive                  bool            `json:"is_active"`
	CommissionEligible        bool            `json:"commission_eligible"`
}

// DriverOption adalah bentuk ringkas untuk dropdown di UI.
type DriverOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

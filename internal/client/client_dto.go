package client

import "github.com/shopspring/decimal"

type CreateClientRequest struct {
	CompanyName    string          `json:"company_name" binding:"required"`
	Phone          string          `json:"phone"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       *bool           `json:"is_active"`
}

type UpdateClientRequest struct {
	CompanyName    string          `json:"company_name" binding:"required"`
	Phone          string          `json:"phone"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       *bool           `json:"is_active"`
}

type ClientResponse struct {
	ID             string          `json:"id"`
	CompanyName    string          `json:"company_name"`
	Phone          string          `json:"phone,omitempty"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       bool            `json:"is_active"`
}

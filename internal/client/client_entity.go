package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Client struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyName string    `gorm:"type:varchar(160);not null"`
	Phone       string    `gorm:"type:varchar(30)"`

	// Default rate used when a driver has no rate of their own for this client.
	CommissionRate decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`

	IsActive  bool `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Client) TableName() string {
	return "clients"
}

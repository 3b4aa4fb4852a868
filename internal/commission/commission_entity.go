package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyOrder adalah satu catatan komisi bulanan per sopir: maksimal satu
// record per (driver, month, year), dibuat saat entry pertama dicatat dan
// tidak pernah dibuat ulang secara implisit.
type MonthlyOrder struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID uuid.UUID `gorm:"type:uuid;not null;index:idx_driver_month,unique"`
	Month    int       `gorm:"not null;index:idx_driver_month,unique"`
	Year     int       `gorm:"not null;index:idx_driver_month,unique"`

	// Agregat tersimpan; dihitung ulang setiap kali entries berubah.
	TotalOrders int64           `gorm:"type:bigint;not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`

	Entries []ClientEntry `gorm:"foreignKey:MonthlyOrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MonthlyOrder) TableName() string {
	return "monthly_orders"
}

// ClientEntry is one client's billing block inside a monthly record:
// a commission rate plus one or more disjoint work periods.
type ClientEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MonthlyOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClientID       uuid.UUID `gorm:"type:uuid;not null;index"`

	CommissionPerOrder decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	TotalOrders        int64           `gorm:"type:bigint;not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`

	// Kolom peninggalan format lama (entry datar tanpa periods).
	// Record baru selalu nil; record lama bisa hanya punya kolom ini.
	LegacyNumOrders *int64 `gorm:"column:num_orders"`

	Notes *string `gorm:"type:text"`

	Periods []CommissionPeriod `gorm:"foreignKey:ClientEntryID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ClientEntry) TableName() string {
	return "commission_entries"
}

// OrderTotal resolves the entry's order count across both storage formats:
// the stored aggregate when present, the legacy flat column otherwise, and
// as a last resort the sum of its periods. Both formats must resolve to the
// same number for equivalent data.
func (e ClientEntry) OrderTotal() int64 {
	if e.TotalOrders > 0 {
		return e.TotalOrders
	}
	if e.LegacyNumOrders != nil {
		return *e.LegacyNumOrders
	}

	var total int64
	for _, p := range e.Periods {
		total += p.OrderCount
	}
	return total
}

// AmountTotal resolves the entry's commission amount, recomputing from the
// resolved order count when the stored aggregate is missing.
func (e ClientEntry) AmountTotal() decimal.Decimal {
	if e.TotalAmount.IsPositive() {
		return e.TotalAmount
	}
	return e.CommissionPerOrder.Mul(decimal.NewFromInt(e.OrderTotal()))
}

// CommissionPeriod is the atomic billing unit: a closed date range with the
// number of orders delivered in it.
type CommissionPeriod struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientEntryID uuid.UUID `gorm:"type:uuid;not null;index"`

	DateFrom   time.Time `gorm:"type:date;not null"`
	DateTo     time.Time `gorm:"type:date;not null"`
	OrderCount int64     `gorm:"type:bigint;not null;default:0"`

	CreatedAt time.Time
}

func (CommissionPeriod) TableName() string {
	return "commission_periods"
}

// Overlaps uses closed-interval semantics: periods that touch on a boundary
// day count as overlapping, so a client is never billed twice for that day.
func (p CommissionPeriod) Overlaps(other CommissionPeriod) bool {
	return !p.DateFrom.After(other.DateTo) && !other.DateFrom.After(p.DateTo)
}

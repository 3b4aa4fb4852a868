package commission

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=commission_repo.go -destination=mock/commission_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateOrder(ctx context.Context, order *MonthlyOrder) error
	ReplaceEntries(ctx context.Context, orderID uuid.UUID, entries []ClientEntry) error
	UpdateAggregates(ctx context.Context, orderID uuid.UUID, totalOrders int64, totalAmount decimal.Decimal) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	FindByID(ctx context.Context, id string) (*MonthlyOrder, error)
	FindByDriverAndMonth(ctx context.Context, driverID string, month, year int) (*MonthlyOrder, error)
	FindByMonth(ctx context.Context, month, year int) ([]MonthlyOrder, error)
	TotalsByDriver(ctx context.Context, driverID string, month, year int) (int64, decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn memilih koneksi: transaksi milik service kalau ada, pool gorm kalau
// tidak. Semua jalur tulis lewat sini supaya ikut transaksi.
func (r *repository) conn() gorm.ConnPool {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}

func (r *repository) CreateOrder(ctx context.Context, order *MonthlyOrder) error {
	return r.conn().QueryRowContext(ctx, `
		INSERT INTO monthly_orders (driver_id, month, year, total_orders, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id
	`, order.DriverID, order.Month, order.Year, order.TotalOrders, order.TotalAmount).Scan(&order.ID)
}

// ReplaceEntries swaps the order's whole entry set in place. Entries are
// never patched individually; the form always submits the full month.
func (r *repository) ReplaceEntries(ctx context.Context, orderID uuid.UUID, entries []ClientEntry) error {
	conn := r.conn()

	if _, err := conn.ExecContext(ctx, `
		DELETE FROM commission_periods
		WHERE client_entry_id IN (SELECT id FROM commission_entries WHERE monthly_order_id = $1)
	`, orderID); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `
		DELETE FROM commission_entries WHERE monthly_order_id = $1
	`, orderID); err != nil {
		return err
	}

	for i := range entries {
		entry := &entries[i]
		entry.MonthlyOrderID = orderID

		err := conn.QueryRowContext(ctx, `
			INSERT INTO commission_entries
				(monthly_order_id, client_id, commission_per_order, total_orders, total_amount, num_orders, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			RETURNING id
		`, entry.MonthlyOrderID, entry.ClientID, entry.CommissionPerOrder,
			entry.TotalOrders, entry.TotalAmount, entry.LegacyNumOrders, entry.Notes).Scan(&entry.ID)
		if err != nil {
			return err
		}

		for j := range entry.Periods {
			period := &entry.Periods[j]
			period.ClientEntryID = entry.ID

			err := conn.QueryRowContext(ctx, `
				INSERT INTO commission_periods (client_entry_id, date_from, date_to, order_count, created_at)
				VALUES ($1, $2, $3, $4, now())
				RETURNING id
			`, period.ClientEntryID, period.DateFrom, period.DateTo, period.OrderCount).Scan(&period.ID)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *repository) UpdateAggregates(ctx context.Context, orderID uuid.UUID, totalOrders int64, totalAmount decimal.Decimal) error {
	_, err := r.conn().ExecContext(ctx, `
		UPDATE monthly_orders
		SET total_orders = $1, total_amount = $2, updated_at = now()
		WHERE id = $3
	`, totalOrders, totalAmount, orderID)
	return err
}

func (r *repository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	conn := r.conn()

	if _, err := conn.ExecContext(ctx, `
		DELETE FROM commission_periods
		WHERE client_entry_id IN (SELECT id FROM commission_entries WHERE monthly_order_id = $1)
	`, orderID); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `
		DELETE FROM commission_entries WHERE monthly_order_id = $1
	`, orderID); err != nil {
		return err
	}
	_, err := conn.ExecContext(ctx, `
		DELETE FROM monthly_orders WHERE id = $1
	`, orderID)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*MonthlyOrder, error) {
	var order MonthlyOrder
	err := r.db.WithContext(ctx).
		Preload("Entries.Periods").
		Preload("Entries").
		First(&order, "id = ?", id).Error
	return &order, err
}

func (r *repository) FindByDriverAndMonth(ctx context.Context, driverID string, month, year int) (*MonthlyOrder, error) {
	var order MonthlyOrder
	err := r.db.WithContext(ctx).
		Preload("Entries.Periods").
		Preload("Entries").
		First(&order, "driver_id = ? AND month = ? AND year = ?", driverID, month, year).Error
	return &order, err
}

func (r *repository) FindByMonth(ctx context.Context, month, year int) ([]MonthlyOrder, error) {
	var orders []MonthlyOrder
	err := r.db.WithContext(ctx).
		Preload("Entries.Periods").
		Preload("Entries").
		Where("month = ? AND year = ?", month, year).
		Find(&orders).Error
	return orders, err
}

// TotalsByDriver feeds the payroll calculator: the stored aggregates of the
// driver's monthly record, zeroes when the driver has no record that month.
func (r *repository) TotalsByDriver(ctx context.Context, driverID string, month, year int) (int64, decimal.Decimal, error) {
	var row struct {
		TotalOrders int64
		TotalAmount decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&MonthlyOrder{}).
		Select("total_orders, total_amount").
		Where("driver_id = ? AND month = ? AND year = ?", driverID, month, year).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, decimal.Zero, nil
	}
	if err != nil {
		return 0, decimal.Zero, err
	}

	return row.TotalOrders, row.TotalAmount, nil
}

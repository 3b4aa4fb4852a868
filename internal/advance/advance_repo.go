package advance

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=advance_repo.go -destination=mock/advance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Advance) error
	FindAll(ctx context.Context) ([]Advance, error)
	FindByID(ctx context.Context, id string) (*Advance, error)
	FindByDriver(ctx context.Context, driverID string) ([]Advance, error)
	FindRepayableByDriverForUpdate(ctx context.Context, driverID string) ([]Advance, error)
	OutstandingForDriver(ctx context.Context, driverID string) (decimal.Decimal, error)
	Update(ctx context.Context, a *Advance) error
	ApplyAllocations(ctx context.Context, allocations []Allocation) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) conn() gorm.ConnPool {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}

func (r *repository) Create(ctx context.Context, a *Advance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Advance, error) {
	var advances []Advance
	err := r.db.WithContext(ctx).
		Order("date_issued DESC").
		Find(&advances).Error
	return advances, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Advance, error) {
	var a Advance
	err := r.db.WithContext(ctx).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByDriver(ctx context.Context, driverID string) ([]Advance, error) {
	var advances []Advance
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("date_issued ASC").
		Find(&advances).Error
	return advances, err
}

// FindRepayableByDriverForUpdate locks the driver's open advances for the
// duration of the payroll transaction. FIFO order, oldest first; FOR UPDATE
// keeps two concurrent runs from deducting the same balance twice.
func (r *repository) FindRepayableByDriverForUpdate(ctx context.Context, driverID string) ([]Advance, error) {
	rows, err := r.conn().QueryContext(ctx, `
		SELECT id, driver_id, amount, paid_amount, status, deduction_mode, deduction_value, date_issued
		FROM advances
		WHERE driver_id = $1
		  AND status IN ('active', 'partial')
		  AND paid_amount < amount
		ORDER BY date_issued ASC, created_at ASC
		FOR UPDATE
	`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advances []Advance
	for rows.Next() {
		var a Advance
		if err := rows.Scan(
			&a.ID, &a.DriverID, &a.Amount, &a.PaidAmount,
			&a.Status, &a.DeductionMode, &a.DeductionValue, &a.DateIssued,
		); err != nil {
			return nil, err
		}
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

func (r *repository) OutstandingForDriver(ctx context.Context, driverID string) (decimal.Decimal, error) {
	var outstanding decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&Advance{}).
		Select("COALESCE(SUM(amount - paid_amount), 0)").
		Where("driver_id = ? AND status IN ('active', 'partial')", driverID).
		Scan(&outstanding).Error
	return outstanding, err
}

func (r *repository) Update(ctx context.Context, a *Advance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) ApplyAllocations(ctx context.Context, allocations []Allocation) error {
	for _, alloc := range allocations {
		if _, err := r.conn().ExecContext(ctx, `
			UPDATE advances
			SET paid_amount = $1, status = $2, updated_at = now()
			WHERE id = $3
		`, alloc.NewPaidAmount, alloc.NewStatus, alloc.AdvanceID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&Advance{}, "id = ?", id).Error
}

package payroll

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRun(ctx context.Context, run *PayrollRun) error
	CreateLines(ctx context.Context, runID uuid.UUID, lines []PayrollLine) error
	FindAll(ctx context.Context, year int) ([]PayrollRun, error)
	FindByID(ctx context.Context, id string) (*PayrollRun, error)
	OpenRunExists(ctx context.Context, month, year int) (bool, error)
	MarkApproved(ctx context.Context, runID uuid.UUID, approvedBy uuid.UUID) (bool, error)
	MarkDeductionsProcessed(ctx context.Context, runID uuid.UUID, processedBy uuid.UUID, totalDeducted decimal.Decimal) (bool, error)
	MarkClosed(ctx context.Context, runID uuid.UUID, closedBy uuid.UUID) (bool, error)
	UpdateLineDeduction(ctx context.Context, lineID uuid.UUID, applied decimal.Decimal, details []byte) error
	DeleteRun(ctx context.Context, runID uuid.UUID) error
	HistoryByDriver(ctx context.Context, driverID string) ([]DriverHistoryRow, error)
}

// DriverHistoryRow is one payroll line joined with its run header.
type DriverHistoryRow struct {
	RunID     uuid.UUID
	RunNumber string
	Month     int
	Year      int
	RunStatus string
	Line      PayrollLine
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

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.conn().QueryRowContext(ctx, `
		INSERT INTO payroll_runs (
			run_number, month, year, status,
			driver_count, processed_count, failed_count,
			total_base_salary, total_commission, total_gross, total_deducted, total_net,
			advance_deductions_processed, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, false, $13, now(), now())
		RETURNING id
	`,
		run.RunNumber, run.Month, run.Year, run.Status,
		run.DriverCount, run.ProcessedCount, run.FailedCount,
		run.TotalBaseSalary, run.TotalCommission, run.TotalGross, run.TotalDeducted, run.TotalNet,
		run.CreatedBy,
	).Scan(&run.ID)
}

func (r *repository) CreateLines(ctx context.Context, runID uuid.UUID, lines []PayrollLine) error {
	for i := range lines {
		line := &lines[i]
		line.RunID = runID

		err := r.conn().QueryRowContext(ctx, `
			INSERT INTO payroll_lines (
				run_id, driver_id, driver_name, order_count,
				base_salary, commission_amount, gross_salary,
				advance_deduction, clamped_amount, net_salary,
				success, error, advance_details, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
			RETURNING id
		`,
			line.RunID, line.DriverID, line.DriverName, line.OrderCount,
			line.BaseSalary, line.CommissionAmount, line.GrossSalary,
			line.AdvanceDeduction, line.ClampedAmount, line.NetSalary,
			line.Success, line.Error, line.AdvanceDetails,
		).Scan(&line.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindAll(ctx context.Context, year int) ([]PayrollRun, error) {
	var runs []PayrollRun
	q := r.db.WithContext(ctx).Order("year DESC, month DESC, created_at DESC")
	if year > 0 {
		q = q.Where("year = ?", year)
	}
	err := q.Find(&runs).Error
	return runs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&run, "id = ?", id).Error
	return &run, err
}

// OpenRunExists ikut transaksi pemanggil supaya cek dan insert run baru
// terjadi di snapshot yang sama.
func (r *repository) OpenRunExists(ctx context.Context, month, year int) (bool, error) {
	var exists bool
	err := r.conn().QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM payroll_runs
			WHERE month = $1 AND year = $2 AND status <> $3
		)
	`, month, year, StatusClosed).Scan(&exists)
	return exists, err
}

// Transisi status pakai check-and-set di satu UPDATE; RowsAffected nol berarti
// run sudah pindah status lewat request lain.
func (r *repository) MarkApproved(ctx context.Context, runID uuid.UUID, approvedBy uuid.UUID) (bool, error) {
	res, err := r.conn().ExecContext(ctx, `
		UPDATE payroll_runs
		SET status = $1, approved_by = $2, approved_at = now(), updated_at = now()
		WHERE id = $3 AND status = $4
	`, StatusApproved, approvedBy, runID, StatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) MarkDeductionsProcessed(ctx context.Context, runID uuid.UUID, processedBy uuid.UUID, totalDeducted decimal.Decimal) (bool, error) {
	res, err := r.conn().ExecContext(ctx, `
		UPDATE payroll_runs
		SET advance_deductions_processed = true,
			total_deducted = $1,
			processed_by = $2, processed_at = now(), updated_at = now()
		WHERE id = $3 AND status = $4 AND advance_deductions_processed = false
	`, totalDeducted, processedBy, runID, StatusApproved)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) MarkClosed(ctx context.Context, runID uuid.UUID, closedBy uuid.UUID) (bool, error) {
	res, err := r.conn().ExecContext(ctx, `
		UPDATE payroll_runs
		SET status = $1, closed_by = $2, closed_at = now(), updated_at = now()
		WHERE id = $3 AND status = $4
	`, StatusClosed, closedBy, runID, StatusApproved)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) UpdateLineDeduction(ctx context.Context, lineID uuid.UUID, applied decimal.Decimal, details []byte) error {
	_, err := r.conn().ExecContext(ctx, `
		UPDATE payroll_lines
		SET advance_deduction = $1,
			net_salary = gross_salary - $1,
			advance_details = $2,
			updated_at = now()
		WHERE id = $3
	`, applied, details, lineID)
	return err
}

func (r *repository) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	if _, err := r.conn().ExecContext(ctx, `
		DELETE FROM payroll_lines WHERE run_id = $1
	`, runID); err != nil {
		return err
	}
	_, err := r.conn().ExecContext(ctx, `
		DELETE FROM payroll_runs WHERE id = $1
	`, runID)
	return err
}

func (r *repository) HistoryByDriver(ctx context.Context, driverID string) ([]DriverHistoryRow, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			pr.id, pr.run_number, pr.month, pr.year, pr.status,
			pl.id, pl.driver_id, pl.driver_name, pl.order_count,
			pl.base_salary, pl.commission_amount, pl.gross_salary,
			pl.advance_deduction, pl.clamped_amount, pl.net_salary,
			pl.success, pl.error
		FROM payroll_lines pl
		JOIN payroll_runs pr ON pr.id = pl.run_id
		WHERE pl.driver_id = ?
		ORDER BY pr.year DESC, pr.month DESC
	`, driverID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []DriverHistoryRow
	for rows.Next() {
		var h DriverHistoryRow
		if err := rows.Scan(
			&h.RunID, &h.RunNumber, &h.Month, &h.Year, &h.RunStatus,
			&h.Line.ID, &h.Line.DriverID, &h.Line.DriverName, &h.Line.OrderCount,
			&h.Line.BaseSalary, &h.Line.CommissionAmount, &h.Line.GrossSalary,
			&h.Line.AdvanceDeduction, &h.Line.ClampedAmount, &h.Line.NetSalary,
			&h.Line.Success, &h.Line.Error,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/advance"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/messaging/kafka"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/payroll"
	payrollerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn              func(tx *sql.Tx) payroll.Repository
	createRunFn           func(ctx context.Context, run *payroll.PayrollRun) error
	createLinesFn         func(ctx context.Context, runID uuid.UUID, lines []payroll.PayrollLine) error
	findAllFn             func(ctx context.Context, year int) ([]payroll.PayrollRun, error)
	findByIDFn            func(ctx context.Context, id string) (*payroll.PayrollRun, error)
	openRunExistsFn       func(ctx context.Context, month, year int) (bool, error)
	markApprovedFn        func(ctx context.Context, runID uuid.UUID, approvedBy uuid.UUID) (bool, error)
	markProcessedFn       func(ctx context.Context, runID uuid.UUID, processedBy uuid.UUID, totalDeducted decimal.Decimal) (bool, error)
	markClosedFn          func(ctx context.Context, runID uuid.UUID, closedBy uuid.UUID) (bool, error)
	updateLineDeductionFn func(ctx context.Context, lineID uuid.UUID, applied decimal.Decimal, details []byte) error
	deleteRunFn           func(ctx context.Context, runID uuid.UUID) error
	historyByDriverFn     func(ctx context.Context, driverID string) ([]payroll.DriverHistoryRow, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) CreateRun(ctx context.Context, run *payroll.PayrollRun) error {
	if f.createRunFn != nil {
		return f.createRunFn(ctx, run)
	}
	run.ID = uuid.New()
	return nil
}

func (f *fakePayrollRepository) CreateLines(ctx context.Context, runID uuid.UUID, lines []payroll.PayrollLine) error {
	if f.createLinesFn != nil {
		return f.createLinesFn(ctx, runID, lines)
	}
	return nil
}

func (f *fakePayrollRepository) FindAll(ctx context.Context, year int) ([]payroll.PayrollRun, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, year)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.PayrollRun, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) OpenRunExists(ctx context.Context, month, year int) (bool, error) {
	if f.openRunExistsFn != nil {
		return f.openRunExistsFn(ctx, month, year)
	}
	return false, nil
}

func (f *fakePayrollRepository) MarkApproved(ctx context.Context, runID uuid.UUID, approvedBy uuid.UUID) (bool, error) {
	if f.markApprovedFn != nil {
		return f.markApprovedFn(ctx, runID, approvedBy)
	}
	return true, nil
}

func (f *fakePayrollRepository) MarkDeductionsProcessed(ctx context.Context, runID uuid.UUID, processedBy uuid.UUID, totalDeducted decimal.Decimal) (bool, error) {
	if f.markProcessedFn != nil {
		return f.markProcessedFn(ctx, runID, processedBy, totalDeducted)
	}
	return true, nil
}

func (f *fakePayrollRepository) MarkClosed(ctx context.Context, runID uuid.UUID, closedBy uuid.UUID) (bool, error) {
	if f.markClosedFn != nil {
		return f.markClosedFn(ctx, runID, closedBy)
	}
	return true, nil
}

func (f *fakePayrollRepository) UpdateLineDeduction(ctx context.Context, lineID uuid.UUID, applied decimal.Decimal, details []byte) error {
	if f.updateLineDeductionFn != nil {
		return f.updateLineDeductionFn(ctx, lineID, applied, details)
	}
	return nil
}

func (f *fakePayrollRepository) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	if f.deleteRunFn != nil {
		return f.deleteRunFn(ctx, runID)
	}
	return nil
}

func (f *fakePayrollRepository) HistoryByDriver(ctx context.Context, driverID string) ([]payroll.DriverHistoryRow, error) {
	if f.historyByDriverFn != nil {
		return f.historyByDriverFn(ctx, driverID)
	}
	return nil, nil
}

type stubDriverRepository struct {
	findActiveFn func(ctx context.Context) ([]driver.Driver, error)
}

func (s *stubDriverRepository) WithTx(tx *sql.Tx) driver.Repository                 { return s }
func (s *stubDriverRepository) Create(ctx context.Context, d *driver.Driver) error { return nil }
func (s *stubDriverRepository) FindAll(ctx context.Context) ([]driver.Driver, error) {
	return nil, nil
}
func (s *stubDriverRepository) FindActive(ctx context.Context) ([]driver.Driver, error) {
	if s.findActiveFn != nil {
		return s.findActiveFn(ctx)
	}
	return nil, nil
}
func (s *stubDriverRepository) FindByID(ctx context.Context, id string) (*driver.Driver, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubDriverRepository) Update(ctx context.Context, d *driver.Driver) error { return nil }
func (s *stubDriverRepository) Delete(ctx context.Context, id string) error        { return nil }

type stubAdvanceRepository struct {
	findRepayableFn    func(ctx context.Context, driverID string) ([]advance.Advance, error)
	applyAllocationsFn func(ctx context.Context, allocations []advance.Allocation) error
}

func (s *stubAdvanceRepository) WithTx(tx *sql.Tx) advance.Repository { return s }
func (s *stubAdvanceRepository) Create(ctx context.Context, a *advance.Advance) error {
	return nil
}
func (s *stubAdvanceRepository) FindAll(ctx context.Context) ([]advance.Advance, error) {
	return nil, nil
}
func (s *stubAdvanceRepository) FindByID(ctx context.Context, id string) (*advance.Advance, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubAdvanceRepository) FindByDriver(ctx context.Context, driverID string) ([]advance.Advance, error) {
	return nil, nil
}
func (s *stubAdvanceRepository) FindRepayableByDriverForUpdate(ctx context.Context, driverID string) ([]advance.Advance, error) {
	if s.findRepayableFn != nil {
		return s.findRepayableFn(ctx, driverID)
	}
	return nil, nil
}
func (s *stubAdvanceRepository) OutstandingForDriver(ctx context.Context, driverID string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubAdvanceRepository) Update(ctx context.Context, a *advance.Advance) error { return nil }
func (s *stubAdvanceRepository) ApplyAllocations(ctx context.Context, allocations []advance.Allocation) error {
	if s.applyAllocationsFn != nil {
		return s.applyAllocationsFn(ctx, allocations)
	}
	return nil
}
func (s *stubAdvanceRepository) Delete(ctx context.Context, id string) error { return nil }

type stubCounterRepository struct {
	next int64
}

func (s *stubCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	s.next++
	return s.next, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     payroll.Service
	repo        *fakePayrollRepository
	driverRepo  *stubDriverRepository
	advanceRepo *stubAdvanceRepository
	outbox      *fakeOutboxRepository
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	driverRepo := &stubDriverRepository{}
	advanceRepo := &stubAdvanceRepository{}
	outbox := &fakeOutboxRepository{}

	calc := payroll.NewCalculator(&fakeCommissionSource{}, &fakeAdvanceSource{})
	svc := payroll.NewService(db, repo, driverRepo, advanceRepo, calc, &stubCounterRepository{}, outbox)

	return &payrollServiceDeps{
		db:          db,
		sqlMock:     sqlMock,
		service:     svc,
		repo:        repo,
		driverRepo:  driverRepo,
		advanceRepo: advanceRepo,
		outbox:      outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestPayrollService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("calculates without touching the database", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.driverRepo.findActiveFn = func(ctx context.Context) ([]driver.Driver, error) {
			return []driver.Driver{mixedDriver("Ahmad", "400.000")}, nil
		}

		resp, err := deps.service.Preview(ctx, 8, 2025)

		assert.NoError(t, err)
		assert.Equal(t, 8, resp.Month)
		assert.Equal(t, 1, resp.DriverCount)
		assert.Equal(t, 1, resp.ProcessedCount)
		assert.True(t, resp.TotalGross.Equal(dec("400.000")))
		assert.Len(t, resp.PayrollResults, 1)
		assert.Empty(t, resp.PayrollResults[0].ID)

		// Tidak ada transaksi, tidak ada event: murni baca.
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Preview(ctx, 13, 2025)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})
}

func TestPayrollService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.driverRepo.findActiveFn = func(ctx context.Context) ([]driver.Driver, error) {
		return []driver.Driver{mixedDriver("Ahmad", "400.000")}, nil
	}

	resp, err := deps.service.Create(ctx, actorID, payroll.CreateRunRequest{Month: 8, Year: 2025})

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusPending, resp.Status)
	assert.Equal(t, "PR-202508-0001", resp.RunNumber)
	assert.Equal(t, 1, resp.DriverCount)
	assert.Len(t, deps.outbox.created, 1)
	assert.Equal(t, "payroll_run.created", deps.outbox.created[0].EventType)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Create_OpenRunGuard(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	// Cek run terbuka jalan di dalam transaksi; duplikat berarti rollback
	// tanpa insert apa pun.
	expectTx(t, deps.sqlMock, false)
	deps.driverRepo.findActiveFn = func(ctx context.Context) ([]driver.Driver, error) {
		return []driver.Driver{mixedDriver("Ahmad", "400.000")}, nil
	}

	var checkedInsideTx bool
	deps.repo.withTxFn = func(tx *sql.Tx) payroll.Repository {
		inner := &fakePayrollRepository{
			openRunExistsFn: func(ctx context.Context, month, year int) (bool, error) {
				checkedInsideTx = true
				return true, nil
			},
		}
		return inner
	}

	_, err := deps.service.Create(ctx, uuid.New().String(), payroll.CreateRunRequest{Month: 8, Year: 2025})

	assert.ErrorIs(t, err, payrollerrors.ErrOpenRunExists)
	assert.True(t, checkedInsideTx)
	assert.Empty(t, deps.outbox.created)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Approve(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return &payroll.PayrollRun{ID: runID, Status: payroll.StatusPending}, nil
		}

		resp, err := deps.service.Approve(ctx, actorID, runID.String())

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("lost race rolls back", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return &payroll.PayrollRun{ID: runID, Status: payroll.StatusPending}, nil
		}
		deps.repo.markApprovedFn = func(ctx context.Context, id uuid.UUID, by uuid.UUID) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Approve(ctx, actorID, runID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrApproveOnlyPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_ProcessDeductions(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()
	driverID := uuid.New()
	actorID := uuid.New().String()

	approvedRun := func(processed bool) *payroll.PayrollRun {
		return &payroll.PayrollRun{
			ID:                         runID,
			Status:                     payroll.StatusApproved,
			AdvanceDeductionsProcessed: processed,
			Lines: []payroll.PayrollLine{{
				ID:               uuid.New(),
				RunID:            runID,
				DriverID:         driverID,
				DriverName:       "Ahmad",
				GrossSalary:      dec("450.000"),
				AdvanceDeduction: dec("60.000"),
				NetSalary:        dec("390.000"),
				Success:          true,
			}},
		}
	}

	t.Run("applies FIFO and marks processed", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return approvedRun(false), nil
		}
		deps.advanceRepo.findRepayableFn = func(ctx context.Context, id string) ([]advance.Advance, error) {
			return []advance.Advance{{
				ID:         uuid.New(),
				DriverID:   driverID,
				Amount:     dec("100.000"),
				PaidAmount: dec("40.000"),
				Status:     advance.StatusPartial,
				DateIssued: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			}}, nil
		}

		var applied []advance.Allocation
		deps.advanceRepo.applyAllocationsFn = func(ctx context.Context, allocations []advance.Allocation) error {
			applied = allocations
			return nil
		}

		var markedTotal decimal.Decimal
		deps.repo.markProcessedFn = func(ctx context.Context, id uuid.UUID, by uuid.UUID, total decimal.Decimal) (bool, error) {
			markedTotal = total
			return true, nil
		}

		resp, err := deps.service.ProcessDeductions(ctx, actorID, runID.String())

		assert.NoError(t, err)
		assert.True(t, resp.AdvanceDeductionsProcessed)
		assert.True(t, resp.TotalDeducted.Equal(dec("60.000")))
		assert.True(t, markedTotal.Equal(dec("60.000")))
		assert.Len(t, applied, 1)
		assert.Equal(t, advance.StatusPaid, applied[0].NewStatus)

		// Lifecycle event plus one settled-advance event.
		assert.Len(t, deps.outbox.created, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("second invocation is rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return approvedRun(true), nil
		}

		_, err := deps.service.ProcessDeductions(ctx, actorID, runID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyProcessed)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("race on the processed flag rolls the ledger back", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return approvedRun(false), nil
		}
		deps.repo.markProcessedFn = func(ctx context.Context, id uuid.UUID, by uuid.UUID, total decimal.Decimal) (bool, error) {
			return false, nil
		}

		_, err := deps.service.ProcessDeductions(ctx, actorID, runID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyProcessed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("pending run is rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return &payroll.PayrollRun{ID: runID, Status: payroll.StatusPending}, nil
		}

		_, err := deps.service.ProcessDeductions(ctx, actorID, runID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrProcessOnlyApproved)
	})

	t.Run("closed run is rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return &payroll.PayrollRun{ID: runID, Status: payroll.StatusClosed}, nil
		}

		_, err := deps.service.ProcessDeductions(ctx, actorID, runID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrRunClosed)
	})
}

func TestPayrollService_Close(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()
	actorID := uuid.New().String()

	t.Run("requires processed deductions", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return &payroll.PayrollRun{ID: runID, Status: payroll.StatusApproved}, nil
		}

		_, err := deps.service.Close(ctx, actorID, runID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrDeductionsNotProcessed)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return &payroll.PayrollRun{
				ID:                         runID,
				Status:                     payroll.StatusApproved,
				AdvanceDeductionsProcessed: true,
			}, nil
		}

		resp, err := deps.service.Close(ctx, actorID, runID.String())

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusClosed, resp.Status)
		assert.NotNil(t, resp.ClosedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("closed stays closed", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
			return &payroll.PayrollRun{ID: runID, Status: payroll.StatusClosed}, nil
		}

		_, err := deps.service.Close(ctx, actorID, runID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrRunClosed)
	})
}

func TestPayrollService_Delete_OnlyPending(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRun, error) {
		return &payroll.PayrollRun{ID: runID, Status: payroll.StatusApproved}, nil
	}

	err := deps.service.Delete(ctx, runID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrDeleteOnlyPending)
}

package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/advance"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/events"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/messaging/kafka"
	payrollerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/payroll/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/contextutil"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Preview(ctx context.Context, month, year int) (PreviewResponse, error)
	Create(ctx context.Context, actorID string, req CreateRunRequest) (RunResponse, error)
	GetAll(ctx context.Context, year int) ([]RunResponse, error)
	GetByID(ctx context.Context, id string) (RunResponse, error)
	Approve(ctx context.Context, actorID string, id string) (RunResponse, error)
	ProcessDeductions(ctx context.Context, actorID string, id string) (RunResponse, error)
	Close(ctx context.Context, actorID string, id string) (RunResponse, error)
	Delete(ctx context.Context, id string) error
	GetDriverHistory(ctx context.Context, driverID string) ([]DriverHistoryResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	driverRepo  driver.Repository
	advanceRepo advance.Repository
	calculator  *Calculator
	counterRepo counter.Repository
	outboxRepo  kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	driverRepo driver.Repository,
	advanceRepo advance.Repository,
	calculator *Calculator,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:          db,
		repo:        repo,
		driverRepo:  driverRepo,
		advanceRepo: advanceRepo,
		calculator:  calculator,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		logger:      l,
	}
}

// Preview menjalankan kalkulator tanpa menulis apa pun. Dipakai form payroll
// untuk menampilkan hasil sebelum admin membuat run.
func (s *service) Preview(ctx context.Context, month, year int) (PreviewResponse, error) {
	if month < 1 || month > 12 || year < 2020 {
		return PreviewResponse{}, payrollerrors.ErrInvalidPeriod
	}

	drivers, err := s.driverRepo.FindActive(ctx)
	if err != nil {
		return PreviewResponse{}, err
	}

	lines, totals := s.calculator.Calculate(ctx, drivers, month, year)

	resp := PreviewResponse{
		Month:           month,
		Year:            year,
		DriverCount:     totals.DriverCount,
		ProcessedCount:  totals.ProcessedCount,
		FailedCount:     totals.FailedCount,
		TotalBaseSalary: totals.BaseSalary,
		TotalCommission: totals.Commission,
		TotalGross:      totals.Gross,
		TotalDeducted:   totals.Deducted,
		TotalNet:        totals.Net,
		PayrollResults:  make([]LineResponse, len(lines)),
	}
	for i, line := range lines {
		resp.PayrollResults[i] = toLineResponse(line)
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, actorID string, req CreateRunRequest) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if req.Month < 1 || req.Month > 12 || req.Year < 2020 {
		return RunResponse{}, payrollerrors.ErrInvalidPeriod
	}

	drivers, err := s.driverRepo.FindActive(ctx)
	if err != nil {
		return RunResponse{}, err
	}
	if len(drivers) == 0 {
		return RunResponse{}, payrollerrors.ErrNoEligibleDrivers
	}

	lines, totals := s.calculator.Calculate(ctx, drivers, req.Month, req.Year)

	seq, err := s.counterRepo.GetNextValue(ctx, counter.TypePayrollRun)
	if err != nil {
		return RunResponse{}, err
	}

	actor, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActor
	}

	run := &PayrollRun{
		RunNumber:       fmt.Sprintf("PR-%d%02d-%04d", req.Year, req.Month, seq),
		Month:           req.Month,
		Year:            req.Year,
		Status:          StatusPending,
		DriverCount:     totals.DriverCount,
		ProcessedCount:  totals.ProcessedCount,
		FailedCount:     totals.FailedCount,
		TotalBaseSalary: totals.BaseSalary,
		TotalCommission: totals.Commission,
		TotalGross:      totals.Gross,
		TotalDeducted:   totals.Deducted,
		TotalNet:        totals.Net,
		CreatedBy:       actor,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	// Satu run yang belum closed per bulan. Dicek di transaksi yang sama
	// dengan insert supaya tidak ada jendela antara cek dan tulis.
	exists, err := txRepo.OpenRunExists(ctx, req.Month, req.Year)
	if err != nil {
		return RunResponse{}, err
	}
	if exists {
		return RunResponse{}, payrollerrors.ErrOpenRunExists
	}

	if err := txRepo.CreateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}
	if err := txRepo.CreateLines(ctx, run.ID, lines); err != nil {
		return RunResponse{}, err
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, run, events.PayrollRunCreated, actorID, nil); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	log.Info("payroll run created",
		zap.String("run_id", run.ID.String()),
		zap.String("run_number", run.RunNumber),
		zap.Int("driver_count", run.DriverCount),
		zap.Int("failed_count", run.FailedCount),
	)

	run.Lines = lines
	return toRunResponse(*run, true), nil
}

func (s *service) GetAll(ctx context.Context, year int) ([]RunResponse, error) {
	runs, err := s.repo.FindAll(ctx, year)
	if err != nil {
		return nil, err
	}
	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = toRunResponse(run, false)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (RunResponse, error) {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return RunResponse{}, err
	}
	return toRunResponse(*run, true), nil
}

func (s *service) Approve(ctx context.Context, actorID string, id string) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	run, err := s.findRun(ctx, id)
	if err != nil {
		return RunResponse{}, err
	}

	actor, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActor
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).MarkApproved(ctx, run.ID, actor)
	if err != nil {
		return RunResponse{}, err
	}
	if !ok {
		// Status sudah bergeser lewat request lain.
		return RunResponse{}, payrollerrors.ErrApproveOnlyPending
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, run, events.PayrollRunApproved, actorID, nil); err != nil {
		return RunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	log.Info("payroll run approved",
		zap.String("run_id", run.ID.String()),
		zap.String("approved_by", actorID),
	)

	now := time.Now().UTC()
	run.Status = StatusApproved
	run.ApprovedBy = &actor
	run.ApprovedAt = &now
	return toRunResponse(*run, false), nil
}

// ProcessDeductions posts each line's planned advance deduction into the
// advance ledger, FIFO per driver, exactly once per run. Row locks on the
// advances and the check-and-set on the run flag keep a double invocation
// from touching the ledger twice.
func (s *service) ProcessDeductions(ctx context.Context, actorID string, id string) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	run, err := s.findRun(ctx, id)
	if err != nil {
		return RunResponse{}, err
	}
	if run.Status == StatusClosed {
		return RunResponse{}, payrollerrors.ErrRunClosed
	}
	if run.Status != StatusApproved {
		return RunResponse{}, payrollerrors.ErrProcessOnlyApproved
	}
	if run.AdvanceDeductionsProcessed {
		return RunResponse{}, payrollerrors.ErrAlreadyProcessed
	}

	actor, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActor
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	txRunRepo := s.repo.WithTx(tx)
	txAdvanceRepo := s.advanceRepo.WithTx(tx)

	totalDeducted := decimal.Zero
	var settled []events.AdvanceSettledEvent

	for _, line := range run.Lines {
		if !line.Success || !line.AdvanceDeduction.IsPositive() {
			continue
		}

		advances, err := txAdvanceRepo.FindRepayableByDriverForUpdate(ctx, line.DriverID.String())
		if err != nil {
			return RunResponse{}, err
		}

		// Alokasi dibatasi saldo terhutang saat ini, bukan saat run dihitung.
		allocations, applied := advance.AllocateDeduction(advances, line.AdvanceDeduction)
		if err := txAdvanceRepo.ApplyAllocations(ctx, allocations); err != nil {
			return RunResponse{}, err
		}

		details, err := json.Marshal(allocations)
		if err != nil {
			return RunResponse{}, err
		}
		if err := txRunRepo.UpdateLineDeduction(ctx, line.ID, applied, details); err != nil {
			return RunResponse{}, err
		}

		totalDeducted = totalDeducted.Add(applied)

		for _, alloc := range allocations {
			if alloc.NewStatus == advance.StatusPaid {
				settled = append(settled, events.AdvanceSettledEvent{
					EventType:  events.AdvanceSettled,
					AdvanceID:  alloc.AdvanceID.String(),
					DriverID:   line.DriverID.String(),
					RunID:      run.ID.String(),
					OccurredAt: time.Now().UTC(),
				})
			}
		}
	}

	ok, err := txRunRepo.MarkDeductionsProcessed(ctx, run.ID, actor, totalDeducted)
	if err != nil {
		return RunResponse{}, err
	}
	if !ok {
		// Invocation kedua kalah balapan; rollback membatalkan semua alokasi di atas.
		return RunResponse{}, payrollerrors.ErrAlreadyProcessed
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, run, events.PayrollRunDeductionsProcessed, actorID, &totalDeducted); err != nil {
		return RunResponse{}, err
	}
	for _, ev := range settled {
		if err := s.enqueueAdvanceEvent(ctx, tx, ev); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	log.Info("payroll advance deductions processed",
		zap.String("run_id", run.ID.String()),
		zap.String("total_deducted", totalDeducted.String()),
		zap.Int("advances_settled", len(settled)),
	)

	run.AdvanceDeductionsProcessed = true
	run.TotalDeducted = totalDeducted
	return toRunResponse(*run, false), nil
}

func (s *service) Close(ctx context.Context, actorID string, id string) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	run, err := s.findRun(ctx, id)
	if err != nil {
		return RunResponse{}, err
	}
	if run.Status == StatusClosed {
		return RunResponse{}, payrollerrors.ErrRunClosed
	}
	if run.Status != StatusApproved {
		return RunResponse{}, payrollerrors.ErrCloseOnlyApproved
	}
	if !run.AdvanceDeductionsProcessed {
		return RunResponse{}, payrollerrors.ErrDeductionsNotProcessed
	}

	actor, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActor
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).MarkClosed(ctx, run.ID, actor)
	if err != nil {
		return RunResponse{}, err
	}
	if !ok {
		return RunResponse{}, payrollerrors.ErrCloseOnlyApproved
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, run, events.PayrollRunClosed, actorID, nil); err != nil {
		return RunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	log.Info("payroll run closed",
		zap.String("run_id", run.ID.String()),
		zap.String("closed_by", actorID),
	)

	now := time.Now().UTC()
	run.Status = StatusClosed
	run.ClosedBy = &actor
	run.ClosedAt = &now
	return toRunResponse(*run, false), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return err
	}
	if run.Status != StatusPending {
		return payrollerrors.ErrDeleteOnlyPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeleteRun(ctx, run.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) GetDriverHistory(ctx context.Context, driverID string) ([]DriverHistoryResponse, error) {
	history, err := s.repo.HistoryByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	resp := make([]DriverHistoryResponse, len(history))
	for i, h := range history {
		resp[i] = DriverHistoryResponse{
			RunID:     h.RunID.String(),
			RunNumber: h.RunNumber,
			Month:     h.Month,
			Year:      h.Year,
			RunStatus: h.RunStatus,
			Line:      toLineResponse(h.Line),
		}
	}
	return resp, nil
}

func (s *service) findRun(ctx context.Context, id string) (*PayrollRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrRunNotFound
	}
	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *sql.Tx, run *PayrollRun, eventType, actorID string, totalDeducted *decimal.Decimal) error {
	payload := events.PayrollRunLifecycleEvent{
		EventType:  eventType,
		RunID:      run.ID.String(),
		RunNumber:  run.RunNumber,
		Month:      run.Month,
		Year:       run.Year,
		Status:     run.Status,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	if totalDeducted != nil {
		payload.TotalDeducted = totalDeducted.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     eventType,
		Topic:         events.PayrollRunLifecycleTopic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueAdvanceEvent(ctx context.Context, tx *sql.Tx, ev events.AdvanceSettledEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "advance",
		AggregateID:   ev.AdvanceID,
		EventType:     ev.EventType,
		Topic:         events.AdvanceLifecycleTopic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

package advance

import (
	"context"
	"errors"
	"time"

	advanceerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/advance/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"
	drivererrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=advance_service.go -destination=mock/advance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetAll(ctx context.Context) ([]AdvanceResponse, error)
	GetByID(ctx context.Context, id string) (AdvanceResponse, error)
	GetByDriver(ctx context.Context, driverID string) ([]AdvanceResponse, error)
	GetOutstandingSummary(ctx context.Context, driverID string) (OutstandingSummary, error)
	Update(ctx context.Context, id string, req UpdateAdvanceRequest) (AdvanceResponse, error)
	Cancel(ctx context.Context, id string) (AdvanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	driverRepo driver.Repository
	logger     *zap.Logger
}

func NewService(repo Repository, driverRepo driver.Repository, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		repo:       repo,
		driverRepo: driverRepo,
		logger:     l,
	}
}

func validateDeductionConfig(mode string, value decimal.Decimal) error {
	switch mode {
	case ModeFixedAmount:
		if !value.IsPositive() {
			return advanceerrors.ErrInvalidDeductionValue
		}
	case ModePercentage:
		if !value.IsPositive() || value.GreaterThan(decimal.NewFromInt(100)) {
			return advanceerrors.ErrInvalidDeductionValue
		}
	default:
		return advanceerrors.ErrInvalidDeductionMode
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if !req.Amount.IsPositive() {
		return AdvanceResponse{}, advanceerrors.ErrInvalidAmount
	}
	if err := validateDeductionConfig(req.DeductionMode, req.DeductionValue); err != nil {
		return AdvanceResponse{}, err
	}

	dateIssued, err := time.Parse("2006-01-02", req.DateIssued)
	if err != nil {
		return AdvanceResponse{}, advanceerrors.ErrInvalidDateIssued
	}

	d, err := s.driverRepo.FindByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdvanceResponse{}, drivererrors.ErrDriverNotFound
		}
		return AdvanceResponse{}, err
	}
	if !d.IsActive {
		return AdvanceResponse{}, drivererrors.ErrDriverInactive
	}

	// Batas kasbon dihitung dari saldo terhutang, bukan dari nominal historis.
	outstanding, err := s.repo.OutstandingForDriver(ctx, req.DriverID)
	if err != nil {
		return AdvanceResponse{}, err
	}
	if d.MaxAdvanceLimit.IsPositive() && outstanding.Add(req.Amount).GreaterThan(d.MaxAdvanceLimit) {
		return AdvanceResponse{}, advanceerrors.ErrAdvanceLimitExceeded
	}

	a := &Advance{
		DriverID:       d.ID,
		Amount:         req.Amount,
		PaidAmount:     decimal.Zero,
		Status:         StatusActive,
		DeductionMode:  req.DeductionMode,
		DeductionValue: req.DeductionValue,
		DateIssued:     dateIssued,
		Notes:          req.Notes,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return AdvanceResponse{}, err
	}

	log.Info("advance created",
		zap.String("advance_id", a.ID.String()),
		zap.String("driver_id", a.DriverID.String()),
		zap.String("amount", a.Amount.String()),
	)

	return toAdvanceResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context) ([]AdvanceResponse, error) {
	advances, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toAdvanceListResponse(advances), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AdvanceResponse, error) {
	a, err := s.findAdvance(ctx, id)
	if err != nil {
		return AdvanceResponse{}, err
	}
	return toAdvanceResponse(*a), nil
}

func (s *service) GetByDriver(ctx context.Context, driverID string) ([]AdvanceResponse, error) {
	advances, err := s.repo.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return toAdvanceListResponse(advances), nil
}

func (s *service) GetOutstandingSummary(ctx context.Context, driverID string) (OutstandingSummary, error) {
	d, err := s.driverRepo.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OutstandingSummary{}, drivererrors.ErrDriverNotFound
		}
		return OutstandingSummary{}, err
	}

	advances, err := s.repo.FindByDriver(ctx, driverID)
	if err != nil {
		return OutstandingSummary{}, err
	}

	summary := OutstandingSummary{
		DriverID:        driverID,
		MaxAdvanceLimit: d.MaxAdvanceLimit,
	}
	for _, a := range advances {
		if a.Repayable() {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(a.Outstanding())
			summary.OpenAdvances++
		}
	}
	summary.RemainingLimit = decimal.Max(d.MaxAdvanceLimit.Sub(summary.TotalOutstanding), decimal.Zero)

	return summary, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateAdvanceRequest) (AdvanceResponse, error) {
	if err := validateDeductionConfig(req.DeductionMode, req.DeductionValue); err != nil {
		return AdvanceResponse{}, err
	}

	a, err := s.findAdvance(ctx, id)
	if err != nil {
		return AdvanceResponse{}, err
	}
	if a.Status == StatusPaid || a.Status == StatusCancelled {
		return AdvanceResponse{}, advanceerrors.ErrAdvanceNotActive
	}

	a.DeductionMode = req.DeductionMode
	a.DeductionValue = req.DeductionValue
	a.Notes = req.Notes

	if err := s.repo.Update(ctx, a); err != nil {
		return AdvanceResponse{}, err
	}
	return toAdvanceResponse(*a), nil
}

func (s *service) Cancel(ctx context.Context, id string) (AdvanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	a, err := s.findAdvance(ctx, id)
	if err != nil {
		return AdvanceResponse{}, err
	}
	if a.Status == StatusPaid || a.Status == StatusCancelled {
		return AdvanceResponse{}, advanceerrors.ErrAdvanceNotActive
	}

	a.Status = StatusCancelled
	if err := s.repo.Update(ctx, a); err != nil {
		return AdvanceResponse{}, err
	}

	log.Info("advance cancelled",
		zap.String("advance_id", a.ID.String()),
		zap.String("outstanding", a.Outstanding().String()),
	)

	return toAdvanceResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	a, err := s.findAdvance(ctx, id)
	if err != nil {
		return err
	}
	if a.PaidAmount.IsPositive() {
		return advanceerrors.ErrAdvanceHasPayments
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) findAdvance(ctx context.Context, id string) (*Advance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, advanceerrors.ErrAdvanceNotFound
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, advanceerrors.ErrAdvanceNotFound
		}
		return nil, err
	}
	return a, nil
}

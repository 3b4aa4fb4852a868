package commission

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/client"
	commissionerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/commission/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"
	drivererrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/contextutil"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minYear = 2020

//go:generate mockgen -source=commission_service.go -destination=mock/commission_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req SaveMonthlyOrderRequest) (MonthlyOrderResponse, error)
	Update(ctx context.Context, id string, req SaveMonthlyOrderRequest) (MonthlyOrderResponse, error)
	GetByID(ctx context.Context, id string) (MonthlyOrderResponse, error)
	GetByDriverAndMonth(ctx context.Context, driverID string, month, year int) (MonthlyOrderResponse, error)
	GetMatrix(ctx context.Context, month, year int) (Matrix, error)
	ValidateEntries(ctx context.Context, entries []EntryRequest) (ValidationResult, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	driverRepo driver.Repository
	clientRepo client.Repository
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, driverRepo driver.Repository, clientRepo client.Repository, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:         db,
		repo:       repo,
		driverRepo: driverRepo,
		clientRepo: clientRepo,
		logger:     l,
	}
}

func validateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return commissionerrors.ErrInvalidMonth
	}
	if year < minYear {
		return commissionerrors.ErrInvalidYear
	}
	return nil
}

// prepareEntries normalizes the request entries, checks that every referenced
// client exists, and runs the overlap validator. Any conflict or fault rejects
// the whole request with the full list attached, nothing is saved partially.
func (s *service) prepareEntries(ctx context.Context, reqs []EntryRequest) ([]ClientEntry, error) {
	if len(reqs) == 0 {
		return nil, commissionerrors.ErrNoEntries
	}

	entries := make([]ClientEntry, 0, len(reqs))
	for _, req := range reqs {
		entry, err := req.normalize()
		if err != nil {
			return nil, err
		}

		if _, err := s.clientRepo.FindByID(ctx, entry.ClientID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, commissionerrors.ErrClientNotFound
			}
			return nil, err
		}

		entries = append(entries, entry)
	}

	result := ValidateEntries(entries)
	if !result.Valid {
		if len(result.Conflicts) > 0 {
			return nil, commissionerrors.ErrPeriodOverlap.WithDetails(result)
		}
		for _, fault := range result.Faults {
			switch fault.Reason {
			case FaultInvertedRange:
				return nil, commissionerrors.ErrInvalidPeriodRange.WithDetails(result)
			case FaultNegativeValue:
				return nil, commissionerrors.ErrNegativeValues.WithDetails(result)
			}
		}
		return nil, commissionerrors.ErrNoPeriods.WithDetails(result)
	}

	// Agregat per entry dihitung ulang di sini, bukan dipercaya dari klien.
	for i := range entries {
		entries[i].TotalOrders = entries[i].OrderTotal()
		entries[i].TotalAmount = entries[i].CommissionPerOrder.Mul(decimal.NewFromInt(entries[i].TotalOrders))
	}

	return entries, nil
}

func sumEntries(entries []ClientEntry) (int64, decimal.Decimal) {
	var orders int64
	amount := decimal.Zero
	for _, e := range entries {
		orders += e.TotalOrders
		amount = amount.Add(e.TotalAmount)
	}
	return orders, amount
}

func (s *service) Create(ctx context.Context, req SaveMonthlyOrderRequest) (MonthlyOrderResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if err := validateMonthYear(req.Month, req.Year); err != nil {
		return MonthlyOrderResponse{}, err
	}

	d, err := s.driverRepo.FindByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MonthlyOrderResponse{}, drivererrors.ErrDriverNotFound
		}
		return MonthlyOrderResponse{}, err
	}
	if !d.CommissionEligible() {
		return MonthlyOrderResponse{}, drivererrors.ErrNotCommissionEligible
	}

	entries, err := s.prepareEntries(ctx, req.Entries)
	if err != nil {
		return MonthlyOrderResponse{}, err
	}

	totalOrders, totalAmount := sumEntries(entries)
	order := &MonthlyOrder{
		DriverID:    d.ID,
		Month:       req.Month,
		Year:        req.Year,
		TotalOrders: totalOrders,
		TotalAmount: totalAmount,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MonthlyOrderResponse{}, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)
	if err := txRepo.CreateOrder(ctx, order); err != nil {
		return MonthlyOrderResponse{}, mapRepoError(err)
	}
	if err := txRepo.ReplaceEntries(ctx, order.ID, entries); err != nil {
		return MonthlyOrderResponse{}, mapRepoError(err)
	}

	if err := tx.Commit(); err != nil {
		return MonthlyOrderResponse{}, err
	}

	log.Info("monthly order created",
		zap.String("driver_id", order.DriverID.String()),
		zap.Int("month", order.Month),
		zap.Int("year", order.Year),
		zap.Int64("total_orders", order.TotalOrders),
	)

	order.Entries = entries
	return toMonthlyOrderResponse(*order), nil
}

func (s *service) Update(ctx context.Context, id string, req SaveMonthlyOrderRequest) (MonthlyOrderResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return MonthlyOrderResponse{}, mapRepoError(err)
	}

	entries, err := s.prepareEntries(ctx, req.Entries)
	if err != nil {
		return MonthlyOrderResponse{}, err
	}

	totalOrders, totalAmount := sumEntries(entries)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MonthlyOrderResponse{}, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)
	if err := txRepo.ReplaceEntries(ctx, existing.ID, entries); err != nil {
		return MonthlyOrderResponse{}, mapRepoError(err)
	}
	if err := txRepo.UpdateAggregates(ctx, existing.ID, totalOrders, totalAmount); err != nil {
		return MonthlyOrderResponse{}, mapRepoError(err)
	}

	if err := tx.Commit(); err != nil {
		return MonthlyOrderResponse{}, err
	}

	log.Info("monthly order updated",
		zap.String("monthly_order_id", existing.ID.String()),
		zap.Int64("total_orders", totalOrders),
	)

	existing.Entries = entries
	existing.TotalOrders = totalOrders
	existing.TotalAmount = totalAmount
	return toMonthlyOrderResponse(*existing), nil
}

func (s *service) GetByID(ctx context.Context, id string) (MonthlyOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return MonthlyOrderResponse{}, mapRepoError(err)
	}
	return toMonthlyOrderResponse(*order), nil
}

func (s *service) GetByDriverAndMonth(ctx context.Context, driverID string, month, year int) (MonthlyOrderResponse, error) {
	if err := validateMonthYear(month, year); err != nil {
		return MonthlyOrderResponse{}, err
	}

	order, err := s.repo.FindByDriverAndMonth(ctx, driverID, month, year)
	if err != nil {
		return MonthlyOrderResponse{}, mapRepoError(err)
	}
	return toMonthlyOrderResponse(*order), nil
}

func (s *service) GetMatrix(ctx context.Context, month, year int) (Matrix, error) {
	if err := validateMonthYear(month, year); err != nil {
		return Matrix{}, err
	}

	orders, err := s.repo.FindByMonth(ctx, month, year)
	if err != nil {
		return Matrix{}, err
	}

	drivers, err := s.driverRepo.FindActive(ctx)
	if err != nil {
		return Matrix{}, err
	}
	eligible := make([]driver.Driver, 0, len(drivers))
	for _, d := range drivers {
		if d.CommissionEligible() {
			eligible = append(eligible, d)
		}
	}

	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return Matrix{}, err
	}

	return BuildMatrix(month, year, orders, eligible, clients), nil
}

// ValidateEntries runs the overlap validator without saving anything. The
// entry form calls it on every change to surface conflicts before submit.
func (s *service) ValidateEntries(ctx context.Context, reqs []EntryRequest) (ValidationResult, error) {
	entries := make([]ClientEntry, 0, len(reqs))
	for _, req := range reqs {
		entry, err := req.normalize()
		if err != nil {
			return ValidationResult{}, err
		}
		entries = append(entries, entry)
	}
	return ValidateEntries(entries), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeleteOrder(ctx, order.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("monthly order deleted", zap.String("monthly_order_id", order.ID.String()))
	return nil
}

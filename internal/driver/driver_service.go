package driver

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	drivererrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	driverOptionsKey = "drivers:options"
	driverOptionsTTL = 5 * time.Minute
)

//go:generate mockgen -source=driver_service.go -destination=mock/driver_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDriverRequest) (DriverResponse, error)
	GetAll(ctx context.Context) ([]DriverResponse, error)
	GetActive(ctx context.Context) ([]DriverResponse, error)
	GetEligible(ctx context.Context) ([]DriverResponse, error)
	GetOptions(ctx context.Context) ([]DriverOption, error)
	GetByID(ctx context.Context, id string) (DriverResponse, error)
	Update(ctx context.Context, id string, req UpdateDriverRequest) (DriverResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateDriverRequest) (DriverResponse, error) {
	if req.BaseSalary.IsNegative() || req.DefaultCommissionPerOrder.IsNegative() || req.MaxAdvanceLimit.IsNegative() {
		return DriverResponse{}, drivererrors.ErrNegativeMoneyValue
	}

	d := &Driver{
		FullName:                  req.FullName,
		Phone:                     req.Phone,
		EmploymentType:            req.EmploymentType,
		BaseSalary:                req.BaseSalary,
		DefaultCommissionPerOrder: req.DefaultCommissionPerOrder,
		MaxAdvanceLimit:           req.MaxAdvanceLimit,
		IsActive:                  true,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return DriverResponse{}, err
	}

	s.invalidateOptions(ctx)

	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context) ([]DriverResponse, error) {
	drivers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(drivers), nil
}

func (s *service) GetActive(ctx context.Context) ([]DriverResponse, error) {
	drivers, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(drivers), nil
}

// GetEligible returns active drivers that participate in commission tracking.
// This is the row set of the monthly commission matrix.
func (s *service) GetEligible(ctx context.Context) ([]DriverResponse, error) {
	drivers, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		if d.CommissionEligible() {
			eligible = append(eligible, mapToResponse(d))
		}
	}
	return eligible, nil
}

// GetOptions melayani dropdown UI. Hasil dicache di Redis; singleflight menahan
// stampede saat cache kosong dan banyak request datang bersamaan.
func (s *service) GetOptions(ctx context.Context) ([]DriverOption, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, driverOptionsKey).Result(); err == nil {
			var options []DriverOption
			if err := json.Unmarshal([]byte(cached), &options); err == nil {
				return options, nil
			}
		}
	}

	result, err, _ := s.sf.Do(driverOptionsKey, func() (any, error) {
		drivers, err := s.repo.FindActive(ctx)
		if err != nil {
			return nil, err
		}

		options := make([]DriverOption, len(drivers))
		for i, d := range drivers {
			options[i] = DriverOption{ID: d.ID.String(), FullName: d.FullName}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(options); err == nil {
				if err := s.rdb.Set(ctx, driverOptionsKey, payload, driverOptionsTTL).Err(); err != nil {
					log.Warn("driver options cache set failed", zap.Error(err))
				}
			}
		}

		return options, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]DriverOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DriverResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DriverResponse{}, err
	}
	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDriverRequest) (DriverResponse, error) {
	if req.BaseSalary.IsNegative() || req.DefaultCommissionPerOrder.IsNegative() || req.MaxAdvanceLimit.IsNegative() {
		return DriverResponse{}, drivererrors.ErrNegativeMoneyValue
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DriverResponse{}, err
	}

	d.FullName = req.FullName
	d.Phone = req.Phone
	d.EmploymentType = req.EmploymentType
	d.BaseSalary = req.BaseSalary
	d.DefaultCommissionPerOrder = req.DefaultCommissionPerOrder
	d.MaxAdvanceLimit = req.MaxAdvanceLimit
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return DriverResponse{}, err
	}

	s.invalidateOptions(ctx)

	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateOptions(ctx)
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, driverOptionsKey).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("driver options cache invalidation failed", zap.Error(err))
	}
}

func mapToResponse(d Driver) DriverResponse {
	return DriverResponse{
		ID:                        d.ID.String(),
		FullName:                  d.FullName,
		Phone:                     d.Phone,
		EmploymentType:            d.EmploymentType,
		BaseSalary:                d.BaseSalary,
		DefaultCommissionPerOrder: d.DefaultCommissionPerOrder,
		MaxAdvanceLimit:           d.MaxAdvanceLimit,
		IsActive:                  d.IsActive,
		CommissionEligible:        d.CommissionEligible(),
	}
}

func mapToListResponse(drivers []Driver) []DriverResponse {
	resp := make([]DriverResponse, len(drivers))
	for i, d := range drivers {
		resp[i] = mapToResponse(d)
	}
	return resp
}

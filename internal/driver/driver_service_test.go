package driver_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"
	drivererrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDriverRepository struct {
	createFn     func(ctx context.Context, d *driver.Driver) error
	findAllFn    func(ctx context.Context) ([]driver.Driver, error)
	findActiveFn func(ctx context.Context) ([]driver.Driver, error)
	findByIDFn   func(ctx context.Context, id string) (*driver.Driver, error)
	updateFn     func(ctx context.Context, d *driver.Driver) error
	deleteFn     func(ctx context.Context, id string) error
}

func (f *fakeDriverRepository) WithTx(tx *sql.Tx) driver.Repository { return f }

func (f *fakeDriverRepository) Create(ctx context.Context, d *driver.Driver) error {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	d.ID = uuid.New()
	return nil
}

func (f *fakeDriverRepository) FindAll(ctx context.Context) ([]driver.Driver, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeDriverRepository) FindActive(ctx context.Context) ([]driver.Driver, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeDriverRepository) FindByID(ctx context.Context, id string) (*driver.Driver, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, d)
	}
	return nil
}

func (f *fakeDriverRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func activeDriver(name string) driver.Driver {
	return driver.Driver{
		ID:                        uuid.New(),
		FullName:                  name,
		EmploymentType:            driver.EmploymentCommission,
		DefaultCommissionPerOrder: dec("0.300"),
		MaxAdvanceLimit:           dec("500"),
		IsActive:                  true,
	}
}

func TestDriverService_Create_RejectsNegativeMoney(t *testing.T) {
	svc := driver.NewService(nil, &fakeDriverRepository{}, nil)

	_, err := svc.Create(context.Background(), driver.CreateDriverRequest{
		FullName:       "Ahmad",
		EmploymentType: driver.EmploymentCommission,
		BaseSalary:     dec("-1"),
	})

	assert.ErrorIs(t, err, drivererrors.ErrNegativeMoneyValue)
}

func TestDriverService_GetEligible(t *testing.T) {
	repo := &fakeDriverRepository{
		findActiveFn: func(ctx context.Context) ([]driver.Driver, error) {
			salaried := driver.Driver{
				ID:             uuid.New(),
				FullName:       "Gaji Saja",
				EmploymentType: driver.EmploymentSalary,
				BaseSalary:     dec("350.000"),
				IsActive:       true,
			}
			return []driver.Driver{activeDriver("Ahmad"), salaried}, nil
		},
	}
	svc := driver.NewService(nil, repo, nil)

	eligible, err := svc.GetEligible(context.Background())

	assert.NoError(t, err)
	assert.Len(t, eligible, 1)
	assert.Equal(t, "Ahmad", eligible[0].FullName)
}

func TestDriverService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss populates redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		d := activeDriver("Ahmad")
		repo := &fakeDriverRepository{
			findActiveFn: func(ctx context.Context) ([]driver.Driver, error) {
				return []driver.Driver{d}, nil
			},
		}

		expected, err := json.Marshal([]driver.DriverOption{{ID: d.ID.String(), FullName: d.FullName}})
		assert.NoError(t, err)

		mock.ExpectGet("drivers:options").RedisNil()
		mock.ExpectSet("drivers:options", expected, 5*time.Minute).SetVal("OK")

		svc := driver.NewService(nil, repo, rdb)
		options, err := svc.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, options, 1)
		assert.Equal(t, d.FullName, options[0].FullName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cached, err := json.Marshal([]driver.DriverOption{{ID: uuid.NewString(), FullName: "Dari Cache"}})
		assert.NoError(t, err)

		mock.ExpectGet("drivers:options").SetVal(string(cached))

		called := false
		repo := &fakeDriverRepository{
			findActiveFn: func(ctx context.Context) ([]driver.Driver, error) {
				called = true
				return nil, nil
			},
		}

		svc := driver.NewService(nil, repo, rdb)
		options, err := svc.GetOptions(ctx)

		assert.NoError(t, err)
		assert.False(t, called)
		assert.Equal(t, "Dari Cache", options[0].FullName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDriverService_Update_InvalidatesOptionsCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := activeDriver("Ahmad")

	repo := &fakeDriverRepository{
		findByIDFn: func(ctx context.Context, id string) (*driver.Driver, error) {
			copied := d
			return &copied, nil
		},
	}

	mock.ExpectDel("drivers:options").SetVal(1)

	svc := driver.NewService(nil, repo, rdb)
	resp, err := svc.Update(context.Background(), d.ID.String(), driver.UpdateDriverRequest{
		FullName:                  "Ahmad K",
		EmploymentType:            driver.EmploymentCommission,
		DefaultCommissionPerOrder: dec("0.350"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Ahmad K", resp.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package payroll_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/payroll"
	payrollerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	previewFn func(ctx context.Context, month, year int) (payroll.PreviewResponse, error)
	createFn  func(ctx context.Context, actorID string, req payroll.CreateRunRequest) (payroll.RunResponse, error)
	getAllFn  func(ctx context.Context, year int) ([]payroll.RunResponse, error)
	getByIDFn func(ctx context.Context, id string) (payroll.RunResponse, error)
	approveFn func(ctx context.Context, actorID, id string) (payroll.RunResponse, error)
	processFn func(ctx context.Context, actorID, id string) (payroll.RunResponse, error)
	closeFn   func(ctx context.Context, actorID, id string) (payroll.RunResponse, error)
	deleteFn  func(ctx context.Context, id string) error
	historyFn func(ctx context.Context, driverID string) ([]payroll.DriverHistoryResponse, error)
}

func (f *fakePayrollService) Preview(ctx context.Context, month, year int) (payroll.PreviewResponse, error) {
	return f.previewFn(ctx, month, year)
}

func (f *fakePayrollService) Create(ctx context.Context, actorID string, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	return f.createFn(ctx, actorID, req)
}

func (f *fakePayrollService) GetAll(ctx context.Context, year int) ([]payroll.RunResponse, error) {
	return f.getAllFn(ctx, year)
}

func (f *fakePayrollService) GetByID(ctx context.Context, id string) (payroll.RunResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakePayrollService) Approve(ctx context.Context, actorID, id string) (payroll.RunResponse, error) {
	return f.approveFn(ctx, actorID, id)
}

func (f *fakePayrollService) ProcessDeductions(ctx context.Context, actorID, id string) (payroll.RunResponse, error) {
	return f.processFn(ctx, actorID, id)
}

func (f *fakePayrollService) Close(ctx context.Context, actorID, id string) (payroll.RunResponse, error) {
	return f.closeFn(ctx, actorID, id)
}

func (f *fakePayrollService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakePayrollService) GetDriverHistory(ctx context.Context, driverID string) ([]payroll.DriverHistoryResponse, error) {
	return f.historyFn(ctx, driverID)
}

func TestPayrollHandler_Create(t *testing.T) {
	actorID := uuid.New().String()
	created := payroll.RunResponse{
		ID:        uuid.New().String(),
		RunNumber: "PR-202508-0001",
		Month:     8,
		Year:      2025,
		Status:    payroll.StatusPending,
	}

	svc := &fakePayrollService{
		createFn: func(ctx context.Context, aid string, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
			assert.Equal(t, actorID, aid)
			assert.Equal(t, 8, req.Month)
			assert.Equal(t, 2025, req.Year)
			return created, nil
		},
	}

	cacheKey := "idemp:/api/v1/payroll-runs:" + actorID + ":req-1"
	lockKey := cacheKey + ":lock"

	rdb, redisMock := redismock.NewClientMock()
	payload, err := json.Marshal(created)
	assert.NoError(t, err)
	// Hasil sukses masuk cache idempotency, lalu lock dilepas.
	redisMock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
	redisMock.ExpectDel(lockKey).SetVal(1)

	h := payroll.NewHandlerWithRedis(svc, rdb)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll-runs", strings.NewReader(`{"month":8,"year":2025}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", actorID)
	c.Set("idempotency_cache_key", cacheKey)
	c.Set("idempotency_lock_key", lockKey)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestPayrollHandler_Create_BindError(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll-runs", strings.NewReader(`{"month":8}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	assert.Equal(t, "Year is required", env.Error.Message)
}

func TestPayrollHandler_Create_Conflict(t *testing.T) {
	svc := &fakePayrollService{
		createFn: func(ctx context.Context, actorID string, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
			return payroll.RunResponse{}, payrollerrors.ErrOpenRunExists
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll-runs", strings.NewReader(`{"month":8,"year":2025}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uuid.New().String())

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestPayrollHandler_GetPreview(t *testing.T) {
	svc := &fakePayrollService{
		previewFn: func(ctx context.Context, month, year int) (payroll.PreviewResponse, error) {
			assert.Equal(t, 8, month)
			assert.Equal(t, 2025, year)
			return payroll.PreviewResponse{Month: month, Year: year, DriverCount: 3}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll-runs/preview?month=8&year=2025", nil)

	h.GetPreview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var preview payroll.PreviewResponse
	assert.NoError(t, json.Unmarshal(env.Data, &preview))
	assert.Equal(t, 3, preview.DriverCount)
}

func TestPayrollHandler_GetPreview_InvalidMonth(t *testing.T) {
	svc := &fakePayrollService{
		previewFn: func(ctx context.Context, month, year int) (payroll.PreviewResponse, error) {
			return payroll.PreviewResponse{}, payrollerrors.ErrInvalidPeriod
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll-runs/preview?month=abc&year=2025", nil)

	h.GetPreview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestPayrollHandler_GetByID_NotFound(t *testing.T) {
	svc := &fakePayrollService{
		getByIDFn: func(ctx context.Context, id string) (payroll.RunResponse, error) {
			return payroll.RunResponse{}, payrollerrors.ErrRunNotFound
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll-runs/"+uuid.New().String(), nil)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestPayrollHandler_Approve_InvalidTransition(t *testing.T) {
	svc := &fakePayrollService{
		approveFn: func(ctx context.Context, actorID, id string) (payroll.RunResponse, error) {
			return payroll.RunResponse{}, payrollerrors.ErrApproveOnlyPending
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id := uuid.New().String()
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll-runs/"+id+"/approve", nil)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	c.Set("user_id", uuid.New().String())

	h.Approve(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)
}

func TestPayrollHandler_ProcessDeductions_AlreadyProcessed(t *testing.T) {
	svc := &fakePayrollService{
		processFn: func(ctx context.Context, actorID, id string) (payroll.RunResponse, error) {
			return payroll.RunResponse{}, payrollerrors.ErrAlreadyProcessed
		},
	}

	lockKey := "idemp:/api/v1/payroll-runs/:id/process-deductions:admin:req-2:lock"
	rdb, redisMock := redismock.NewClientMock()
	// Lock tetap dilepas saat service menolak; cache tidak diisi.
	redisMock.ExpectDel(lockKey).SetVal(1)

	h := payroll.NewHandlerWithRedis(svc, rdb)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id := uuid.New().String()
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll-runs/"+id+"/process-deductions", nil)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	c.Set("user_id", uuid.New().String())
	c.Set("idempotency_lock_key", lockKey)

	h.ProcessDeductions(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "ALREADY_PROCESSED", env.Error.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestPayrollHandler_GetAll_InternalError(t *testing.T) {
	svc := &fakePayrollService{
		getAllFn: func(ctx context.Context, year int) ([]payroll.RunResponse, error) {
			assert.Equal(t, 2025, year)
			return nil, errors.New("boom")
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll-runs?year=2025", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}

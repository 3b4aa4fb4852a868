package commission

import (
	"net/http"
	"strconv"

	commissionerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/commission/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/apperror"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func monthYearQuery(c *gin.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, commissionerrors.ErrInvalidMonth
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, commissionerrors.ErrInvalidYear
	}
	return month, year, nil
}

func (h *Handler) Create(c *gin.Context) {
	var req SaveMonthlyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req SaveMonthlyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByDriver(c *gin.Context) {
	month, year, err := monthYearQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetByDriverAndMonth(c.Request.Context(), c.Param("driverId"), month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMatrix(c *gin.Context) {
	month, year, err := monthYearQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetMatrix(c.Request.Context(), month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// ValidateEntries is the dry-run endpoint behind the entry form. It never
// writes; a 200 with valid=false is the expected answer for conflicting input.
func (h *Handler) ValidateEntries(c *gin.Context) {
	var req struct {
		Entries []EntryRequest `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.ValidateEntries(c.Request.Context(), req.Entries)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

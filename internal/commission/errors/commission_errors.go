package commissionerrors

import (
	"net/http"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/apperror"
)

var (
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be 2020 or later",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNoEntries = apperror.New(
		apperror.CodeInvalidInput,
		"at least one client entry is required",
		http.StatusBadRequest,
	)
	ErrNoPeriods = apperror.New(
		apperror.CodeInvalidInput,
		"each client entry needs at least one period",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodRange = apperror.New(
		apperror.CodeInvalidInput,
		"period date_from must be before or equal date_to",
		http.StatusBadRequest,
	)
	ErrNegativeValues = apperror.New(
		apperror.CodeInvalidInput,
		"commission rate and order counts cannot be negative",
		http.StatusBadRequest,
	)
	ErrPeriodOverlap = apperror.New(
		apperror.CodeValidationFailed,
		"overlapping periods for the same client",
		http.StatusBadRequest,
	)
	ErrMonthlyOrderExists = apperror.New(
		apperror.CodeConflict,
		"a monthly order record already exists for this driver and month",
		http.StatusConflict,
	)
	ErrMonthlyOrderNotFound = apperror.New(
		apperror.CodeNotFound,
		"monthly order record not found",
		http.StatusNotFound,
	)
	ErrClientNotFound = apperror.New(
		apperror.CodeNotFound,
		"client referenced by entry not found",
		http.StatusNotFound,
	)
)

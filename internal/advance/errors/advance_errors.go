package advanceerrors

import (
	"net/http"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/apperror"
)

var (
	ErrAdvanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"advance not found",
		http.StatusNotFound,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"advance amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidDateIssued = apperror.New(
		apperror.CodeInvalidInput,
		"date_issued must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDeductionMode = apperror.New(
		apperror.CodeInvalidInput,
		"deduction_mode must be fixed_amount or percentage",
		http.StatusBadRequest,
	)
	ErrInvalidDeductionValue = apperror.New(
		apperror.CodeInvalidInput,
		"deduction_value must be positive, and at most 100 for percentage mode",
		http.StatusBadRequest,
	)
	ErrAdvanceLimitExceeded = apperror.New(
		apperror.CodeInvalidState,
		"driver would exceed the maximum advance limit",
		http.StatusUnprocessableEntity,
	)
	ErrAdvanceNotActive = apperror.New(
		apperror.CodeInvalidState,
		"advance is not active",
		http.StatusConflict,
	)
	ErrAdvanceHasPayments = apperror.New(
		apperror.CodeInvalidState,
		"advance with recorded payments cannot be deleted, cancel it instead",
		http.StatusConflict,
	)
)

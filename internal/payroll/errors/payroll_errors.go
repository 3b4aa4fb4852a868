package payrollerrors

import (
	"net/http"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/apperror"
)

var (
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12 and year 2020 or later",
		http.StatusBadRequest,
	)
	ErrInvalidActor = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrOpenRunExists = apperror.New(
		apperror.CodeConflict,
		"an open payroll run already exists for this month",
		http.StatusConflict,
	)
	ErrApproveOnlyPending = apperror.New(
		apperror.CodeInvalidTransition,
		"only a pending run can be approved",
		http.StatusConflict,
	)
	ErrProcessOnlyApproved = apperror.New(
		apperror.CodeInvalidTransition,
		"advance deductions can only be processed on an approved run",
		http.StatusConflict,
	)
	ErrCloseOnlyApproved = apperror.New(
		apperror.CodeInvalidTransition,
		"only an approved run can be closed",
		http.StatusConflict,
	)
	ErrDeleteOnlyPending = apperror.New(
		apperror.CodeInvalidTransition,
		"only a pending run can be deleted",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeAlreadyProcessed,
		"advance deductions were already processed for this run",
		http.StatusConflict,
	)
	ErrDeductionsNotProcessed = apperror.New(
		apperror.CodeInvalidState,
		"advance deductions must be processed before closing the run",
		http.StatusConflict,
	)
	ErrRunClosed = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is closed",
		http.StatusConflict,
	)
	ErrNoEligibleDrivers = apperror.New(
		apperror.CodeInvalidState,
		"no active drivers to include in the payroll run",
		http.StatusUnprocessableEntity,
	)
)

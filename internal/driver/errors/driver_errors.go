package drivererrors

import (
	"net/http"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/apperror"
)

var (
	ErrDriverNotFound = apperror.New(
		apperror.CodeNotFound,
		"driver not found",
		http.StatusNotFound,
	)
	ErrInvalidDriverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid driver id",
		http.StatusBadRequest,
	)
	ErrNegativeMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"salary and commission values cannot be negative",
		http.StatusBadRequest,
	)
	ErrDriverInactive = apperror.New(
		apperror.CodeInvalidState,
		"driver is inactive",
		http.StatusBadRequest,
	)
	ErrNotCommissionEligible = apperror.New(
		apperror.CodeInvalidState,
		"driver is not eligible for commission tracking",
		http.StatusBadRequest,
	)
)

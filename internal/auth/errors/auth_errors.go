package autherrors

import (
	"net/http"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"invalid username or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token expired",
		http.StatusUnauthorized,
	)
	ErrUserInactive = apperror.New(
		apperror.CodeForbidden,
		"user account is inactive",
		http.StatusForbidden,
	)
	ErrWrongCurrentPassword = apperror.New(
		apperror.CodeInvalidInput,
		"current password is incorrect",
		http.StatusBadRequest,
	)
	ErrWeakPassword = apperror.New(
		apperror.CodeInvalidInput,
		"password must be at least 8 characters and contain upper case, lower case and a digit",
		http.StatusBadRequest,
	)
)

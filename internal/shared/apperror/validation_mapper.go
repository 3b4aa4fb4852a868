package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// commission_per_order -> Commission Per Order
func formatFieldName(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// MapValidationError mengubah error binding Gin menjadi AppError. Message
// diambil dari pelanggaran pertama; sisanya ikut di details supaya form bisa
// menandai semua field sekaligus.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	violations := make([]string, len(errs))
	for i, e := range errs {
		field := formatFieldName(e.Field())
		if e.Tag() == "required" {
			violations[i] = field + " is required"
		} else {
			violations[i] = field + " is invalid"
		}
	}

	first := errs[0]
	base := InvalidField(formatFieldName(first.Field()))
	if first.Tag() == "required" {
		base = RequiredField(formatFieldName(first.Field()))
	}
	if len(violations) > 1 {
		return base.WithDetails(violations)
	}
	return base
}

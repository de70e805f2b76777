// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/wizard"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("asin", validateASIN)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value against a tag expression, for inputs
// that arrive outside a request body (path and query parameters).
func ValidateVar(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// validateASIN accepts a 10-character alphanumeric Amazon identifier,
// case-insensitively; the shape rule itself lives with the wizard core.
func validateASIN(fl validator.FieldLevel) bool {
	return wizard.ValidASIN(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "asin":
		return "ASIN must be exactly 10 letters or digits"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " is invalid"
	}
}

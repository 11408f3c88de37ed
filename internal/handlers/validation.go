package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct using go-playground/validator.
// Returns a field -> message map when validation fails, nil otherwise.
func ValidateRequest(req interface{}) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	fieldErrors := map[string]string{}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range ve {
			fieldErrors[fieldError.Field()] = formatValidationError(fieldError)
		}
	}
	if len(fieldErrors) == 0 {
		fieldErrors["request"] = "invalid request"
	}
	return fieldErrors
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hexcolor":
		return "must be a valid hex color code (e.g., #FF5733)"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

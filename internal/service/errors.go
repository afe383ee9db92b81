package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrAuthorNotFound is returned by post creation when the author account
// does not exist. Kept distinct from post not-found so the API layer can
// report it as a client error.
var ErrAuthorNotFound = errors.New("post author does not exist")

// FieldViolation describes a single violated validation rule on one field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError reports every violated field/rule of an input, never
// just the first.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("%s %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidationError checks whether err is (or wraps) a ValidationError,
// returning it if so.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// checkStruct runs the validator over the input struct and converts the
// result into a ValidationError carrying the complete violation list.
func checkStruct(validate *validator.Validate, input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Violations = append(ve.Violations, FieldViolation{
			Field:   strings.ToLower(fe.Field()),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return ve
}

// violationMessage renders a human-readable message for a field error.
func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a well-formed email address"
	case "url":
		return "must be a well-formed URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

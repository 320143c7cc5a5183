package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserDisabled       = errors.New("user disabled")
)

// Reasons carried by ValidationError.
const (
	ReasonRequired         = "field required"
	ReasonTypeMismatch     = "type mismatch"
	ReasonMalformed        = "malformed json"
	ReasonFieldNameCase    = "field name must be lowercase"
	ReasonInvalidDatetime  = "invalid datetime format"
	ReasonNameInvalid      = "product name invalid"
	ReasonUnknownProduct   = "unknown product"
	ReasonNegativeQuantity = "product quantity cannot be negative"
	ReasonNegativeValue    = "product value cannot be negative"
	ReasonQuantityMissing  = "product without the quantity"
)

// ValidationError is returned when a value cannot be constructed. Field is
// the wire name of the offending field, dotted for nested values
// (e.g. "products[1].value").
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Is lets callers match any validation failure with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// nested prefixes the field path of a validation error raised by a child value.
// Errors of any other kind are returned unchanged.
func nested(prefix string, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return &ValidationError{Field: prefix + "." + ve.Field, Reason: ve.Reason}
}

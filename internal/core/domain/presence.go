package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// presence checks `validate` struct tags. A *validator.Validate caches struct
// metadata and is safe for concurrent use.
var presence = newPresenceValidator()

func newPresenceValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckPresence validates the struct tags of v and reports the first failing
// field as a *ValidationError named by its JSON path.
func CheckPresence(v any) error {
	err := presence.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	return newValidationError(fieldPath(fe), presenceReason(fe))
}

// fieldPath drops the root type name from the validator namespace:
// "TransactionInput.products[1].value" becomes "products[1].value".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func presenceReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return ReasonRequired
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}

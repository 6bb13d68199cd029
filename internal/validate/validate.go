// Package validate wraps a shared go-playground validator whose field names
// follow the json tags of the validated structs.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/wishsync/internal/common"
)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Struct validates s. Failures wrap common.ErrorValidation.
func Struct(s any) error {
	if err := v.Struct(s); err != nil {
		return wrap(err)
	}
	return nil
}

// Var validates a single value against tag. Failures wrap
// common.ErrorValidation.
func Var(field any, tag string) error {
	if err := v.Var(field, tag); err != nil {
		return wrap(err)
	}
	return nil
}

// Details maps each failing field to a short message. It returns nil when err
// carries no field errors.
func Details(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		name := fe.Field()
		if name == "" {
			name = "value"
		}
		details[name] = message(fe)
	}
	return details
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s long", fe.Param())
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "bcp47_language_tag":
		return "must be a BCP 47 language tag"
	}
	return "is invalid"
}

type validationError struct {
	err error
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%s: %s", common.ErrorValidation, e.err)
}

func (e *validationError) Unwrap() []error {
	return []error{common.ErrorValidation, e.err}
}

func wrap(err error) error {
	return &validationError{err: err}
}

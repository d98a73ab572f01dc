// Package validate wraps go-playground/validator with readable messages for
// the few invariants this tool enforces (credential presence, destination
// shape).
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"riskblock/pkg/serrors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator() //nolint: gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("name"); name != "" {
			return name
		}

		return f.Name
	})

	return v
}

// Struct validates s against its `validate` tags. Field errors are joined
// into a single BAD_REQUEST error; the field name is taken from the `name` tag when
// present so messages can point at environment variables instead of Go fields.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("could not validate: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}

	return serrors.With(serrors.ErrBadRequest, "%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs struct tag validation and reports the first failing
// field as a ValidationError.
func Validate(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return NewValidationError(field, "%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return NewValidationError(field, "%s must be at least %s characters long", field, fe.Param())
		}
		return NewValidationError(field, "%s must contain at least %s item(s)", field, fe.Param())
	case "max":
		return NewValidationError(field, "%s must be at most %s characters long", field, fe.Param())
	case "gt":
		return NewValidationError(field, "%s must be greater than %s", field, fe.Param())
	case "gte":
		return NewValidationError(field, "%s must be at least %s", field, fe.Param())
	case "oneof":
		return NewValidationError(field, "%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return NewValidationError(field, "%s is invalid", field)
	}
}

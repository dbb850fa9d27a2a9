package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate` tags and converts the first
// failure into a validation AppError naming the offending field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.NewValidationError(
			fmt.Sprintf("field %s failed %s validation", fe.Field(), fe.Tag()),
		)
	}
	return apperrors.NewValidationError(err.Error())
}

// Var validates a single value against a tag expression.
func Var(field string, v any, tag string) error {
	if err := validate.Var(v, tag); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("field %s failed %s validation", field, tag))
	}
	return nil
}

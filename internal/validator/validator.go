// internal/validator/validator.go
package validator

import (
	"regexp"

	"card-optimizer/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

func init() {
	Validate = validator.New()

	// one of the known purchase categories, any case
	_ = Validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.IsKnownCategory(fl.Field().String())
	})

	// string not empty and not only whitespace
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})
}

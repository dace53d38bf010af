// internal/handler/handler.go
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/service"
	val "card-optimizer/internal/validator"

	"github.com/go-playground/validator/v10"
)

// Optimizer is what the HTTP layer needs from the service.
type Optimizer interface {
	Optimize(ctx context.Context, query string) service.Response
	Health() service.Health
	Cards(ctx context.Context) ([]domain.Card, error)
	History(ctx context.Context, limit int) ([]domain.PurchaseRecord, error)
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid input: %w", err)
		}
		errs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "category":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), strings.Join(domain.Categories(), ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 100", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

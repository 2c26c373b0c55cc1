package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// Validate runs struct-tag validation on the request before any other stage.
// On violation it short-circuits with every failed rule aggregated into one
// domain.ValidationError; the next stage is never invoked.
func Validate[Req, Res any](v *validator.Validate) Middleware[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			err := v.StructCtx(ctx, req)
			if err == nil {
				return next(ctx, req)
			}

			var zero Res
			var violations validator.ValidationErrors
			if !errors.As(err, &violations) {
				// Request type carries no validatable struct; treat as internal.
				return zero, domain.Internal(err, "command.validate", "request validation failed")
			}

			ve := &domain.ValidationError{Fields: make(map[string]string, len(violations))}
			for _, fe := range violations {
				ve.Fields[fe.Field()] = violationMessage(fe)
			}
			return zero, ve
		}
	}
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on %s.", fe.Field(), fe.Tag())
	}
}

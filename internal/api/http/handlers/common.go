package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/syndic-console/reclamation-service/internal/auth"
	"github.com/syndic-console/reclamation-service/internal/domain"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// HeaderIdempotencyKey carries the client token that guards non-repeatable writes.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func currentActor(c *fiber.Ctx) (domain.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}

// pathID copies the :id param out of the request buffer so it can outlive the handler.
func pathID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes the payload and checks its validate tags.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		fields := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		return apperrors.NewValidationError("invalid payload", map[string]any{"fields": fields})
	}
	return nil
}

// parseDay accepts RFC 3339 timestamps or YYYY-MM-DD days. A bare day used as
// an upper bound covers the whole day.
func parseDay(field, val string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, val, loc)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{"field": field, "value": val})
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func parseInt(field, val string, def, max int) (int, error) {
	if val == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return 0, apperrors.NewValidationError("invalid number", map[string]any{"field": field, "value": val})
	}
	if max > 0 && parsed > max {
		parsed = max
	}
	return parsed, nil
}

func respondCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func respondOK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

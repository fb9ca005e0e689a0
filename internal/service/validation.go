package service

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/syndic-console/reclamation-service/internal/config"
	"github.com/syndic-console/reclamation-service/internal/domain"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// Rules holds the pre-write checks for free-text fields.
type Rules struct {
	TitleMin    int
	TitleMax    int
	ResponseMax int
}

// RulesFromConfig builds Rules from configuration.
func RulesFromConfig(cfg config.ValidationConfig) Rules {
	return Rules{TitleMin: cfg.TitleMinLength, TitleMax: cfg.TitleMaxLength, ResponseMax: cfg.ResponseMaxLength}
}

// DefaultRules mirrors the configuration defaults.
func DefaultRules() Rules {
	return Rules{TitleMin: 3, TitleMax: 150, ResponseMax: 2000}
}

func (r Rules) title(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(title)
	if n < r.TitleMin || n > r.TitleMax {
		return "", apperrors.NewValidationError("title length out of bounds", map[string]any{
			"field": "title", "min": r.TitleMin, "max": r.TitleMax, "length": n,
		})
	}
	return title, nil
}

func (r Rules) content(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", apperrors.NewValidationError("content required", map[string]any{"field": "content"})
	}
	return content, nil
}

func (r Rules) response(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", apperrors.NewEmptyResponse()
	}
	if r.ResponseMax > 0 && utf8.RuneCountInString(text) > r.ResponseMax {
		return "", apperrors.NewValidationError("response too long", map[string]any{"field": "text", "max": r.ResponseMax})
	}
	return text, nil
}

func priorityFor(actor domain.Actor, p domain.Priority) (domain.Priority, error) {
	if p == "" {
		return domain.PriorityMedium, nil
	}
	if !p.Valid() {
		return "", apperrors.NewValidationError("unknown priority", map[string]any{"field": "priority", "value": p})
	}
	if p == domain.PriorityUrgent && !actor.IsSyndic() {
		return "", apperrors.NewValidationError("URGENT priority is reserved for management", map[string]any{"field": "priority"})
	}
	return p, nil
}

// Money columns are NUMERIC(12,2).
const moneyScale = 2

var maxAmount = decimal.New(1, 10)

// chargeAmount accepts positive amounts that fit the money columns exactly.
func chargeAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperrors.NewValidationError("amount must be positive", map[string]any{"field": "amount"})
	}
	if !d.Equal(d.Round(moneyScale)) {
		return apperrors.NewValidationError("amount has more than 2 decimals", map[string]any{"field": "amount", "value": d.String()})
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return apperrors.NewValidationError("amount too large", map[string]any{"field": "amount", "value": d.String()})
	}
	return nil
}

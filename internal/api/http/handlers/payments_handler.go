package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/syndic-console/reclamation-service/internal/api/dto"
	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/service"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// PaymentsHandler exposes payment endpoints.
type PaymentsHandler struct {
	service *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(svc *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{service: svc}
}

// Create POST /api/payments.
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreatePaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	payment, err := h.service.Create(c.UserContext(), actor, service.PaymentCreateInput{
		ChargeID: req.ChargeID,
		Amount:   req.Amount,
		Method:   req.Method,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.Payment(payment))
}

// List GET /api/payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	status := domain.PaymentStatus(strings.ToUpper(c.Query("status")))
	if status != "" && !status.Valid() {
		return apperrors.NewValidationError("unknown status", map[string]any{"field": "status", "value": status})
	}
	payments, err := h.service.List(c.UserContext(), actor, repository.PaymentFilter{
		Status:      status,
		ApartmentID: c.Query("apartment_id"),
	})
	if err != nil {
		return err
	}
	return respondOK(c, dto.Payments(payments))
}

// Confirm POST /api/payments/:id/confirm.
func (h *PaymentsHandler) Confirm(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	payment, err := h.service.Confirm(c.UserContext(), actor, pathID(c), c.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return respondOK(c, dto.Payment(payment))
}

// Reject POST /api/payments/:id/reject.
func (h *PaymentsHandler) Reject(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.RejectPaymentRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	payment, err := h.service.Reject(c.UserContext(), actor, pathID(c), req.Reason, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return respondOK(c, dto.Payment(payment))
}

// History GET /api/payments/:id/history.
func (h *PaymentsHandler) History(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.UserContext(), actor, pathID(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.History(entries))
}

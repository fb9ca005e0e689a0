package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/syndic-console/reclamation-service/internal/api/dto"
	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/service"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// ChargesHandler exposes billing endpoints.
type ChargesHandler struct {
	service  *service.BillingService
	location *time.Location
}

// NewChargesHandler constructs handler. loc interprets due dates.
func NewChargesHandler(svc *service.BillingService, loc *time.Location) *ChargesHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ChargesHandler{service: svc, location: loc}
}

// BulkCreate POST /api/charges/bulk.
func (h *ChargesHandler) BulkCreate(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.BulkChargesRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	due, err := parseDay("due_date", req.DueDate, h.location, false)
	if err != nil {
		return err
	}
	if due == nil {
		return apperrors.NewValidationError("due_date required", map[string]any{"field": "due_date"})
	}
	charges, err := h.service.BulkCreateCharges(c.UserContext(), actor, service.BulkChargeInput{
		BuildingID:     req.BuildingID,
		Description:    req.Description,
		Amount:         req.Amount,
		DueDate:        *due,
		IdempotencyKey: c.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.Charges(charges), "count": len(charges)})
}

// List GET /api/charges.
func (h *ChargesHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	status := domain.ChargeStatus(strings.ToUpper(c.Query("status")))
	if status != "" && status != domain.ChargeStatusPaid && status != domain.ChargeStatusUnpaid {
		return apperrors.NewValidationError("unknown status", map[string]any{"field": "status", "value": status})
	}
	charges, err := h.service.ListCharges(c.UserContext(), actor, repository.ChargeFilter{
		BuildingID:  c.Query("building_id"),
		ApartmentID: c.Query("apartment_id"),
		Status:      status,
	})
	if err != nil {
		return err
	}
	return respondOK(c, dto.Charges(charges))
}

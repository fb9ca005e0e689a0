package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/syndic-console/reclamation-service/internal/api/dto"
	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/query"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/service"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// ReclamationsHandler exposes reclamation endpoints.
type ReclamationsHandler struct {
	service  *service.ReclamationService
	location *time.Location
}

// NewReclamationsHandler constructs handler. loc interprets bare dates in filters.
func NewReclamationsHandler(svc *service.ReclamationService, loc *time.Location) *ReclamationsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReclamationsHandler{service: svc, location: loc}
}

// Create POST /api/reclamations.
func (h *ReclamationsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateReclamationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	apartmentID := req.ApartmentID
	if apartmentID == "" && actor.ApartmentID != nil {
		apartmentID = *actor.ApartmentID
	}
	rec, err := h.service.Create(c.UserContext(), actor, service.ReclamationCreateInput{
		Title:       req.Title,
		Content:     req.Content,
		Priority:    req.Priority,
		ApartmentID: apartmentID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.Reclamation(rec))
}

// List GET /api/reclamations.
func (h *ReclamationsHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	filter, err := h.parseFilter(c)
	if err != nil {
		return err
	}
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}
	res, err := h.service.List(c.UserContext(), actor, filter, opts)
	if err != nil {
		return err
	}
	return c.JSON(dto.ReclamationListResponse{
		Data:   dto.Reclamations(res.Items),
		Total:  res.Total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// Statistics GET /api/reclamations/statistics.
func (h *ReclamationsHandler) Statistics(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	scope, err := h.parseFilter(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Statistics(c.UserContext(), actor, scope)
	if err != nil {
		return err
	}
	return respondOK(c, dto.Statistics(stats))
}

// Get GET /api/reclamations/:id.
func (h *ReclamationsHandler) Get(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Get(c.UserContext(), actor, pathID(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.Reclamation(rec))
}

// Update PATCH /api/reclamations/:id.
func (h *ReclamationsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateReclamationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	rec, err := h.service.Update(c.UserContext(), actor, pathID(c), domain.ReclamationPatch{
		Title:             req.Title,
		Content:           req.Content,
		Priority:          req.Priority,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		return err
	}
	return respondOK(c, dto.Reclamation(rec))
}

// Delete DELETE /api/reclamations/:id.
func (h *ReclamationsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, pathID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transition POST /api/reclamations/:id/status.
func (h *ReclamationsHandler) Transition(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	rec, err := h.service.Transition(c.UserContext(), actor, pathID(c), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return respondOK(c, dto.Reclamation(rec))
}

// Respond POST /api/reclamations/:id/response.
func (h *ReclamationsHandler) Respond(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.RespondRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Status != nil && *req.Status == "" {
		req.Status = nil
	}
	rec, err := h.service.Respond(c.UserContext(), actor, pathID(c), req.Text, req.Status)
	if err != nil {
		return err
	}
	return respondOK(c, dto.Reclamation(rec))
}

// History GET /api/reclamations/:id/history.
func (h *ReclamationsHandler) History(c *fiber.Ctx) error {
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

func (h *ReclamationsHandler) parseFilter(c *fiber.Ctx) (query.Filter, error) {
	filter := query.Filter{
		SearchTerm:  c.Query("q"),
		Status:      domain.ReclamationStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Priority:    domain.Priority(strings.ToUpper(strings.TrimSpace(c.Query("priority")))),
		BuildingID:  c.Query("building_id"),
		ApartmentID: c.Query("apartment_id"),
	}
	if s := filter.ActiveStatus(); s != "" && !s.Valid() {
		return query.Filter{}, apperrors.NewValidationError("unknown status", map[string]any{"field": "status", "value": filter.Status})
	}
	if p := filter.ActivePriority(); p != "" && !p.Valid() {
		return query.Filter{}, apperrors.NewValidationError("unknown priority", map[string]any{"field": "priority", "value": filter.Priority})
	}
	from, err := parseDay("from", c.Query("from"), h.location, false)
	if err != nil {
		return query.Filter{}, err
	}
	to, err := parseDay("to", c.Query("to"), h.location, true)
	if err != nil {
		return query.Filter{}, err
	}
	filter.CreatedFrom, filter.CreatedTo = from, to
	return filter, nil
}

func parseListOptions(c *fiber.Ctx) (repository.ListOptions, error) {
	order := query.Order(c.Query("sort"))
	switch order {
	case query.OrderCreatedAsc, query.OrderCreatedDesc, query.OrderUpdatedDesc:
	default:
		return repository.ListOptions{}, apperrors.NewValidationError("unknown sort", map[string]any{"field": "sort", "value": order})
	}
	limit, err := parseInt("limit", c.Query("limit"), defaultPageSize, maxPageSize)
	if err != nil {
		return repository.ListOptions{}, err
	}
	offset, err := parseInt("offset", c.Query("offset"), 0, 0)
	if err != nil {
		return repository.ListOptions{}, err
	}
	return repository.ListOptions{Order: order, Limit: limit, Offset: offset}, nil
}

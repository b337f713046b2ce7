package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/procurement-service/internal/api/dto"
	"github.com/spec-kit/procurement-service/internal/auth"
	"github.com/spec-kit/procurement-service/internal/domain"
	"github.com/spec-kit/procurement-service/internal/service"
	"github.com/spec-kit/procurement-service/internal/workflow"
	apperrors "github.com/spec-kit/procurement-service/pkg/util"
)

// editOpEvents maps transition ops of the PATCH envelope to workflow
// events. Title and description edits are handled separately because
// they are not lifecycle transitions.
var editOpEvents = map[string]workflow.Event{
	dto.OpCancel:          workflow.EventCancel,
	dto.OpConfirm:         workflow.EventConfirm,
	dto.OpDeny:            workflow.EventDeny,
	dto.OpCompletePayment: workflow.EventCompletePayment,
}

// TicketsHandler manages purchase-request endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.service.CreateTicket(c.Context(), principal.User, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Count:       req.Count,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketFromView(view)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketListQuery(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(list.Tickets))
	for i := range list.Tickets {
		items = append(items, dto.TicketFromView(&list.Tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Tickets:    items,
		TotalCount: list.TotalCount,
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	view, err := h.service.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromView(view)})
}

// EditTicket PATCH /tickets/:id.
func (h *TicketsHandler) EditTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EditTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticketID := c.Params("id")

	var (
		view *service.TicketView
		err  error
	)
	switch req.Op {
	case dto.OpEditTitle:
		view, err = h.service.EditTitle(c.Context(), principal.User, ticketID, req.Data.Title)
	case dto.OpEditDescription:
		view, err = h.service.EditDescription(c.Context(), principal.User, ticketID, req.Data.Description)
	default:
		event, ok := editOpEvents[req.Op]
		if !ok {
			return apperrors.NewValidationError("unknown op", map[string]any{"op": req.Op})
		}
		view, err = h.service.Transition(c.Context(), principal.User, ticketID, event, workflow.Payload{
			Price:  req.Data.Price,
			Reason: req.Data.Reason,
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromView(view)})
}

func parseTicketListQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{}

	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part)))
			if !status.Valid() {
				return filter, apperrors.NewValidationError("unknown status", map[string]any{"status": part})
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if initiator := c.Query("initiator_id"); initiator != "" {
		filter.InitiatorID = &initiator
	}

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

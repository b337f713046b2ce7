package dto

import (
	"time"

	"github.com/spec-kit/procurement-service/internal/domain"
	"github.com/spec-kit/procurement-service/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Ticket edit operations accepted by PATCH /tickets/:id.
const (
	OpEditTitle       = "edit_title"
	OpEditDescription = "edit_description"
	OpCancel          = "cancel"
	OpConfirm         = "confirm"
	OpDeny            = "deny"
	OpCompletePayment = "complete_payment"
)

// EditTicketRequest is the op envelope for ticket mutations.
type EditTicketRequest struct {
	Op   string         `json:"op"`
	Data EditTicketData `json:"data"`
}

// EditTicketData carries op-specific fields; unused fields stay empty.
type EditTicketData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Reason      string   `json:"reason"`
}

// TicketResponse provides full ticket info with resolved users.
type TicketResponse struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Status            domain.TicketStatus `json:"status"`
	Count             int                 `json:"count"`
	Price             *float64            `json:"price"`
	Initiator         UserResponse        `json:"initiator"`
	PurchasingManager *UserResponse       `json:"purchasing_manager"`
	AccountingManager *UserResponse       `json:"accounting_manager"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// TicketListResponse is one page plus the unpaged total.
type TicketListResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	TotalCount int64            `json:"total_count"`
}

// TicketFromView maps a resolved ticket view to its response shape.
func TicketFromView(view *service.TicketView) TicketResponse {
	resp := TicketResponse{
		ID:          view.Ticket.ID,
		Title:       view.Ticket.Title,
		Description: view.Ticket.Description,
		Status:      view.Ticket.Status,
		Count:       view.Ticket.Count,
		Price:       view.Ticket.Price,
		Initiator:   UserFromDomain(&view.Initiator),
		CreatedAt:   view.Ticket.CreatedAt,
		UpdatedAt:   view.Ticket.UpdatedAt,
	}
	if view.PurchasingManager != nil {
		manager := UserFromDomain(view.PurchasingManager)
		resp.PurchasingManager = &manager
	}
	if view.AccountingManager != nil {
		manager := UserFromDomain(view.AccountingManager)
		resp.AccountingManager = &manager
	}
	return resp
}

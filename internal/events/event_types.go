package events

import (
	"time"

	"github.com/spec-kit/procurement-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketTransitioned EventType = "ticket_transitioned"
	EventTicketEdited       EventType = "ticket_edited"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// TicketTransitionedPayload payload.
type TicketTransitionedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Event     string              `json:"event"`
	Reason    string              `json:"reason,omitempty"`
}

// TicketEditedPayload payload.
type TicketEditedPayload struct {
	Field string `json:"field"`
}

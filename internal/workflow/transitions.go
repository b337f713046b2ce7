package workflow

import "github.com/spec-kit/procurement-service/internal/domain"

// Event names a role-gated operation moving a ticket between statuses.
type Event string

const (
	EventCancel          Event = "CANCEL"
	EventConfirm         Event = "CONFIRM"
	EventDeny            Event = "DENY"
	EventCompletePayment Event = "COMPLETE_PAYMENT"
)

// Valid reports whether the event is one of the known events.
func (e Event) Valid() bool {
	for key := range transitions {
		if key.event == e {
			return true
		}
	}
	return false
}

type transitionKey struct {
	from  domain.TicketStatus
	event Event
}

// transition describes one legal edge of the ticket lifecycle: who may
// fire it, what input it needs and which fields it stamps on the ticket.
type transition struct {
	to            domain.TicketStatus
	role          domain.Role
	requiresOwner bool
	requiresPrice bool
}

// transitions is the single authoritative table of the ticket lifecycle.
// Every (status, event) pair absent from this map is illegal, and the
// three terminal statuses have no outgoing edges.
var transitions = map[transitionKey]transition{
	{domain.TicketStatusRequested, EventCancel}: {
		to:            domain.TicketStatusCancelled,
		role:          domain.RoleInitiator,
		requiresOwner: true,
	},
	{domain.TicketStatusRequested, EventConfirm}: {
		to:            domain.TicketStatusConfirmed,
		role:          domain.RolePurchasingManager,
		requiresPrice: true,
	},
	{domain.TicketStatusRequested, EventDeny}: {
		to:   domain.TicketStatusDenied,
		role: domain.RolePurchasingManager,
	},
	{domain.TicketStatusConfirmed, EventCompletePayment}: {
		to:   domain.TicketStatusPaymentCompleted,
		role: domain.RoleAccountingManager,
	},
}

// Permits reports whether the role may perform the event in any state.
// It is a pure, total function over the finite role/event domain.
func Permits(role domain.Role, event Event) bool {
	for key, tr := range transitions {
		if key.event == event && tr.role == role {
			return true
		}
	}
	return false
}

// PermittedEvents returns the events that can be fired from the given
// status, in no particular order.
func PermittedEvents(status domain.TicketStatus) []Event {
	var events []Event
	for key := range transitions {
		if key.from == status {
			events = append(events, key.event)
		}
	}
	return events
}

// roleActsIn reports whether the role owns any transition out of the
// given status.
func roleActsIn(role domain.Role, status domain.TicketStatus) bool {
	for key, tr := range transitions {
		if key.from == status && tr.role == role {
			return true
		}
	}
	return false
}

// Package workflow implements the purchase-request approval state machine:
// which role may move a ticket between which statuses, and what each move
// stamps on the ticket. Apply is pure; persistence belongs to the caller.
package workflow

import "github.com/spec-kit/procurement-service/internal/domain"

// Payload carries the transition inputs that are not derivable from the
// acting user. Reason is advisory and not persisted on the ticket.
type Payload struct {
	Price  *float64
	Reason string
}

// Apply validates the proposed transition against the current ticket
// snapshot and returns the updated snapshot. On rejection the returned
// error is a *Rejection and the input ticket is untouched; Apply never
// mutates its arguments and has no other side effects.
func Apply(ticket domain.Ticket, actor domain.User, event Event, payload Payload) (domain.Ticket, error) {
	if !ticket.Status.Valid() {
		return domain.Ticket{}, reject(ReasonUnknownState, "ticket %s has unknown status %q", ticket.ID, ticket.Status)
	}

	if ticket.Status.IsTerminal() {
		return domain.Ticket{}, reject(ReasonIllegalTransition, "no transitions leave status %s", ticket.Status)
	}

	tr, ok := transitions[transitionKey{from: ticket.Status, event: event}]
	if !ok {
		// In a non-terminal state: a role that participates in this stage
		// picked the wrong event, a role that does not belongs elsewhere
		// in the workflow entirely.
		if roleActsIn(actor.Role, ticket.Status) {
			return domain.Ticket{}, reject(ReasonIllegalTransition, "event %s is not allowed in status %s", event, ticket.Status)
		}
		return domain.Ticket{}, reject(ReasonForbidden, "role %s has no action in status %s", actor.Role, ticket.Status)
	}

	if !Permits(actor.Role, event) {
		return domain.Ticket{}, reject(ReasonForbidden, "role %s may not perform %s", actor.Role, event)
	}

	if tr.requiresOwner && actor.ID != ticket.InitiatorID {
		return domain.Ticket{}, reject(ReasonNotOwner, "only the ticket initiator may perform %s", event)
	}

	if tr.requiresPrice {
		if payload.Price == nil {
			return domain.Ticket{}, reject(ReasonInvalidPayload, "%s requires a price", event)
		}
		if *payload.Price <= 0 {
			return domain.Ticket{}, reject(ReasonInvalidPayload, "price must be positive, got %v", *payload.Price)
		}
	}

	next := ticket
	next.Status = tr.to

	switch event {
	case EventConfirm:
		price := *payload.Price
		next.Price = &price
		actorID := actor.ID
		next.PurchasingManagerID = &actorID
	case EventDeny:
		actorID := actor.ID
		next.PurchasingManagerID = &actorID
	case EventCompletePayment:
		actorID := actor.ID
		next.AccountingManagerID = &actorID
	}

	return next, nil
}

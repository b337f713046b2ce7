package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/procurement-service/internal/domain"
	"github.com/spec-kit/procurement-service/internal/events"
	"github.com/spec-kit/procurement-service/internal/repository"
	"github.com/spec-kit/procurement-service/internal/workflow"
	apperrors "github.com/spec-kit/procurement-service/pkg/util"
)

// maxConflictRetries bounds how often a lost optimistic save is retried
// by reloading the ticket and re-validating the transition.
const maxConflictRetries = 3

// TicketService coordinates the purchase-request workflow around the pure
// transition engine: load, validate, store, publish.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Count       int
}

// TicketListFilter describes listing parameters.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	InitiatorID *string
	Limit       int
	Offset      int
}

// TicketView is a ticket with its referenced users resolved.
type TicketView struct {
	Ticket            domain.Ticket
	Initiator         domain.User
	PurchasingManager *domain.User
	AccountingManager *domain.User
}

// TicketList is a page of resolved tickets with the unpaged total.
type TicketList struct {
	Tickets    []TicketView
	TotalCount int64
}

// CreateTicket creates a purchase request in the requested status. Only
// initiators may create tickets.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*TicketView, error) {
	if actor.Role != domain.RoleInitiator {
		return nil, apperrors.NewForbidden("only initiators may create tickets")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if input.Count <= 0 {
		return nil, apperrors.NewValidationError("count must be positive", map[string]any{"count": input.Count})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusRequested,
		Count:       input.Count,
		InitiatorID: actor.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title: ticket.Title,
			Count: ticket.Count,
		},
	})

	return &TicketView{Ticket: *ticket, Initiator: *actor}, nil
}

// Transition applies a workflow event to a ticket. The optimistic save
// loses to concurrent writers by design; on a conflict the ticket is
// reloaded and the transition re-validated against the fresh snapshot,
// never written against stale state.
func (s *TicketService) Transition(ctx context.Context, actor *domain.User, ticketID string, event workflow.Event, payload workflow.Payload) (*TicketView, error) {
	for attempt := 0; ; attempt++ {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}

		next, err := workflow.Apply(*ticket, *actor, event, payload)
		if err != nil {
			return nil, err
		}

		err = s.tickets.Save(ctx, &next)
		if errors.Is(err, repository.ErrTicketConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publish(ctx, events.Event{
			Type:     events.EventTicketTransitioned,
			TicketID: next.ID,
			ActorID:  actor.ID,
			Payload: events.TicketTransitionedPayload{
				OldStatus: ticket.Status,
				NewStatus: next.Status,
				Event:     string(event),
				Reason:    payload.Reason,
			},
		})

		return s.resolve(ctx, &next)
	}
}

// EditTitle renames a ticket. Allowed only while the ticket is still
// requested, and only for its initiator.
func (s *TicketService) EditTitle(ctx context.Context, actor *domain.User, ticketID, title string) (*TicketView, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	return s.edit(ctx, actor, ticketID, "title", func(ticket *domain.Ticket) error {
		if ticket.Status != domain.TicketStatusRequested || ticket.InitiatorID != actor.ID {
			return apperrors.NewForbidden("title can only be edited by the initiator while requested")
		}
		ticket.Title = title
		return nil
	})
}

// EditDescription updates the description. The description doubles as a
// comment field, so it stays editable through the whole lifecycle.
func (s *TicketService) EditDescription(ctx context.Context, actor *domain.User, ticketID, description string) (*TicketView, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	return s.edit(ctx, actor, ticketID, "description", func(ticket *domain.Ticket) error {
		ticket.Description = description
		return nil
	})
}

func (s *TicketService) edit(ctx context.Context, actor *domain.User, ticketID, field string, mutate func(*domain.Ticket) error) (*TicketView, error) {
	for attempt := 0; ; attempt++ {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}

		if err := mutate(ticket); err != nil {
			return nil, err
		}

		err = s.tickets.Save(ctx, ticket)
		if errors.Is(err, repository.ErrTicketConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publish(ctx, events.Event{
			Type:     events.EventTicketEdited,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload:  events.TicketEditedPayload{Field: field},
		})

		return s.resolve(ctx, ticket)
	}
}

// GetTicket fetches one ticket with its referenced users resolved.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, ticket)
}

// ListTickets returns one page of tickets with the unpaged total count.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) (*TicketList, error) {
	repoFilter := repository.TicketFilter{
		Statuses:    filter.Statuses,
		InitiatorID: filter.InitiatorID,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}

	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.tickets.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListByIDs(ctx, referencedUserIDs(tickets))
	if err != nil {
		return nil, err
	}

	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		view, err := assembleView(&tickets[i], users)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return &TicketList{Tickets: views, TotalCount: total}, nil
}

func (s *TicketService) resolve(ctx context.Context, ticket *domain.Ticket) (*TicketView, error) {
	users, err := s.users.ListByIDs(ctx, referencedUserIDs([]domain.Ticket{*ticket}))
	if err != nil {
		return nil, err
	}
	return assembleView(ticket, users)
}

func assembleView(ticket *domain.Ticket, users map[string]domain.User) (*TicketView, error) {
	initiator, ok := users[ticket.InitiatorID]
	if !ok {
		return nil, fmt.Errorf("ticket %s references missing initiator %s", ticket.ID, ticket.InitiatorID)
	}

	view := &TicketView{Ticket: *ticket, Initiator: initiator}
	if ticket.PurchasingManagerID != nil {
		manager, ok := users[*ticket.PurchasingManagerID]
		if !ok {
			return nil, fmt.Errorf("ticket %s references missing purchasing manager %s", ticket.ID, *ticket.PurchasingManagerID)
		}
		view.PurchasingManager = &manager
	}
	if ticket.AccountingManagerID != nil {
		manager, ok := users[*ticket.AccountingManagerID]
		if !ok {
			return nil, fmt.Errorf("ticket %s references missing accounting manager %s", ticket.ID, *ticket.AccountingManagerID)
		}
		view.AccountingManager = &manager
	}
	return view, nil
}

func referencedUserIDs(tickets []domain.Ticket) []string {
	seen := make(map[string]struct{}, len(tickets))
	ids := make([]string, 0, len(tickets))
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range tickets {
		add(tickets[i].InitiatorID)
		if tickets[i].PurchasingManagerID != nil {
			add(*tickets[i].PurchasingManagerID)
		}
		if tickets[i].AccountingManagerID != nil {
			add(*tickets[i].AccountingManagerID)
		}
	}
	return ids
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

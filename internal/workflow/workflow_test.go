package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/procurement-service/internal/domain"
)

var (
	initiator = domain.User{ID: "u1", Name: "Ann", Login: "ann", Role: domain.RoleInitiator}
	purchaser = domain.User{ID: "u2", Name: "Bob", Login: "bob", Role: domain.RolePurchasingManager}
	acct      = domain.User{ID: "u3", Name: "Cee", Login: "cee", Role: domain.RoleAccountingManager}
)

func requestedTicket() domain.Ticket {
	return domain.Ticket{
		ID:          "t1",
		Title:       "laptops",
		Description: "two laptops for the lab",
		Status:      domain.TicketStatusRequested,
		Count:       2,
		InitiatorID: initiator.ID,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Version:     1,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestPermits(t *testing.T) {
	cases := []struct {
		role  domain.Role
		event Event
		want  bool
	}{
		{domain.RoleInitiator, EventCancel, true},
		{domain.RoleInitiator, EventConfirm, false},
		{domain.RoleInitiator, EventDeny, false},
		{domain.RoleInitiator, EventCompletePayment, false},
		{domain.RolePurchasingManager, EventConfirm, true},
		{domain.RolePurchasingManager, EventDeny, true},
		{domain.RolePurchasingManager, EventCancel, false},
		{domain.RolePurchasingManager, EventCompletePayment, false},
		{domain.RoleAccountingManager, EventCompletePayment, true},
		{domain.RoleAccountingManager, EventCancel, false},
		{domain.RoleAccountingManager, EventConfirm, false},
		{domain.RoleAccountingManager, EventDeny, false},
		{domain.Role("AUDITOR"), EventCancel, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Permits(tc.role, tc.event), "Permits(%s, %s)", tc.role, tc.event)
	}
}

func TestCancelByOwner(t *testing.T) {
	next, err := Apply(requestedTicket(), initiator, EventCancel, Payload{})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCancelled, next.Status)
	assert.Nil(t, next.Price)
	assert.Nil(t, next.PurchasingManagerID)
	assert.Nil(t, next.AccountingManagerID)
}

func TestCancelByManagerForbidden(t *testing.T) {
	_, err := Apply(requestedTicket(), purchaser, EventCancel, Payload{})
	requireReason(t, err, ReasonForbidden)
}

func TestCancelByNonOwnerInitiator(t *testing.T) {
	other := domain.User{ID: "u9", Role: domain.RoleInitiator}
	_, err := Apply(requestedTicket(), other, EventCancel, Payload{})
	requireReason(t, err, ReasonNotOwner)
}

func TestConfirmSetsPriceAndManager(t *testing.T) {
	next, err := Apply(requestedTicket(), purchaser, EventConfirm, Payload{Price: floatPtr(150.0)})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusConfirmed, next.Status)
	require.NotNil(t, next.Price)
	assert.Equal(t, 150.0, *next.Price)
	require.NotNil(t, next.PurchasingManagerID)
	assert.Equal(t, purchaser.ID, *next.PurchasingManagerID)
}

func TestConfirmRequiresPositivePrice(t *testing.T) {
	_, err := Apply(requestedTicket(), purchaser, EventConfirm, Payload{})
	requireReason(t, err, ReasonInvalidPayload)

	_, err = Apply(requestedTicket(), purchaser, EventConfirm, Payload{Price: floatPtr(0)})
	requireReason(t, err, ReasonInvalidPayload)

	_, err = Apply(requestedTicket(), purchaser, EventConfirm, Payload{Price: floatPtr(-10)})
	requireReason(t, err, ReasonInvalidPayload)
}

func TestDenySetsPurchasingManager(t *testing.T) {
	next, err := Apply(requestedTicket(), purchaser, EventDeny, Payload{Reason: "no budget"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusDenied, next.Status)
	require.NotNil(t, next.PurchasingManagerID)
	assert.Equal(t, purchaser.ID, *next.PurchasingManagerID)
	assert.Nil(t, next.Price)
}

func TestCompletePayment(t *testing.T) {
	ticket := requestedTicket()
	confirmed, err := Apply(ticket, purchaser, EventConfirm, Payload{Price: floatPtr(99.5)})
	require.NoError(t, err)

	paid, err := Apply(confirmed, acct, EventCompletePayment, Payload{})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPaymentCompleted, paid.Status)
	require.NotNil(t, paid.AccountingManagerID)
	assert.Equal(t, acct.ID, *paid.AccountingManagerID)

	// Price set at confirmation is never altered afterwards.
	require.NotNil(t, paid.Price)
	assert.Equal(t, 99.5, *paid.Price)
}

func TestCompletePaymentOnlyFromConfirmed(t *testing.T) {
	// The accounting manager has no action at the purchasing stage.
	_, err := Apply(requestedTicket(), acct, EventCompletePayment, Payload{})
	requireReason(t, err, ReasonForbidden)

	// The purchasing manager does act at this stage, but not with this event.
	_, err = Apply(requestedTicket(), purchaser, EventCompletePayment, Payload{})
	requireReason(t, err, ReasonIllegalTransition)
}

func TestCancelAfterConfirmForbidden(t *testing.T) {
	confirmed, err := Apply(requestedTicket(), purchaser, EventConfirm, Payload{Price: floatPtr(10)})
	require.NoError(t, err)

	_, err = Apply(confirmed, initiator, EventCancel, Payload{})
	requireReason(t, err, ReasonForbidden)
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	actors := []domain.User{initiator, purchaser, acct}
	events := []Event{EventCancel, EventConfirm, EventDeny, EventCompletePayment}
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusCancelled,
		domain.TicketStatusDenied,
		domain.TicketStatusPaymentCompleted,
	} {
		ticket := requestedTicket()
		ticket.Status = status
		for _, actor := range actors {
			for _, event := range events {
				_, err := Apply(ticket, actor, event, Payload{Price: floatPtr(1)})
				requireReason(t, err, ReasonIllegalTransition)
			}
		}
	}
}

func TestRejectionIsDeterministic(t *testing.T) {
	ticket := requestedTicket()
	ticket.Status = domain.TicketStatusPaymentCompleted

	_, first := Apply(ticket, acct, EventCompletePayment, Payload{})
	_, second := Apply(ticket, acct, EventCompletePayment, Payload{})
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
}

func TestUnknownStatus(t *testing.T) {
	ticket := requestedTicket()
	ticket.Status = domain.TicketStatus("ARCHIVED")
	_, err := Apply(ticket, initiator, EventCancel, Payload{})
	requireReason(t, err, ReasonUnknownState)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	ticket := requestedTicket()
	_, err := Apply(ticket, purchaser, EventConfirm, Payload{Price: floatPtr(42)})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusRequested, ticket.Status)
	assert.Nil(t, ticket.Price)
	assert.Nil(t, ticket.PurchasingManagerID)
}

func TestPermittedEvents(t *testing.T) {
	assert.ElementsMatch(t,
		[]Event{EventCancel, EventConfirm, EventDeny},
		PermittedEvents(domain.TicketStatusRequested))
	assert.ElementsMatch(t,
		[]Event{EventCompletePayment},
		PermittedEvents(domain.TicketStatusConfirmed))
	assert.Empty(t, PermittedEvents(domain.TicketStatusCancelled))
	assert.Empty(t, PermittedEvents(domain.TicketStatusDenied))
	assert.Empty(t, PermittedEvents(domain.TicketStatusPaymentCompleted))
}

func requireReason(t *testing.T, err error, want Reason) {
	t.Helper()
	require.Error(t, err)
	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, want, rejection.Reason)
}

package domain

import "time"

// TicketStatus enumerates lifecycle states for purchase requests.
type TicketStatus string

const (
	TicketStatusRequested        TicketStatus = "REQUESTED"
	TicketStatusCancelled        TicketStatus = "CANCELLED"
	TicketStatusConfirmed        TicketStatus = "CONFIRMED"
	TicketStatusDenied           TicketStatus = "DENIED"
	TicketStatusPaymentCompleted TicketStatus = "PAYMENT_COMPLETED"
)

// statusCodes is the authoritative mapping between statuses and their
// persisted smallint representation.
var statusCodes = map[TicketStatus]int16{
	TicketStatusRequested:        1,
	TicketStatusCancelled:        2,
	TicketStatusConfirmed:        3,
	TicketStatusDenied:           4,
	TicketStatusPaymentCompleted: 5,
}

var codeStatuses = func() map[int16]TicketStatus {
	m := make(map[int16]TicketStatus, len(statusCodes))
	for status, code := range statusCodes {
		m[code] = status
	}
	return m
}()

var terminalStatuses = map[TicketStatus]bool{
	TicketStatusCancelled:        true,
	TicketStatusDenied:           true,
	TicketStatusPaymentCompleted: true,
}

// Valid reports whether the status is one of the known statuses.
func (s TicketStatus) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// Code returns the persisted smallint code for the status.
func (s TicketStatus) Code() int16 {
	return statusCodes[s]
}

// IsTerminal reports whether no further transitions leave this status.
func (s TicketStatus) IsTerminal() bool {
	return terminalStatuses[s]
}

// StatusFromCode maps a persisted code back to a status.
func StatusFromCode(code int16) (TicketStatus, bool) {
	status, ok := codeStatuses[code]
	return status, ok
}

// Ticket is the aggregate representing one purchase request and its
// approval state. The manager references are set by workflow transitions
// and are never reassigned.
type Ticket struct {
	ID                  string
	Title               string
	Description         string
	Status              TicketStatus
	Count               int
	Price               *float64
	InitiatorID         string
	PurchasingManagerID *string
	AccountingManagerID *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int32
}

package workflow

import "fmt"

// Reason classifies why a transition was rejected.
type Reason string

const (
	ReasonUnknownState      Reason = "UNKNOWN_STATE"
	ReasonIllegalTransition Reason = "ILLEGAL_TRANSITION"
	ReasonForbidden         Reason = "FORBIDDEN"
	ReasonNotOwner          Reason = "NOT_OWNER"
	ReasonInvalidPayload    Reason = "INVALID_PAYLOAD"
)

// Rejection is the typed error returned when a transition is refused. No
// partial mutation is applied to the ticket when a Rejection is returned.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

package repository

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrTicketNotFound is returned when no ticket matches the lookup.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrLoginTaken is returned when a login is already registered.
	ErrLoginTaken = errors.New("login already taken")

	// ErrTicketConflict is returned when an optimistic save loses to a
	// concurrent writer. Callers reload the ticket and retry.
	ErrTicketConflict = errors.New("ticket was modified concurrently")

	// ErrUserReferenced is returned when a user cannot be deleted because
	// tickets still reference them.
	ErrUserReferenced = errors.New("user is referenced by tickets")
)

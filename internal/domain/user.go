package domain

import "time"

// Role identifies what a user is allowed to do in the approval workflow.
type Role string

const (
	RoleInitiator         Role = "INITIATOR"
	RolePurchasingManager Role = "PURCHASING_MANAGER"
	RoleAccountingManager Role = "ACCOUNTING_MANAGER"
)

// roleCodes is the authoritative mapping between roles and their persisted
// smallint representation.
var roleCodes = map[Role]int16{
	RoleInitiator:         1,
	RolePurchasingManager: 2,
	RoleAccountingManager: 3,
}

var codeRoles = func() map[int16]Role {
	m := make(map[int16]Role, len(roleCodes))
	for role, code := range roleCodes {
		m[code] = role
	}
	return m
}()

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCodes[r]
	return ok
}

// Code returns the persisted smallint code for the role.
func (r Role) Code() int16 {
	return roleCodes[r]
}

// RoleFromCode maps a persisted code back to a role.
func RoleFromCode(code int16) (Role, bool) {
	role, ok := codeRoles[code]
	return role, ok
}

// User is the domain model for workflow participants. A user's role is
// assigned at creation and never changes.
type User struct {
	ID           string
	Name         string
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package dto

import (
	"time"

	"github.com/spec-kit/procurement-service/internal/domain"
)

// UserRegisterRequest payload.
type UserRegisterRequest struct {
	Name     string      `json:"name"`
	Login    string      `json:"login"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// UserLoginRequest payload.
type UserLoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of a user. Login and credentials stay
// internal.
type UserResponse struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// UserFromDomain maps a domain user to its public view.
func UserFromDomain(user *domain.User) UserResponse {
	return UserResponse{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	}
}

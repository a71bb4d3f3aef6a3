package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// RegisterRequest payload for new customers.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CustomerResponse describes an account.
type CustomerResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Customer CustomerResponse `json:"customer"`
	Auth     AuthResponse     `json:"auth"`
}

// ProfileResponse is the caller's account with the complaints it owns.
type ProfileResponse struct {
	Email      string              `json:"email"`
	Name       string              `json:"name"`
	Complaints []ComplaintResponse `json:"complaints"`
}

// NewCustomerResponse maps a customer.
func NewCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{ID: c.ID, Email: c.Email, Name: c.Name}
}

package ports

import (
	"context"

	"github.com/campusreg/registration-system/internal/core/domain"
)

// RegisterInput carries the data needed to create a student account. Fields
// arrive already schema-checked by the transport layer; the service and
// repository re-validate independently.
type RegisterInput struct {
	Email     string
	Name      string
	StudentID string
	Password  string
}

// LoginInput carries login credentials. Origin is the caller's IP, composed
// with the email for rate-limit keying.
type LoginInput struct {
	Email    string
	Password string
	Origin   string
}

// AuthService implements account registration and credential authentication.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (string, *domain.User, error)
}

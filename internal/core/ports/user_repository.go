package ports

import (
	"context"

	"github.com/campusreg/registration-system/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
// Create must be atomic create-if-absent on the normalized email: two
// concurrent calls for the same email yield exactly one success and one
// domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

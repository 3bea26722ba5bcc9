package ports

import (
	"context"

	"github.com/campusreg/registration-system/internal/core/domain"
)

// EnrollmentRepository defines the interface for enrollment record
// persistence. The conditional write in Create guards the record ID only;
// nothing here atomically prevents two active records for the same
// (email, class) pair — that check-then-act lives in the service layer and
// is racy by design (see DESIGN.md).
type EnrollmentRepository interface {
	// Create inserts a new record, failing with domain.ErrAlreadyEnrolled
	// when a record with the same ID already exists.
	Create(ctx context.Context, e *domain.Enrollment) error

	// ListActiveByEmail returns every active record owned by the normalized
	// email. Order is not guaranteed.
	ListActiveByEmail(ctx context.Context, email string) ([]domain.Enrollment, error)

	// ListAll returns every record, active and dropped. Administrative and
	// diagnostic use only.
	ListAll(ctx context.Context) ([]domain.Enrollment, error)

	// Drop transitions the first active record matching classKey (class ID or
	// display name) to dropped, returning domain.ErrNotEnrolled when none
	// matches. The record is rewritten, never deleted.
	Drop(ctx context.Context, email, classKey string) error
}

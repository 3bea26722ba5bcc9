package ports

import (
	"context"

	"github.com/campusreg/registration-system/internal/core/domain"
)

// EnrollInput identifies the class a student wants to join.
type EnrollInput struct {
	ClassID string
	Origin  string // caller IP, composed with identity for rate-limit keying
}

// EnrollResult reports the outcome of an enroll call. AlreadyEnrolled marks
// the idempotent-success path: the student was enrolled before the call, or
// a concurrent request won the race.
type EnrollResult struct {
	Enrollment      *domain.Enrollment
	AlreadyEnrolled bool
}

// EnrollmentService orchestrates the user-facing enrollment verbs. Every
// method requires a complete identity and fails with domain.ErrUnauthenticated
// otherwise, before touching any stored state.
type EnrollmentService interface {
	Enroll(ctx context.Context, identity domain.Identity, in EnrollInput) (*EnrollResult, error)
	Unenroll(ctx context.Context, identity domain.Identity, classKey string) error
	ListMyEnrollments(ctx context.Context, identity domain.Identity) ([]domain.Enrollment, error)
}

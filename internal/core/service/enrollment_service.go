package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusreg/registration-system/internal/core/domain"
	"github.com/campusreg/registration-system/internal/core/ports"
	"github.com/campusreg/registration-system/internal/core/ratelimit"
)

// EnrollmentService orchestrates enroll, unenroll and listing over the
// enrollment repository and class catalog.
type EnrollmentService struct {
	repo    ports.EnrollmentRepository
	catalog ports.ClassCatalog
	limiter *ratelimit.Limiter
	log     zerolog.Logger
}

func NewEnrollmentService(repo ports.EnrollmentRepository, catalog ports.ClassCatalog, limiter *ratelimit.Limiter, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{repo: repo, catalog: catalog, limiter: limiter, log: log}
}

// Enroll registers the caller in a class. Already being enrolled is a
// success, not an error: the second of two back-to-back requests reports
// AlreadyEnrolled instead of failing. A repository duplicate surfaced by a
// concurrent request racing the pre-check is absorbed into the same outcome.
//
// The pre-check and the write are two separate operations against the store.
// Two truly concurrent requests for the same (email, class) pair can both
// pass the check and both insert, leaving two active records. There is no
// compensating cleanup; see DESIGN.md for the accepted trade-off.
func (s *EnrollmentService) Enroll(ctx context.Context, identity domain.Identity, in ports.EnrollInput) (*ports.EnrollResult, error) {
	if !identity.Complete() {
		return nil, domain.ErrUnauthenticated
	}
	email := domain.NormalizeEmail(identity.Email)

	if !s.limiter.Allow(limiterKey(email, in.Origin)) {
		s.log.Warn().Str("email", email).Msg("enrollment rate limited")
		return nil, domain.ErrRateLimited
	}

	class, err := s.catalog.Resolve(ctx, in.ClassID)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.ListActiveByEmail(ctx, email)
	if err != nil {
		s.log.Error().Err(err).Msg("enrollment lookup failed")
		return nil, domain.ErrUnavailable
	}
	if existing := domain.FindActive(active, class.ID); existing != nil {
		s.log.Debug().Str("email", email).Str("class_id", class.ID).Msg("already enrolled")
		return &ports.EnrollResult{Enrollment: existing, AlreadyEnrolled: true}, nil
	}

	now := time.Now().UTC()
	enrollment := &domain.Enrollment{
		ID:         domain.NewEnrollmentID(email, class.ID, now),
		Email:      email,
		ClassID:    class.ID,
		ClassName:  class.Name,
		Status:     domain.EnrollmentActive,
		EnrolledAt: now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			// A concurrent request won between our check and our write.
			// Same outcome as finding the record up front.
			return &ports.EnrollResult{Enrollment: enrollment, AlreadyEnrolled: true}, nil
		}
		s.log.Error().Err(err).Str("class_id", class.ID).Msg("enrollment create failed")
		return nil, domain.ErrUnavailable
	}

	s.log.Info().Str("email", email).Str("class_id", class.ID).Str("class", class.Name).Msg("enrolled")
	return &ports.EnrollResult{Enrollment: enrollment}, nil
}

// Unenroll drops the caller's active enrollment matching classKey, which may
// be a class ID or a display name. Not being enrolled is an error the caller
// sees, unlike the idempotent enroll path.
func (s *EnrollmentService) Unenroll(ctx context.Context, identity domain.Identity, classKey string) error {
	if !identity.Complete() {
		return domain.ErrUnauthenticated
	}
	email := domain.NormalizeEmail(identity.Email)

	if err := s.repo.Drop(ctx, email, classKey); err != nil {
		if errors.Is(err, domain.ErrNotEnrolled) {
			return err
		}
		s.log.Error().Err(err).Str("class", classKey).Msg("drop failed")
		return domain.ErrUnavailable
	}

	s.log.Info().Str("email", email).Str("class", classKey).Msg("unenrolled")
	return nil
}

// ListMyEnrollments returns the caller's active enrollments.
func (s *EnrollmentService) ListMyEnrollments(ctx context.Context, identity domain.Identity) ([]domain.Enrollment, error) {
	if !identity.Complete() {
		return nil, domain.ErrUnauthenticated
	}

	list, err := s.repo.ListActiveByEmail(ctx, domain.NormalizeEmail(identity.Email))
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", domain.ErrUnavailable)
	}
	return list, nil
}

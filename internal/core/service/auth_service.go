package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/campusreg/registration-system/internal/core/domain"
	"github.com/campusreg/registration-system/internal/core/password"
	"github.com/campusreg/registration-system/internal/core/ports"
	"github.com/campusreg/registration-system/internal/core/ratelimit"
)

// AuthService implements registration and login over the user repository,
// gated by a login rate limiter.
type AuthService struct {
	repo      ports.UserRepository
	limiter   *ratelimit.Limiter
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, limiter *ratelimit.Limiter, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, limiter: limiter, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a new student account. A duplicate email surfaces as the
// same generic domain.ErrRegistrationFailed as any other rejection, so the
// response cannot be used to enumerate accounts; the true cause is logged
// internally.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)

	strength := password.ScoreStrength(in.Password)
	if !strength.Valid {
		return nil, fmt.Errorf("%w: weak password", domain.ErrValidation)
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: password length", domain.ErrValidation)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         in.Name,
		StudentID:    domain.NormalizeStudentID(in.StudentID),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			// Collapse to the generic outcome: a 409 with detail would
			// confirm the address is registered.
			s.log.Info().Str("email", email).Msg("registration rejected: email taken")
			return nil, domain.ErrRegistrationFailed
		}
		s.log.Error().Err(err).Msg("user create failed")
		return nil, domain.ErrRegistrationFailed
	}

	s.log.Info().Str("email", created.Email).Str("student_id", created.StudentID).Msg("account created")
	return created, nil
}

// Login verifies credentials and issues a session token. Unknown email,
// wrong password and lookup failure all collapse to
// domain.ErrInvalidCredentials; only the rate-limit rejection is
// distinguishable. A successful login clears the caller's attempt counter.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	key := limiterKey(email, in.Origin)
	if !s.limiter.Allow(key) {
		s.log.Warn().Str("email", email).Msg("login rate limited")
		return "", nil, domain.ErrRateLimited
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("user lookup failed")
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(in.Password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	s.limiter.Clear(key)

	token, err := s.issueToken(user)
	if err != nil {
		s.log.Error().Err(err).Msg("token issue failed")
		return "", nil, domain.ErrUnavailable
	}

	s.log.Info().Str("email", user.Email).Msg("login succeeded")
	return token, user, nil
}

// issueToken signs an HS256 session token carrying the full identity triple.
func (s *AuthService) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"email":      user.Email,
		"name":       user.Name,
		"student_id": user.StudentID,
		"exp":        time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// limiterKey composes identity and origin so one client cannot burn another's
// attempt budget from a different address.
func limiterKey(identifier, origin string) string {
	if origin == "" {
		return identifier
	}
	return identifier + "|" + origin
}

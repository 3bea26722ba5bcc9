package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusreg/registration-system/internal/api/metrics"
	"github.com/campusreg/registration-system/internal/core/domain"
	"github.com/campusreg/registration-system/internal/core/password"
	"github.com/campusreg/registration-system/internal/core/ports"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Name      string `json:"name"       validate:"required,min=2,max=50"`
	StudentID string `json:"student_id" validate:"required,min=5,max=20"`
	Password  string `json:"password"   validate:"required,min=8,max=100"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type strengthRequest struct {
	Password string `json:"password" validate:"required"`
}

// Register creates a new student account.
//
// @Summary      Register a new student account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Name:      req.Name,
		StudentID: req.StudentID,
		Password:  req.Password,
	})
	metrics.AuthDuration.WithLabelValues("register").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a student and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	token, user, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Origin:   c.RealIP(),
	})
	metrics.AuthDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
			metrics.RateLimitedTotal.WithLabelValues("login").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// CheckStrength scores a candidate password without creating anything. The
// endpoint is unauthenticated so the registration form can give live
// feedback; it neither stores nor logs the candidate.
//
// @Summary      Score password strength
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      strengthRequest  true  "Candidate password"
// @Success      200   {object}  password.Strength
// @Failure      400   {object}  errorResponse
// @Router       /auth/password-strength [post]
func (h *AuthHandler) CheckStrength(c echo.Context) error {
	var req strengthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, password.ScoreStrength(req.Password))
}

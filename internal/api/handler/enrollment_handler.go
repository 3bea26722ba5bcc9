package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusreg/registration-system/internal/api/metrics"
	"github.com/campusreg/registration-system/internal/core/domain"
	"github.com/campusreg/registration-system/internal/core/ports"
)

// EnrollmentHandler handles the enrollment verbs for the authenticated
// student.
type EnrollmentHandler struct {
	service ports.EnrollmentService
	catalog ports.ClassCatalog
}

func NewEnrollmentHandler(service ports.EnrollmentService, catalog ports.ClassCatalog) *EnrollmentHandler {
	return &EnrollmentHandler{service: service, catalog: catalog}
}

type enrollRequest struct {
	ClassID string `json:"class_id" validate:"required"`
}

type enrollResponse struct {
	Enrollment      *domain.Enrollment `json:"enrollment"`
	AlreadyEnrolled bool               `json:"already_enrolled"`
}

type listEnrollmentsResponse struct {
	Enrollments []domain.Enrollment `json:"enrollments"`
}

type listClassesResponse struct {
	Classes []domain.Class `json:"classes"`
}

// Classes handles GET /v1/classes — the catalog the student can enroll in.
//
// @Summary      List available classes
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listClassesResponse
// @Router       /v1/classes [get]
func (h *EnrollmentHandler) Classes(c echo.Context) error {
	classes, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listClassesResponse{Classes: classes})
}

// List handles GET /v1/enrollments — the caller's active enrollments.
//
// @Summary      List my enrollments
// @Tags         enrollments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listEnrollmentsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/enrollments [get]
func (h *EnrollmentHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	enrollments, err := h.service.ListMyEnrollments(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	if enrollments == nil {
		enrollments = []domain.Enrollment{}
	}
	return c.JSON(http.StatusOK, listEnrollmentsResponse{Enrollments: enrollments})
}

// Enroll handles POST /v1/enrollments. Enrolling in a class the caller is
// already in returns 200 with already_enrolled set, not an error.
//
// @Summary      Enroll in a class
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      enrollRequest  true  "Class to enroll in"
// @Success      200   {object}  enrollResponse
// @Success      201   {object}  enrollResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/enrollments [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Enroll(c.Request().Context(), identity, ports.EnrollInput{
		ClassID: req.ClassID,
		Origin:  c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			metrics.EnrollmentsTotal.WithLabelValues("enroll", "rate_limited").Inc()
			metrics.RateLimitedTotal.WithLabelValues("enroll").Inc()
		case errors.Is(err, domain.ErrClassNotFound):
			metrics.EnrollmentsTotal.WithLabelValues("enroll", "not_found").Inc()
		default:
			metrics.EnrollmentsTotal.WithLabelValues("enroll", "error").Inc()
		}
		return err
	}

	status := http.StatusCreated
	result := "ok"
	if res.AlreadyEnrolled {
		status = http.StatusOK
		result = "already_enrolled"
	}
	metrics.EnrollmentsTotal.WithLabelValues("enroll", result).Inc()

	return c.JSON(status, enrollResponse{Enrollment: res.Enrollment, AlreadyEnrolled: res.AlreadyEnrolled})
}

// Unenroll handles DELETE /v1/enrollments/:class. The path segment is the
// class ID or its display name; both are accepted lookup keys.
//
// @Summary      Drop a class
// @Tags         enrollments
// @Produce      json
// @Security     BearerAuth
// @Param        class  path  string  true  "Class ID or display name"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/enrollments/{class} [delete]
func (h *EnrollmentHandler) Unenroll(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	classKey := c.Param("class")
	if classKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "class is required")
	}

	if err := h.service.Unenroll(c.Request().Context(), identity, classKey); err != nil {
		if errors.Is(err, domain.ErrNotEnrolled) {
			metrics.EnrollmentsTotal.WithLabelValues("drop", "not_enrolled").Inc()
		} else {
			metrics.EnrollmentsTotal.WithLabelValues("drop", "error").Inc()
		}
		return err
	}

	metrics.EnrollmentsTotal.WithLabelValues("drop", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}

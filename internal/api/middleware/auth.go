package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/campusreg/registration-system/internal/core/domain"
)

// Context keys the session gate populates for downstream handlers.
const (
	CtxEmail     = "email"
	CtxName      = "name"
	CtxStudentID = "student_id"
)

// Auth is the session gate: it validates the bearer token and injects the
// resolved identity into the request context. Every failure mode — missing
// header, malformed token, wrong algorithm, expired claims, incomplete
// identity — collapses to the same 401 with no distinguishing detail.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := resolve(c, jwtSecret)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(CtxEmail, identity.Email)
			c.Set(CtxName, identity.Name)
			c.Set(CtxStudentID, identity.StudentID)

			return next(c)
		}
	}
}

// resolve extracts and verifies the token, returning the full identity triple
// or nothing.
func resolve(c echo.Context, jwtSecret string) (domain.Identity, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return domain.Identity{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Identity{}, false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.Identity{}, false
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	studentID, _ := claims["student_id"].(string)

	identity := domain.Identity{
		Email:     domain.NormalizeEmail(email),
		Name:      name,
		StudentID: studentID,
	}
	if !identity.Complete() {
		return domain.Identity{}, false
	}
	return identity, true
}

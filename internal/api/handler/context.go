package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/campusreg/registration-system/internal/api/middleware"
	"github.com/campusreg/registration-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware,
// requiring the full triple. A partial or missing identity means the request
// reached a protected handler without passing the gate; reject it before any
// service call.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := tryIdentity(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return identity, nil
}

// tryIdentity is the non-failing variant: it reports whether a complete
// identity is present without raising.
func tryIdentity(c echo.Context) (domain.Identity, bool) {
	email, _ := c.Get(middleware.CtxEmail).(string)
	name, _ := c.Get(middleware.CtxName).(string)
	studentID, _ := c.Get(middleware.CtxStudentID).(string)

	identity := domain.Identity{Email: email, Name: name, StudentID: studentID}
	if !identity.Complete() {
		return domain.Identity{}, false
	}
	return identity, true
}

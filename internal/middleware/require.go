package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
)

// CallerIdentity resolves the authenticated caller from the context values
// stored by JWTAuth or OptionalJWT. The second return is false for
// anonymous requests.
func CallerIdentity(c echo.Context) (access.Identity, bool) {
	id, okID := c.Get(CtxUserID).(uint64)
	role, okRole := c.Get(CtxRole).(access.Role)
	if !okID || !okRole || id == 0 {
		return access.Identity{}, false
	}
	return access.Identity{ID: id, Role: role}, true
}

// Require returns middleware that gates a route on the rule table's role
// set for op. Ownership checks for owner-scoped operations still happen in
// the handler, which knows the target row; this gate rejects callers whose
// role could never pass so those requests never touch the database.
func Require(op access.Operation) echo.MiddlewareFunc {
	required := access.RequiredRoles(op)
	allowed := make(map[access.Role]bool, len(required))
	for _, r := range required {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CallerIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": access.ErrUnauthenticated.Error()})
			}
			if !allowed[id.Role] {
				denied := &access.DeniedError{Op: op, Required: required, Actual: id.Role}
				return c.JSON(http.StatusForbidden, echo.Map{"error": denied.Error()})
			}
			return next(c)
		}
	}
}

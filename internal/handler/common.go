// Package handler contains the HTTP endpoint implementations. Handlers
// bind request bodies, resolve the caller through the middleware context,
// run the authorization and moderation cores, and translate domain errors
// to HTTP responses.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/middleware"
	"github.com/tudduke/ministry-platform/internal/moderation"
	"github.com/tudduke/ministry-platform/internal/repository"
)

// reqTimeout bounds every database interaction started from a handler.
const reqTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), reqTimeout)
}

// caller resolves the authenticated identity or writes a 401. The bool
// reports whether the handler should continue.
func caller(c echo.Context) (access.Identity, bool) {
	id, ok := middleware.CallerIdentity(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": access.ErrUnauthenticated.Error()})
		return access.Identity{}, false
	}
	return id, true
}

// pathID parses the named path parameter as a positive id.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// queryLimit reads an optional ?limit= parameter clamped to [1, max],
// falling back to def when absent or unparsable.
func queryLimit(c echo.Context, def, max int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// writeDomainErr maps core and repository errors to HTTP responses. The
// fallback message is used for unrecognized errors so internals never leak.
func writeDomainErr(c echo.Context, err error, fallback string) error {
	var denied *access.DeniedError
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.As(err, &denied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": denied.Error()})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, moderation.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	case errors.Is(err, moderation.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	case errors.Is(err, moderation.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "status transition not allowed"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}

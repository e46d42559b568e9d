// Package middleware contains reusable Echo middleware: JWT authentication,
// rule-table authorization, Redis response caching, and rate limiting.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
)

// Context keys set by the authentication middleware and read by handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth returns middleware that validates a Bearer access token and
// stores the caller's id and role in the request context. The secret must
// match the one used when issuing tokens. Requests without a valid token
// are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, role, err := parseBearer(c, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			c.Set(CtxUserID, id)
			c.Set(CtxRole, role)
			return next(c)
		}
	}
}

// OptionalJWT resolves the caller when a valid token is present but lets
// anonymous requests through untouched. Used on public engagement routes
// where a signed-in viewer should be recorded but a guest still served.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, role, err := parseBearer(c, secret); err == nil {
				c.Set(CtxUserID, id)
				c.Set(CtxRole, role)
			}
			return next(c)
		}
	}
}

// parseBearer extracts and validates the Authorization header, returning
// the subject id and role from the claims. Tokens signed with anything but
// HMAC, carrying an unknown role, or with a malformed subject are rejected.
func parseBearer(c echo.Context, secret string) (uint64, access.Role, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", errMissingToken
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errInvalidToken
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, "", errInvalidToken
	}
	rawRole, _ := claims["role"].(string)
	role, ok := access.ParseRole(rawRole)
	if !ok {
		return 0, "", errInvalidToken
	}
	return id, role, nil
}

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

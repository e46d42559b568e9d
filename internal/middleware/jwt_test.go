package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/utils"
)

const testSecret = "unit-test-secret"

func handlerEcho(c echo.Context) error {
	id, ok := CallerIdentity(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"anon": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id.ID, "role": string(id.Role)})
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(handlerEcho)(c)
	require.NoError(t, err)
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "preacher", 5)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)
	assert.Contains(t, rec.Body.String(), `"role":"preacher"`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := doRequest(t, JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "preacher", 5)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthUnknownRoleRejected(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "superuser", 5)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWTAnonymousPasses(t *testing.T) {
	rec := doRequest(t, OptionalJWT(testSecret), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"anon":true`)
}

func TestOptionalJWTResolvesCaller(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 11, "kid", 5)
	require.NoError(t, err)

	rec := doRequest(t, OptionalJWT(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":11`)
}

func TestRequireDeniesWrongRole(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 3, "kid", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/sermons", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := JWTAuth(testSecret)(Require(access.OpCreateSermon)(handlerEcho))
	require.NoError(t, chain(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "create-sermon requires role preacher or admin")
	assert.Contains(t, rec.Body.String(), "caller has role kid")
}

func TestRequireAllowsListedRole(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 3, "admin", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/sermons", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := JWTAuth(testSecret)(Require(access.OpCreateSermon)(handlerEcho))
	require.NoError(t, chain(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUnauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/sermons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Require(access.OpCreateSermon)(handlerEcho)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

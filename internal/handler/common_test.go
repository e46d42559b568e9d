package handler

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/middleware"
)

// newTestContext builds an echo context the way the router would hand it
// to a handler: JSON body bound, identity context values populated when
// the caller is signed in.
func newTestContext(t *testing.T, method, target, body string, id *access.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		c.Set(middleware.CtxUserID, id.ID)
		c.Set(middleware.CtxRole, id.Role)
	}
	return c, rec
}

// newMockDB returns a sqlmock-backed connection and asserts at cleanup
// that every scripted statement ran.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

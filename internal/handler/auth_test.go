package handler

import (
	"net/http"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/config"
	"github.com/tudduke/ministry-platform/internal/repository"
	"github.com/tudduke/ministry-platform/internal/utils"
)

func userRow(id uint64, role string, verified bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "full_name", "email", "password_hash", "role", "is_verified",
		"guardian_name", "guardian_phone", "profile_image", "created_at",
	}).AddRow(id, "Pat Doe", "pat@example.org", "x", role, verified, nil, nil, nil, time.Now())
}

func refreshRow(userID uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, time.Now().Add(24*time.Hour), nil)
}

func newAuthMock(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	cfg := config.Config{JWTSecret: "unit-test-secret", AccessTTLMin: 5, RefreshTTLDays: 7}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func TestRefreshAccessRejectsUnverified(t *testing.T) {
	// A valid refresh token must stop minting access tokens the moment
	// the account loses verification, same as login and rotate.
	h, mock := newAuthMock(t)
	hash := utils.HashRefreshRaw("some-refresh-token")

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WithArgs(hash).
		WillReturnRows(refreshRow(5))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(5).
		WillReturnRows(userRow(5, "teacher", false))

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/refresh-access",
		`{"refresh_token":"some-refresh-token"}`, nil)

	require.NoError(t, h.RefreshAccess(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "account pending verification")
	assert.NotContains(t, rec.Body.String(), `"access"`)
}

func TestRefreshAccessIssuesTokenForVerified(t *testing.T) {
	h, mock := newAuthMock(t)
	hash := utils.HashRefreshRaw("some-refresh-token")

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WithArgs(hash).
		WillReturnRows(refreshRow(5))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(5).
		WillReturnRows(userRow(5, "teacher", true))

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/refresh-access",
		`{"refresh_token":"some-refresh-token"}`, nil)

	require.NoError(t, h.RefreshAccess(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access"`)
}

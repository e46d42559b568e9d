package handler

import (
	"net/http"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/repository"
)

func sermonRow(viewCount uint64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "scripture", "body", "owner_id", "status",
		"view_count", "verified_by", "created_at",
	}).AddRow(5, "Grace", "Eph 2:8", "body", 2, status, viewCount, nil, time.Now())
}

func TestViewSermonReportsStoredCount(t *testing.T) {
	// The response must carry the counter as stored after the bump, not
	// the pre-increment read plus one: here two other viewers land
	// between our read and our re-read.
	db, mock := newMockDB(t)
	h := NewEngagementHandler(
		repository.NewEngagementRepo(db),
		repository.NewSermonRepo(db), nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM sermons WHERE id=").
		WithArgs(5).
		WillReturnRows(sermonRow(10, "approved"))
	mock.ExpectExec("UPDATE sermons SET view_count").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM sermons WHERE id=").
		WithArgs(5).
		WillReturnRows(sermonRow(13, "approved"))

	c, rec := newTestContext(t, http.MethodPost, "/v1/sermons/5/view", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.ViewSermon(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"view_count":13`)
}

func TestViewSermonHidesPending(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewEngagementHandler(
		repository.NewEngagementRepo(db),
		repository.NewSermonRepo(db), nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM sermons WHERE id=").
		WithArgs(5).
		WillReturnRows(sermonRow(10, "pending"))

	c, rec := newTestContext(t, http.MethodPost, "/v1/sermons/5/view", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.ViewSermon(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

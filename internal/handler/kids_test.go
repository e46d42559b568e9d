package handler

import (
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/repository"
)

func TestCreateVersePersistsWithAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewKidsHandler(repository.NewKidsRepo(db))

	mock.ExpectExec("INSERT INTO memory_verses").
		WithArgs("Psalm 23:1", "The Lord is my shepherd", "Monday", 3).
		WillReturnResult(sqlmock.NewResult(11, 1))

	teacher := &access.Identity{ID: 3, Role: access.RoleTeacher}
	c, rec := newTestContext(t, http.MethodPost, "/v1/kids/verses",
		`{"reference":"Psalm 23:1","text":"The Lord is my shepherd","day_of_week":"monday"}`, teacher)

	require.NoError(t, h.CreateVerse(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":11`)
	assert.Contains(t, rec.Body.String(), `"day_of_week":"Monday"`)
	assert.Contains(t, rec.Body.String(), `"created_by":3`)
}

func TestCreateVerseDeniedForKid(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewKidsHandler(repository.NewKidsRepo(db))

	kid := &access.Identity{ID: 9, Role: access.RoleKid}
	c, rec := newTestContext(t, http.MethodPost, "/v1/kids/verses",
		`{"reference":"Psalm 23:1","text":"The Lord is my shepherd"}`, kid)

	require.NoError(t, h.CreateVerse(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "manage-verses requires role teacher or admin")
}

func TestCreateVerseRejectsBadWeekday(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewKidsHandler(repository.NewKidsRepo(db))

	teacher := &access.Identity{ID: 3, Role: access.RoleTeacher}
	c, rec := newTestContext(t, http.MethodPost, "/v1/kids/verses",
		`{"reference":"Psalm 23:1","text":"The Lord is my shepherd","day_of_week":"Funday"}`, teacher)

	require.NoError(t, h.CreateVerse(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "day_of_week")
}

func TestCreateQuestionRejectsBadAnswerIndex(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewKidsHandler(repository.NewKidsRepo(db))

	admin := &access.Identity{ID: 1, Role: access.RoleAdmin}
	c, rec := newTestContext(t, http.MethodPost, "/v1/kids/quiz",
		`{"question":"Who built the ark?","options":["Noah","Moses"],"answer_index":2}`, admin)

	require.NoError(t, h.CreateQuestion(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "answer_index")
}

func TestSetQuestionActiveRequiresFlag(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewKidsHandler(repository.NewKidsRepo(db))

	admin := &access.Identity{ID: 1, Role: access.RoleAdmin}
	c, rec := newTestContext(t, http.MethodPatch, "/v1/kids/quiz/7/active", `{}`, admin)
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.SetQuestionActive(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "active required")
}

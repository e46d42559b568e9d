package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/model"
)

func newKidsMock(t *testing.T) (*KidsRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKidsRepo(db), mock
}

func TestCreateVerseRecordsAuthor(t *testing.T) {
	repo, mock := newKidsMock(t)
	author := uint64(4)
	mock.ExpectExec("INSERT INTO memory_verses").
		WithArgs("John 3:16", "For God so loved the world", "Sunday", author).
		WillReturnResult(sqlmock.NewResult(11, 1))

	v := model.MemoryVerse{
		Reference: "John 3:16",
		Text:      "For God so loved the world",
		DayOfWeek: "Sunday",
		CreatedBy: &author,
	}
	require.NoError(t, repo.CreateVerse(context.Background(), &v))
	assert.Equal(t, uint64(11), v.ID)
	assert.True(t, v.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuestionEncodesOptions(t *testing.T) {
	repo, mock := newKidsMock(t)
	mock.ExpectExec("INSERT INTO quiz_questions").
		WithArgs("Who built the ark?", []byte(`["Noah","Moses","David"]`), 0).
		WillReturnResult(sqlmock.NewResult(7, 1))

	q := model.QuizQuestion{
		Question:    "Who built the ark?",
		Options:     []string{"Noah", "Moses", "David"},
		AnswerIndex: 0,
	}
	require.NoError(t, repo.CreateQuestion(context.Background(), &q))
	assert.Equal(t, uint64(7), q.ID)
	assert.True(t, q.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetVerseActiveRetires(t *testing.T) {
	repo, mock := newKidsMock(t)
	mock.ExpectExec("UPDATE memory_verses SET is_active").
		WithArgs(false, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetVerseActive(context.Background(), 9, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetQuestionActiveMissingRow(t *testing.T) {
	// Zero rows affected and no row behind the probe means the question
	// does not exist, not that the flag was already set.
	repo, mock := newKidsMock(t)
	mock.ExpectExec("UPDATE quiz_questions SET is_active").
		WithArgs(true, 404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM quiz_questions").
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	assert.ErrorIs(t, repo.SetQuestionActive(context.Background(), 404, true), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

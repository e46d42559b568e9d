package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/moderation"
)

func newEngagementMock(t *testing.T) (*EngagementRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEngagementRepo(db), mock
}

func TestToggleLikeRemovesExistingLike(t *testing.T) {
	repo, mock := newEngagementMock(t)
	mock.ExpectExec("DELETE FROM sermon_likes").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo.ToggleLike(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeInsertsWhenAbsent(t *testing.T) {
	repo, mock := newEngagementMock(t)
	mock.ExpectExec("DELETE FROM sermon_likes").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO sermon_likes").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(1, 1))

	liked, err := repo.ToggleLike(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeFoldsDuplicateKeyRace(t *testing.T) {
	// Two concurrent toggles on an unliked sermon: both deletes miss, the
	// loser's insert hits the UNIQUE(sermon_id, user_id) index. That loser
	// must still see liked=true with no error.
	repo, mock := newEngagementMock(t)
	mock.ExpectExec("DELETE FROM sermon_likes").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO sermon_likes").
		WithArgs(3, 7).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3-7' for key 'sermon_likes.uniq_pair'"})

	liked, err := repo.ToggleLike(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikePairIsIdempotent(t *testing.T) {
	// like then unlike lands back at the starting state.
	repo, mock := newEngagementMock(t)
	mock.ExpectExec("DELETE FROM sermon_likes").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO sermon_likes").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM sermon_likes").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo.ToggleLike(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.ToggleLike(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViewBumpsRow(t *testing.T) {
	repo, mock := newEngagementMock(t)
	mock.ExpectExec("UPDATE sermons SET view_count").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementView(context.Background(), moderation.TypeSermon, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViewMissingRow(t *testing.T) {
	repo, mock := newEngagementMock(t)
	mock.ExpectExec("UPDATE sermons SET view_count").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.IncrementView(context.Background(), moderation.TypeSermon, 5), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViewRejectsEvents(t *testing.T) {
	// Events have no view counter; no SQL may run at all.
	repo, mock := newEngagementMock(t)
	assert.ErrorIs(t, repo.IncrementView(context.Background(), moderation.TypeEvent, 5), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

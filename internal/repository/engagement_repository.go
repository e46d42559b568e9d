package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/moderation"
)

// EngagementRepo records views, likes and quiz results and reads them back
// for aggregation. View and like writes lean on the storage layer's atomic
// primitives: counter bumps are single UPDATE statements and the like
// toggle is backed by a UNIQUE(sermon_id, user_id) index, so concurrent
// requests cannot lose updates or create duplicates.
type EngagementRepo struct{ DB *sql.DB }

func NewEngagementRepo(db *sql.DB) *EngagementRepo { return &EngagementRepo{DB: db} }

// IncrementView bumps the view counter of one content item atomically.
// Each call is one view; repeated calls increment repeatedly on purpose.
func (r *EngagementRepo) IncrementView(ctx context.Context, t moderation.ContentType, id uint64) error {
	table, ok := moderatedTable(t)
	if !ok || t == moderation.TypeEvent {
		// Events carry no view counter.
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE "+table+" SET view_count = view_count + 1 WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordView appends a resource_views row for an authenticated viewer.
// Rows are never updated afterwards.
func (r *EngagementRepo) RecordView(ctx context.Context, userID uint64, resourceType string, resourceID *uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO resource_views (user_id, resource_type, resource_id) VALUES (?,?,?)",
		userID, resourceType, resourceID)
	return err
}

// ToggleLike flips the like state for a (user, sermon) pair and reports
// the resulting state. Delete-then-insert keeps the pair binary: when two
// toggles race, both deletes miss, one insert wins and the loser's
// duplicate-key error is folded into "liked" — at most one row ever
// exists and neither caller sees a failure.
func (r *EngagementRepo) ToggleLike(ctx context.Context, sermonID, userID uint64) (liked bool, err error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM sermon_likes WHERE sermon_id=? AND user_id=?", sermonID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO sermon_likes (sermon_id, user_id) VALUES (?,?)", sermonID, userID)
	if err != nil {
		if isDuplicate(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// CountLikes returns the number of likes on a sermon.
func (r *EngagementRepo) CountLikes(ctx context.Context, sermonID uint64) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sermon_likes WHERE sermon_id=?", sermonID).Scan(&n)
	return n, err
}

// HasLiked reports whether the user currently likes the sermon.
func (r *EngagementRepo) HasLiked(ctx context.Context, sermonID, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM sermon_likes WHERE sermon_id=? AND user_id=? LIMIT 1",
		sermonID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// InsertQuizResult appends one quiz attempt.
func (r *EngagementRepo) InsertQuizResult(ctx context.Context, kidID uint64, score, total int) (model.QuizResult, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO quiz_results (kid_id, score, total) VALUES (?,?,?)", kidID, score, total)
	if err != nil {
		return model.QuizResult{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.QuizResult{}, err
	}
	var out model.QuizResult
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, kid_id, score, total, taken_at FROM quiz_results WHERE id=?", id).
		Scan(&out.ID, &out.KidID, &out.Score, &out.Total, &out.TakenAt)
	return out, err
}

// QuizAttemptsByKid returns one kid's attempts, newest first.
func (r *EngagementRepo) QuizAttemptsByKid(ctx context.Context, kidID uint64) ([]model.QuizResult, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, kid_id, score, total, taken_at FROM quiz_results WHERE kid_id=? ORDER BY taken_at DESC",
		kidID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.QuizResult, 0)
	for rows.Next() {
		var q model.QuizResult
		if err := rows.Scan(&q.ID, &q.KidID, &q.Score, &q.Total, &q.TakenAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ViewTimesSince returns the timestamps of all view events at or after
// since, for histogram bucketing.
func (r *EngagementRepo) ViewTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return r.timesSince(ctx, "SELECT viewed_at FROM resource_views WHERE viewed_at >= ?", since)
}

// QuizTimesSince returns the timestamps of quiz attempts at or after since.
func (r *EngagementRepo) QuizTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return r.timesSince(ctx, "SELECT taken_at FROM quiz_results WHERE taken_at >= ?", since)
}

func (r *EngagementRepo) timesSince(ctx context.Context, q string, since time.Time) ([]time.Time, error) {
	rows, err := r.DB.QueryContext(ctx, q, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ViewerIDsSince returns the user id of every view event, optionally
// windowed. Deduplication is left to the stats reducers.
func (r *EngagementRepo) ViewerIDsSince(ctx context.Context, since *time.Time) ([]uint64, error) {
	q := "SELECT user_id FROM resource_views"
	var args []any
	if since != nil {
		q += " WHERE viewed_at >= ?"
		args = append(args, since.UTC())
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

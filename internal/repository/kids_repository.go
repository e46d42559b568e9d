package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/tudduke/ministry-platform/internal/model"
)

// KidsRepo serves the kids corner: memory verses and quiz questions.
// Reads surface active rows only; authoring (teacher/admin) works against
// all rows and retires content by flipping is_active rather than deleting,
// so quiz history keeps pointing at real questions.
type KidsRepo struct{ DB *sql.DB }

func NewKidsRepo(db *sql.DB) *KidsRepo { return &KidsRepo{DB: db} }

const verseCols = "id, reference, text, day_of_week, created_by, is_active, created_at"

// DailyVerse returns the active verse assigned to the given weekday
// ("Monday".."Sunday"). When none is assigned, it falls back to a random
// active verse so the kids page is never empty; with no active verses at
// all it returns ErrNotFound.
func (r *KidsRepo) DailyVerse(ctx context.Context, weekday string) (model.MemoryVerse, error) {
	const q = "SELECT " + verseCols + " FROM memory_verses WHERE day_of_week=? AND is_active=1 LIMIT 1"
	v, err := r.scanVerse(r.DB.QueryRowContext(ctx, q, weekday))
	if err == nil {
		return v, nil
	}
	if err != sql.ErrNoRows {
		return model.MemoryVerse{}, err
	}
	const fallback = "SELECT " + verseCols + " FROM memory_verses WHERE is_active=1 ORDER BY RAND() LIMIT 1"
	v, err = r.scanVerse(r.DB.QueryRowContext(ctx, fallback))
	if err == sql.ErrNoRows {
		return model.MemoryVerse{}, ErrNotFound
	}
	return v, err
}

// ListActiveVerses returns every active memory verse, newest first.
func (r *KidsRepo) ListActiveVerses(ctx context.Context) ([]model.MemoryVerse, error) {
	return r.listVerses(ctx,
		"SELECT "+verseCols+" FROM memory_verses WHERE is_active=1 ORDER BY created_at DESC")
}

// ListAllVerses returns every verse including retired ones, newest first.
// This is the authoring view.
func (r *KidsRepo) ListAllVerses(ctx context.Context) ([]model.MemoryVerse, error) {
	return r.listVerses(ctx,
		"SELECT "+verseCols+" FROM memory_verses ORDER BY created_at DESC")
}

// GetVerse fetches one verse regardless of active state.
func (r *KidsRepo) GetVerse(ctx context.Context, id uint64) (model.MemoryVerse, error) {
	v, err := r.scanVerse(r.DB.QueryRowContext(ctx,
		"SELECT "+verseCols+" FROM memory_verses WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.MemoryVerse{}, ErrNotFound
	}
	return v, err
}

// CreateVerse inserts an active verse and records its author.
func (r *KidsRepo) CreateVerse(ctx context.Context, v *model.MemoryVerse) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO memory_verses (reference, text, day_of_week, created_by, is_active) VALUES (?,?,?,?,1)",
		v.Reference, v.Text, v.DayOfWeek, v.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	v.IsActive = true
	return nil
}

// UpdateVerse rewrites the text fields of a verse. Author and active state
// are untouched here.
func (r *KidsRepo) UpdateVerse(ctx context.Context, id uint64, reference, text, dayOfWeek string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE memory_verses SET reference=?, text=?, day_of_week=? WHERE id=?",
		reference, text, dayOfWeek, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM memory_verses WHERE id=?", id)
}

// SetVerseActive activates or retires a verse.
func (r *KidsRepo) SetVerseActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE memory_verses SET is_active=? WHERE id=?", active, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM memory_verses WHERE id=?", id)
}

func (r *KidsRepo) listVerses(ctx context.Context, q string) ([]model.MemoryVerse, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MemoryVerse, 0)
	for rows.Next() {
		v, err := r.scanVerse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *KidsRepo) scanVerse(row interface{ Scan(...any) error }) (model.MemoryVerse, error) {
	var v model.MemoryVerse
	err := row.Scan(&v.ID, &v.Reference, &v.Text, &v.DayOfWeek, &v.CreatedBy, &v.IsActive, &v.CreatedAt)
	return v, err
}

// ListActiveQuestions returns the active quiz questions. Options are
// stored as a JSON array column and decoded here.
func (r *KidsRepo) ListActiveQuestions(ctx context.Context) ([]model.QuizQuestion, error) {
	return r.listQuestions(ctx,
		"SELECT id, question, options, answer_index, is_active FROM quiz_questions WHERE is_active=1 ORDER BY id")
}

// ListAllQuestions returns every question including retired ones, for the
// authoring view.
func (r *KidsRepo) ListAllQuestions(ctx context.Context) ([]model.QuizQuestion, error) {
	return r.listQuestions(ctx,
		"SELECT id, question, options, answer_index, is_active FROM quiz_questions ORDER BY id")
}

// GetQuestion fetches one quiz question regardless of active state.
func (r *KidsRepo) GetQuestion(ctx context.Context, id uint64) (model.QuizQuestion, error) {
	var q model.QuizQuestion
	var rawOptions []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, question, options, answer_index, is_active FROM quiz_questions WHERE id=? LIMIT 1", id).
		Scan(&q.ID, &q.Question, &rawOptions, &q.AnswerIndex, &q.IsActive)
	if err == sql.ErrNoRows {
		return model.QuizQuestion{}, ErrNotFound
	}
	if err != nil {
		return model.QuizQuestion{}, err
	}
	if len(rawOptions) > 0 {
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return model.QuizQuestion{}, err
		}
	}
	return q, nil
}

// CreateQuestion inserts an active question. Options are encoded to the
// JSON column here.
func (r *KidsRepo) CreateQuestion(ctx context.Context, q *model.QuizQuestion) error {
	rawOptions, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO quiz_questions (question, options, answer_index, is_active) VALUES (?,?,?,1)",
		q.Question, rawOptions, q.AnswerIndex)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = uint64(id)
	q.IsActive = true
	return nil
}

// UpdateQuestion rewrites the question, its options and the answer index.
func (r *KidsRepo) UpdateQuestion(ctx context.Context, id uint64, question string, options []string, answerIndex int) error {
	rawOptions, err := json.Marshal(options)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE quiz_questions SET question=?, options=?, answer_index=? WHERE id=?",
		question, rawOptions, answerIndex, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM quiz_questions WHERE id=?", id)
}

// SetQuestionActive activates or retires a question.
func (r *KidsRepo) SetQuestionActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE quiz_questions SET is_active=? WHERE id=?", active, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM quiz_questions WHERE id=?", id)
}

func (r *KidsRepo) listQuestions(ctx context.Context, query string) ([]model.QuizQuestion, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.QuizQuestion, 0)
	for rows.Next() {
		var q model.QuizQuestion
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.Question, &rawOptions, &q.AnswerIndex, &q.IsActive); err != nil {
			return nil, err
		}
		if len(rawOptions) > 0 {
			if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
				return nil, err
			}
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

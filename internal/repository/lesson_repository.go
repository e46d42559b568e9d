package repository

import (
	"context"
	"database/sql"

	"github.com/tudduke/ministry-platform/internal/model"
)

// LessonRepo provides access to weekly kids lessons. Lessons are not
// moderated: they are authored by trusted roles and go live immediately.
type LessonRepo struct{ DB *sql.DB }

func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{DB: db} }

const lessonCols = "id, week_number, title, content, owner_id, created_at"

func scanLesson(row interface{ Scan(...any) error }) (model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(&l.ID, &l.WeekNumber, &l.Title, &l.Content, &l.OwnerID, &l.CreatedAt)
	return l, err
}

// Create inserts a lesson and returns it with its id populated.
func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO lessons (week_number, title, content, owner_id) VALUES (?,?,?,?)",
		l.WeekNumber, l.Title, l.Content, l.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID fetches one lesson.
func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (model.Lesson, error) {
	l, err := scanLesson(r.DB.QueryRowContext(ctx,
		"SELECT "+lessonCols+" FROM lessons WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Lesson{}, ErrNotFound
	}
	return l, err
}

// List returns lessons newest week first.
func (r *LessonRepo) List(ctx context.Context) ([]model.Lesson, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+lessonCols+" FROM lessons ORDER BY week_number DESC, created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of a lesson.
func (r *LessonRepo) Update(ctx context.Context, id uint64, weekNumber int, title, content string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE lessons SET week_number=?, title=?, content=? WHERE id=?",
		weekNumber, title, content, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM lessons WHERE id=?", id)
}

// Delete removes a lesson.
func (r *LessonRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM lessons WHERE id=?", id)
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

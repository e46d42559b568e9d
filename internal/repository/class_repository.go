package repository

import (
	"context"
	"database/sql"

	"github.com/tudduke/ministry-platform/internal/model"
)

// ClassRepo reads Sabbath school class rosters. Rosters are a read-only
// aggregation here: the core consults them for notification fan-out and
// dashboards, while membership itself is managed out of band.
type ClassRepo struct{ DB *sql.DB }

func NewClassRepo(db *sql.DB) *ClassRepo { return &ClassRepo{DB: db} }

const classCols = "id, name, age_group, teacher_id, created_at"

func scanClass(row interface{ Scan(...any) error }) (model.Class, error) {
	var c model.Class
	var ageGroup sql.NullString
	err := row.Scan(&c.ID, &c.Name, &ageGroup, &c.TeacherID, &c.CreatedAt)
	if err != nil {
		return model.Class{}, err
	}
	c.AgeGroup = ageGroup.String
	return c, nil
}

// GetByID fetches one class.
func (r *ClassRepo) GetByID(ctx context.Context, id uint64) (model.Class, error) {
	c, err := scanClass(r.DB.QueryRowContext(ctx,
		"SELECT "+classCols+" FROM classes WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Class{}, ErrNotFound
	}
	return c, err
}

// ListAll returns every class, for the admin view.
func (r *ClassRepo) ListAll(ctx context.Context) ([]model.Class, error) {
	return r.list(ctx, "SELECT "+classCols+" FROM classes ORDER BY name")
}

// ListByTeacher returns the classes one teacher owns.
func (r *ClassRepo) ListByTeacher(ctx context.Context, teacherID uint64) ([]model.Class, error) {
	return r.list(ctx, "SELECT "+classCols+" FROM classes WHERE teacher_id=? ORDER BY name", teacherID)
}

func (r *ClassRepo) list(ctx context.Context, q string, args ...any) ([]model.Class, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Class, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MemberIDs returns the user ids on a class roster, for notification
// fan-out.
func (r *ClassRepo) MemberIDs(ctx context.Context, classID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM class_members WHERE class_id=? ORDER BY user_id", classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package repository

import (
	"context"
	"database/sql"

	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/moderation"
)

// SermonRepo provides access to the sermons table. Moderation status is
// written only through the ModerationStore; this repo assigns the initial
// status at creation and never transitions it.
type SermonRepo struct{ DB *sql.DB }

func NewSermonRepo(db *sql.DB) *SermonRepo { return &SermonRepo{DB: db} }

const sermonCols = "id, title, scripture, body, owner_id, status, view_count, verified_by, created_at"

func scanSermon(row interface{ Scan(...any) error }) (model.Sermon, error) {
	var s model.Sermon
	var status string
	err := row.Scan(&s.ID, &s.Title, &s.Scripture, &s.Body, &s.OwnerID,
		&status, &s.ViewCount, &s.VerifiedBy, &s.CreatedAt)
	if err != nil {
		return model.Sermon{}, err
	}
	s.Status = moderation.Status(status)
	return s, nil
}

// Create inserts a sermon with the given initial status and returns its id.
// The owner reference is immutable after this point.
func (r *SermonRepo) Create(ctx context.Context, s *model.Sermon) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sermons (title, scripture, body, owner_id, status) VALUES (?,?,?,?,?)",
		s.Title, s.Scripture, s.Body, s.OwnerID, string(s.Status))
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a sermon regardless of status. Callers decide whether
// the requester may see a non-approved item.
func (r *SermonRepo) GetByID(ctx context.Context, id uint64) (model.Sermon, error) {
	s, err := scanSermon(r.DB.QueryRowContext(ctx,
		"SELECT "+sermonCols+" FROM sermons WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Sermon{}, ErrNotFound
	}
	return s, err
}

// ListApproved returns approved sermons, newest first. This is the only
// list the public read path uses.
func (r *SermonRepo) ListApproved(ctx context.Context, limit int) ([]model.Sermon, error) {
	return r.list(ctx,
		"SELECT "+sermonCols+" FROM sermons WHERE status=? ORDER BY created_at DESC LIMIT ?",
		string(moderation.StatusApproved), limit)
}

// ListByOwner returns every sermon of one owner in all statuses, for the
// owner's own dashboard.
func (r *SermonRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Sermon, error) {
	return r.list(ctx,
		"SELECT "+sermonCols+" FROM sermons WHERE owner_id=? ORDER BY created_at DESC", ownerID)
}

// ListByStatus returns sermons in one moderation status, oldest first, for
// the admin review views.
func (r *SermonRepo) ListByStatus(ctx context.Context, status moderation.Status) ([]model.Sermon, error) {
	return r.list(ctx,
		"SELECT "+sermonCols+" FROM sermons WHERE status=? ORDER BY created_at ASC",
		string(status))
}

func (r *SermonRepo) list(ctx context.Context, q string, args ...any) ([]model.Sermon, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Sermon, 0)
	for rows.Next() {
		s, err := scanSermon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of a sermon. Ownership must already
// have been authorized; owner_id and status are deliberately absent from
// the SET list.
func (r *SermonRepo) Update(ctx context.Context, id uint64, title, scripture, body string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sermons SET title=?, scripture=?, body=? WHERE id=?",
		title, scripture, body, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM sermons WHERE id=?", id)
}

// Delete removes a sermon; comments and likes go with it via FK cascade.
func (r *SermonRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sermons WHERE id=?", id)
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

// requireRow maps a zero-rows-affected update to ErrNotFound when the row
// is truly absent. An update that matched but changed nothing is fine.
func requireRow(ctx context.Context, db *sql.DB, res sql.Result, probe string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	if err := db.QueryRowContext(ctx, probe, args...).Scan(&one); err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return nil
}

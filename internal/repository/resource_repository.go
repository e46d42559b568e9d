package repository

import (
	"context"
	"database/sql"

	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/moderation"
)

// ResourceRepo provides access to the resources table, which holds both
// teacher and preacher shelf uploads discriminated by the audience column.
type ResourceRepo struct{ DB *sql.DB }

func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{DB: db} }

const resourceCols = "id, title, kind, audience, file_key, description, owner_id, status, view_count, verified_by, created_at"

func scanResource(row interface{ Scan(...any) error }) (model.Resource, error) {
	var res model.Resource
	var audience, status string
	err := row.Scan(&res.ID, &res.Title, &res.Kind, &audience, &res.FileKey,
		&res.Description, &res.OwnerID, &status, &res.ViewCount, &res.VerifiedBy, &res.CreatedAt)
	if err != nil {
		return model.Resource{}, err
	}
	res.Audience = model.ResourceAudience(audience)
	res.Status = moderation.Status(status)
	return res, nil
}

// Create inserts a resource with its initial moderation status.
func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
	out, err := r.DB.ExecContext(ctx,
		"INSERT INTO resources (title, kind, audience, file_key, description, owner_id, status) VALUES (?,?,?,?,?,?,?)",
		res.Title, res.Kind, string(res.Audience), res.FileKey, res.Description, res.OwnerID, string(res.Status))
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID fetches a resource in any status.
func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (model.Resource, error) {
	res, err := scanResource(r.DB.QueryRowContext(ctx,
		"SELECT "+resourceCols+" FROM resources WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Resource{}, ErrNotFound
	}
	return res, err
}

// ListApproved returns approved resources for one audience shelf, newest
// first.
func (r *ResourceRepo) ListApproved(ctx context.Context, audience model.ResourceAudience, limit int) ([]model.Resource, error) {
	return r.list(ctx,
		"SELECT "+resourceCols+" FROM resources WHERE status=? AND audience=? ORDER BY created_at DESC LIMIT ?",
		string(moderation.StatusApproved), string(audience), limit)
}

// ListByOwner returns all of one owner's uploads in every status.
func (r *ResourceRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Resource, error) {
	return r.list(ctx,
		"SELECT "+resourceCols+" FROM resources WHERE owner_id=? ORDER BY created_at DESC", ownerID)
}

// ListByStatus returns resources in one moderation status, oldest first.
func (r *ResourceRepo) ListByStatus(ctx context.Context, status moderation.Status) ([]model.Resource, error) {
	return r.list(ctx,
		"SELECT "+resourceCols+" FROM resources WHERE status=? ORDER BY created_at ASC",
		string(status))
}

func (r *ResourceRepo) list(ctx context.Context, q string, args ...any) ([]model.Resource, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields; owner, audience and status stay
// fixed.
func (r *ResourceRepo) Update(ctx context.Context, id uint64, title, kind, fileKey, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE resources SET title=?, kind=?, file_key=?, description=? WHERE id=?",
		title, kind, fileKey, description, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM resources WHERE id=?", id)
}

// Delete removes a resource; its view rows cascade.
func (r *ResourceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM resources WHERE id=?", id)
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

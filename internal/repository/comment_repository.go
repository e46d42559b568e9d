package repository

import (
	"context"
	"database/sql"

	"github.com/tudduke/ministry-platform/internal/model"
)

// CommentRepo provides access to the comments table. Comments are only
// ever removed by FK cascade when their sermon is deleted; there is no
// delete method on purpose.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create appends a comment under a sermon. The foreign key rejects
// comments on a missing sermon.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (sermon_id, author_id, body) VALUES (?,?,?)",
		c.SermonID, c.AuthorID, c.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// CommentWithAuthor is a comment joined with its author's display name for
// list responses.
type CommentWithAuthor struct {
	model.Comment
	AuthorName string
}

// ListBySermon returns a sermon's comments oldest first, joined with the
// author name.
func (r *CommentRepo) ListBySermon(ctx context.Context, sermonID uint64) ([]CommentWithAuthor, error) {
	const q = `SELECT c.id, c.sermon_id, c.author_id, c.body, c.created_at, u.full_name
	           FROM comments c
	           JOIN users u ON u.id = c.author_id
	           WHERE c.sermon_id = ?
	           ORDER BY c.created_at ASC`
	rows, err := r.DB.QueryContext(ctx, q, sermonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CommentWithAuthor, 0)
	for rows.Next() {
		var c CommentWithAuthor
		if err := rows.Scan(&c.ID, &c.SermonID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"

	"github.com/tudduke/ministry-platform/internal/moderation"
)

// ModerationStore implements moderation.Store over the three moderated
// tables. The content type discriminator selects the table; the engine
// never sees table names.
type ModerationStore struct{ DB *sql.DB }

func NewModerationStore(db *sql.DB) *ModerationStore { return &ModerationStore{DB: db} }

func moderatedTable(t moderation.ContentType) (string, bool) {
	switch t {
	case moderation.TypeSermon:
		return "sermons", true
	case moderation.TypeResource:
		return "resources", true
	case moderation.TypeEvent:
		return "class_events", true
	}
	return "", false
}

// Status returns the current moderation status of one item.
func (s *ModerationStore) Status(ctx context.Context, t moderation.ContentType, id uint64) (moderation.Status, error) {
	table, ok := moderatedTable(t)
	if !ok {
		return "", moderation.ErrNotFound
	}
	var status string
	err := s.DB.QueryRowContext(ctx, "SELECT status FROM "+table+" WHERE id=? LIMIT 1", id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", moderation.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return moderation.Status(status), nil
}

// SetStatus writes the new status and the verifying admin. Concurrent
// verifications are last-writer-wins by design.
func (s *ModerationStore) SetStatus(ctx context.Context, t moderation.ContentType, id uint64, status moderation.Status, verifierID uint64) error {
	table, ok := moderatedTable(t)
	if !ok {
		return moderation.ErrNotFound
	}
	res, err := s.DB.ExecContext(ctx,
		"UPDATE "+table+" SET status=?, verified_by=? WHERE id=?",
		string(status), verifierID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return moderation.ErrNotFound
	}
	return nil
}

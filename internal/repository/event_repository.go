package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/moderation"
)

// EventRepo provides access to the class_events table.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventCols = "id, title, description, event_date, class_id, owner_id, status, verified_by, created_at"

func scanEvent(row interface{ Scan(...any) error }) (model.ClassEvent, error) {
	var e model.ClassEvent
	var status string
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.ClassID,
		&e.OwnerID, &status, &e.VerifiedBy, &e.CreatedAt)
	if err != nil {
		return model.ClassEvent{}, err
	}
	e.Status = moderation.Status(status)
	return e, nil
}

// Create inserts an event with its initial moderation status.
func (r *EventRepo) Create(ctx context.Context, e *model.ClassEvent) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO class_events (title, description, event_date, class_id, owner_id, status) VALUES (?,?,?,?,?,?)",
		e.Title, e.Description, e.EventDate.UTC(), e.ClassID, e.OwnerID, string(e.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches an event in any status.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.ClassEvent, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventCols+" FROM class_events WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.ClassEvent{}, ErrNotFound
	}
	return e, err
}

// ListApprovedUpcoming returns approved events from now on, soonest first.
func (r *EventRepo) ListApprovedUpcoming(ctx context.Context, now time.Time, limit int) ([]model.ClassEvent, error) {
	return r.list(ctx,
		"SELECT "+eventCols+" FROM class_events WHERE status=? AND event_date >= ? ORDER BY event_date ASC LIMIT ?",
		string(moderation.StatusApproved), now.UTC(), limit)
}

// ListByOwner returns one owner's events in all statuses.
func (r *EventRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.ClassEvent, error) {
	return r.list(ctx,
		"SELECT "+eventCols+" FROM class_events WHERE owner_id=? ORDER BY event_date DESC", ownerID)
}

// ListByStatus returns events in one moderation status, oldest first.
func (r *EventRepo) ListByStatus(ctx context.Context, status moderation.Status) ([]model.ClassEvent, error) {
	return r.list(ctx,
		"SELECT "+eventCols+" FROM class_events WHERE status=? ORDER BY created_at ASC",
		string(status))
}

func (r *EventRepo) list(ctx context.Context, q string, args ...any) ([]model.ClassEvent, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ClassEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of an event.
func (r *EventRepo) Update(ctx context.Context, id uint64, title, description string, eventDate time.Time, classID *uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE class_events SET title=?, description=?, event_date=?, class_id=? WHERE id=?",
		title, description, eventDate.UTC(), classID, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.DB, res, "SELECT 1 FROM class_events WHERE id=?", id)
}

// Delete removes an event.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM class_events WHERE id=?", id)
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

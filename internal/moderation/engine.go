package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/tudduke/ministry-platform/internal/access"
)

// ErrNotFound is returned when the targeted content id does not exist for
// the given content type.
var ErrNotFound = errors.New("content not found")

// ErrInvalidStatus is returned when the requested target status is not a
// legal verification target. The request is rejected before any storage
// interaction.
var ErrInvalidStatus = errors.New("invalid status")

// ErrInvalidTransition is returned when the current and target statuses
// are not connected in the state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// Store abstracts the moderated content tables. Implementations resolve
// the content type to its table and perform the actual reads and writes.
type Store interface {
	// Status returns the current moderation status of the item, or
	// ErrNotFound.
	Status(ctx context.Context, t ContentType, id uint64) (Status, error)
	// SetStatus updates the item's status and records the verifying admin.
	SetStatus(ctx context.Context, t ContentType, id uint64, s Status, verifierID uint64) error
}

// Change records a completed verification for the caller to act on: emit a
// domain event, refresh caches, return it to the client. The engine itself
// performs no delivery.
type Change struct {
	Type       ContentType `json:"content_type"`
	ID         uint64      `json:"content_id"`
	From       Status      `json:"from"`
	To         Status      `json:"to"`
	VerifierID uint64      `json:"verified_by"`
	At         time.Time   `json:"verified_at"`
}

// Engine applies verification decisions against a Store.
type Engine struct {
	store Store
}

// NewEngine returns an Engine bound to the given store.
func NewEngine(store Store) *Engine { return &Engine{store: store} }

// Verify transitions one content item to the target status on behalf of
// actor. Checks run in order: actor authorization, target validity (before
// touching storage), existence, then the transition itself. Concurrent
// verifications of the same item are last-writer-wins; admins collide
// rarely enough that read-modify-write is the accepted behavior here.
func (e *Engine) Verify(ctx context.Context, actor access.Identity, t ContentType, id uint64, target Status) (Change, error) {
	if err := access.Authorize(actor, access.OpVerifyContent); err != nil {
		return Change{}, err
	}
	if !ValidTarget(target) {
		return Change{}, ErrInvalidStatus
	}
	current, err := e.store.Status(ctx, t, id)
	if err != nil {
		return Change{}, err
	}
	if !CanTransition(current, target) {
		return Change{}, ErrInvalidTransition
	}
	if err := e.store.SetStatus(ctx, t, id, target, actor.ID); err != nil {
		return Change{}, err
	}
	return Change{
		Type:       t,
		ID:         id,
		From:       current,
		To:         target,
		VerifierID: actor.ID,
		At:         time.Now().UTC(),
	}, nil
}

// InitialStatus returns the status assigned to newly created content.
// Admin-authored items skip review when autoApprove is set; everything
// else enters the queue as pending.
func InitialStatus(authorRole access.Role, autoApprove bool) Status {
	if autoApprove && authorRole == access.RoleAdmin {
		return StatusApproved
	}
	return StatusPending
}

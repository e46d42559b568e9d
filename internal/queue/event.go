// Package queue defines the domain events handed to the notification
// sink. Mutating operations construct these values and return control
// immediately; an external dispatcher decides delivery.
package queue

import "time"

// NotifyQueueName is the durable queue all domain events are published to.
const NotifyQueueName = "ministry.notify"

// Event names. Consumers switch on Envelope.Event.
const (
	EventContentCreated  = "content.created"
	EventContentVerified = "content.verified"
	EventUserVerified    = "user.verified"
	EventSermonLiked     = "sermon.liked"
	EventClassScheduled  = "event.scheduled"
)

// Envelope wraps every published event with its name and emission time so
// consumers can dispatch without sniffing payload shapes.
type Envelope struct {
	Event   string      `json:"event"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload"`
}

// ContentCreatedEvent is emitted when new content enters the system,
// typically in the pending state awaiting review.
type ContentCreatedEvent struct {
	ContentType string `json:"content_type"`
	ContentID   uint64 `json:"content_id"`
	OwnerID     uint64 `json:"owner_id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
}

// ContentVerifiedEvent is emitted when an admin approves or rejects a
// content item.
type ContentVerifiedEvent struct {
	ContentType string `json:"content_type"`
	ContentID   uint64 `json:"content_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	VerifiedBy  uint64 `json:"verified_by"`
}

// UserVerifiedEvent is emitted when an admin verifies a pending teacher or
// preacher account.
type UserVerifiedEvent struct {
	UserID     uint64 `json:"user_id"`
	Role       string `json:"role"`
	VerifiedBy uint64 `json:"verified_by"`
}

// SermonLikedEvent is emitted on every like toggle with the resulting
// state and count.
type SermonLikedEvent struct {
	SermonID  uint64 `json:"sermon_id"`
	UserID    uint64 `json:"user_id"`
	Liked     bool   `json:"liked"`
	LikeCount uint64 `json:"like_count"`
}

// ClassScheduledEvent is emitted when a class event is approved. MemberIDs
// is the roster snapshot taken at emission time so consumers can fan out
// without querying the primary database.
type ClassScheduledEvent struct {
	EventID   uint64    `json:"event_id"`
	Title     string    `json:"title"`
	EventDate time.Time `json:"event_date"`
	ClassID   *uint64   `json:"class_id,omitempty"`
	MemberIDs []uint64  `json:"member_ids"`
}

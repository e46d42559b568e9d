// Package moderation implements the content review state machine. Every
// piece of user-generated content (sermons, resources, class events) starts
// pending and becomes visible to the public only once an admin approves it.
package moderation

import "strings"

// Status is the moderation lifecycle state stored on each moderated
// content row. Only the three values below are ever observable.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a raw status string. Only approved and rejected
// are legal verification targets; pending is a creation-time state and can
// never be reached by a transition.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

// ValidTarget reports whether s may be the target of a verify-content
// operation.
func ValidTarget(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether moving from one status to another is
// permitted. Pending items may be approved or rejected; approved and
// rejected items may be flipped to the other on re-review. Nothing ever
// returns to pending, and a transition to the current state is not a
// transition.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusRejected
	case StatusRejected:
		return to == StatusApproved
	}
	return false
}

// ContentType discriminates which moderated collection a verify-content
// call targets. Each type is moderated independently but through the same
// operation.
type ContentType string

const (
	TypeSermon   ContentType = "sermon"
	TypeResource ContentType = "resource"
	TypeEvent    ContentType = "event"
)

// ParseContentType validates a raw content type string.
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeSermon:
		return TypeSermon, true
	case TypeResource:
		return TypeResource, true
	case TypeEvent:
		return TypeEvent, true
	}
	return "", false
}

package model

import "time"

// ResourceView is an append-only record of a user viewing a piece of
// content. Rows are never mutated, only aggregated.
type ResourceView struct {
	ID           uint64
	UserID       uint64
	ResourceType string // sermon | resource | lesson
	ResourceID   *uint64
	ViewedAt     time.Time
}

// SermonLike marks that a user likes a sermon. A UNIQUE(sermon_id,
// user_id) constraint guarantees at most one row per pair; liking is a
// strict toggle.
type SermonLike struct {
	ID       uint64
	SermonID uint64
	UserID   uint64
}

// QuizResult is one kid's quiz attempt, append-only.
type QuizResult struct {
	ID      uint64
	KidID   uint64
	Score   int
	Total   int
	TakenAt time.Time
}

// MemoryVerse is a short scripture kids memorize. DayOfWeek selects the
// daily verse ("Monday".."Sunday", empty when unassigned); inactive verses
// are never surfaced on the public reads.
type MemoryVerse struct {
	ID        uint64
	Reference string
	Text      string
	DayOfWeek string
	CreatedBy *uint64 // nullable for seeded verses
	IsActive  bool
	CreatedAt time.Time
}

// QuizQuestion is a multiple-choice question served to kids. Options are
// stored as a JSON array column.
type QuizQuestion struct {
	ID          uint64
	Question    string
	Options     []string
	AnswerIndex int
	IsActive    bool
}

package model

import (
	"time"

	"github.com/tudduke/ministry-platform/internal/moderation"
)

// Sermon is a row in `sermons`. OwnerID is set at creation and never
// changes; Status is only ever written through the moderation engine.
type Sermon struct {
	ID         uint64
	Title      string
	Scripture  string
	Body       string
	OwnerID    uint64
	Status     moderation.Status
	ViewCount  uint64
	VerifiedBy *uint64 // admin who last verified, nullable
	CreatedAt  time.Time
}

// ResourceAudience says which role a resource serves. Teachers upload for
// the teacher shelf, preachers for the preacher shelf; admins may upload
// for either.
type ResourceAudience string

const (
	AudienceTeacher  ResourceAudience = "teacher"
	AudiencePreacher ResourceAudience = "preacher"
)

// Resource is a row in `resources`: an uploaded file (pdf, video, audio,
// image) addressed by an opaque blob store key.
type Resource struct {
	ID          uint64
	Title       string
	Kind        string // pdf | video | audio | image | other
	Audience    ResourceAudience
	FileKey     string // blob store key; storage itself is external
	Description string
	OwnerID     uint64
	Status      moderation.Status
	ViewCount   uint64
	VerifiedBy  *uint64
	CreatedAt   time.Time
}

// ClassEvent is a row in `class_events`: a scheduled activity, optionally
// tied to a class roster for notification fan-out.
type ClassEvent struct {
	ID          uint64
	Title       string
	Description string
	EventDate   time.Time
	ClassID     *uint64
	OwnerID     uint64
	Status      moderation.Status
	VerifiedBy  *uint64
	CreatedAt   time.Time
}

// Lesson is a weekly kids lesson. Lessons are authored by teachers or
// admins and are not moderated; they go live on creation.
type Lesson struct {
	ID         uint64
	WeekNumber int
	Title      string
	Content    string
	OwnerID    uint64
	CreatedAt  time.Time
}

// Comment belongs to a sermon and is removed only by cascade when the
// sermon is deleted.
type Comment struct {
	ID        uint64
	SermonID  uint64
	AuthorID  uint64
	Body      string
	CreatedAt time.Time
}

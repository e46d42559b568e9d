package model

import "time"

// Class is a Sabbath school class with a teacher owner. Rosters are a
// read-only aggregation used for notification fan-out; membership changes
// happen out of band.
type Class struct {
	ID        uint64
	Name      string
	AgeGroup  string
	TeacherID *uint64
	CreatedAt time.Time
}

// Donation is recorded as given; no payment processing happens here.
// Status stays "pending" until bookkeeping reconciles it out of band.
type Donation struct {
	ID        uint64
	DonorName string
	Email     *string
	Phone     *string
	Amount    string // decimal as string to avoid float drift
	Currency  string
	Method    string
	Reference *string
	Notes     *string
	Status    string
	CreatedAt time.Time
}

// ContactMessage is a message from the public contact form.
type ContactMessage struct {
	ID        uint64
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

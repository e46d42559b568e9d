package model

import (
	"time"

	"github.com/tudduke/ministry-platform/internal/access"
)

// User represents a row in the `users` table. Role is one of the values
// defined in the access package. IsVerified gates login for teacher and
// preacher accounts: it starts false at registration for those roles and
// is flipped only by an admin. Guardian fields are recorded for minors.
type User struct {
	ID            uint64      // users.id
	FullName      string      // users.full_name
	Email         string      // users.email (unique)
	PasswordHash  string      // users.password_hash
	Role          access.Role // users.role
	IsVerified    bool        // users.is_verified
	GuardianName  *string     // users.guardian_name (nullable)
	GuardianPhone *string     // users.guardian_phone (nullable)
	ProfileImage  *string     // users.profile_image, opaque blob store key (nullable)
	CreatedAt     time.Time   // users.created_at
}

// RefreshToken models a row in `refresh_tokens`. Only the SHA-256 hash of
// the token value is persisted.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

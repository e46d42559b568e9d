// Package access implements the role and ownership checks that gate every
// protected operation. All authorization decisions flow through a single
// rule table so that the allowed roles for an operation live in one place
// instead of being scattered across route handlers. Denials carry the
// required and actual roles so clients can present a meaningful message;
// role names are not secret.
package access

import (
	"fmt"
	"strings"
)

// Role is the single access-level tag carried by every user. A user has
// exactly one role at a time; it is changed only by privileged admin
// action, never self-service.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeacher  Role = "teacher"
	RolePreacher Role = "preacher"
	RoleKid      Role = "kid"
)

// ParseRole normalizes a raw role string and reports whether it is one of
// the known roles. Unknown values are rejected rather than defaulted so a
// forged claim can never widen access.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTeacher:
		return RoleTeacher, true
	case RolePreacher:
		return RolePreacher, true
	case RoleKid:
		return RoleKid, true
	}
	return "", false
}

// SelfServiceRole reports whether a role may be chosen at registration.
// Admin accounts are seeded, never self-registered.
func SelfServiceRole(r Role) bool {
	return r == RoleTeacher || r == RolePreacher || r == RoleKid
}

// RequiresVerification reports whether accounts with this role must be
// approved by an admin before they can log in.
func RequiresVerification(r Role) bool {
	return r == RoleTeacher || r == RolePreacher
}

// Identity is the resolved caller of a request: the subject and role claims
// extracted from a validated access token.
type Identity struct {
	ID   uint64
	Role Role
}

// Operation names a protected action. Public reads are not operations; they
// bypass authorization entirely and are served from approved content only.
type Operation string

const (
	OpCreateSermon   Operation = "create-sermon"
	OpUpdateSermon   Operation = "update-sermon"
	OpDeleteSermon   Operation = "delete-sermon"
	OpUploadResource Operation = "upload-resource"
	OpUpdateResource Operation = "update-resource"
	OpDeleteResource Operation = "delete-resource"
	OpCreateEvent    Operation = "create-event"
	OpUpdateEvent    Operation = "update-event"
	OpDeleteEvent    Operation = "delete-event"
	OpCreateLesson   Operation = "create-lesson"
	OpUpdateLesson   Operation = "update-lesson"
	OpDeleteLesson   Operation = "delete-lesson"
	OpCreateComment  Operation = "create-comment"
	OpLikeSermon     Operation = "like-sermon"
	OpSubmitQuiz     Operation = "submit-quiz"
	OpManageVerses   Operation = "manage-verses"
	OpManageQuiz     Operation = "manage-quiz"
	OpVerifyContent  Operation = "verify-content"
	OpVerifyUser     Operation = "verify-user"
	OpListUsers      Operation = "list-users"
	OpViewStats      Operation = "view-stats"
	OpListDonations  Operation = "list-donations"
	OpListMessages   Operation = "list-messages"
	OpManageClasses  Operation = "manage-classes"
	OpListClasses    Operation = "list-classes"
)

// rule describes who may perform an operation. ownerScoped operations
// additionally require the caller to own the target; the admin role does
// NOT bypass ownership on those (admins moderate, they do not edit other
// people's work). moderation marks admin-only review operations.
type rule struct {
	roles       []Role
	ownerScoped bool
	moderation  bool
}

// rules is the closed-world table. An operation absent from the table is
// denied for every role.
var rules = map[Operation]rule{
	OpCreateSermon:   {roles: []Role{RolePreacher, RoleAdmin}},
	OpUpdateSermon:   {roles: []Role{RolePreacher, RoleAdmin}, ownerScoped: true},
	OpDeleteSermon:   {roles: []Role{RolePreacher, RoleAdmin}, ownerScoped: true},
	OpUploadResource: {roles: []Role{RoleTeacher, RolePreacher, RoleAdmin}},
	OpUpdateResource: {roles: []Role{RoleTeacher, RolePreacher, RoleAdmin}, ownerScoped: true},
	OpDeleteResource: {roles: []Role{RoleTeacher, RolePreacher, RoleAdmin}, ownerScoped: true},
	OpCreateEvent:    {roles: []Role{RoleTeacher, RoleAdmin}},
	OpUpdateEvent:    {roles: []Role{RoleTeacher, RoleAdmin}, ownerScoped: true},
	OpDeleteEvent:    {roles: []Role{RoleTeacher, RoleAdmin}, ownerScoped: true},
	OpCreateLesson:   {roles: []Role{RoleTeacher, RoleAdmin}},
	OpUpdateLesson:   {roles: []Role{RoleTeacher, RoleAdmin}, ownerScoped: true},
	OpDeleteLesson:   {roles: []Role{RoleTeacher, RoleAdmin}, ownerScoped: true},
	OpCreateComment:  {roles: []Role{RoleAdmin, RoleTeacher, RolePreacher, RoleKid}},
	OpLikeSermon:     {roles: []Role{RoleAdmin, RoleTeacher, RolePreacher, RoleKid}},
	OpSubmitQuiz:     {roles: []Role{RoleKid}},
	// Kids corner material is communal: teachers and admins author and
	// retire verses and quiz questions, nothing here is owner-scoped.
	OpManageVerses:  {roles: []Role{RoleTeacher, RoleAdmin}},
	OpManageQuiz:    {roles: []Role{RoleTeacher, RoleAdmin}},
	OpVerifyContent: {roles: []Role{RoleAdmin}, moderation: true},
	OpVerifyUser:    {roles: []Role{RoleAdmin}, moderation: true},
	OpListUsers:     {roles: []Role{RoleAdmin}},
	OpViewStats:     {roles: []Role{RoleAdmin}},
	OpListDonations: {roles: []Role{RoleAdmin}},
	OpListMessages:  {roles: []Role{RoleAdmin}},
	OpManageClasses: {roles: []Role{RoleAdmin}},
	OpListClasses:   {roles: []Role{RoleTeacher, RoleAdmin}},
}

// ErrUnauthenticated is returned when no resolved identity is available for
// a protected operation. Handlers translate it into HTTP 401, distinct
// from the 403 produced by a DeniedError.
var ErrUnauthenticated = fmt.Errorf("authentication required")

// DeniedError is a structured authorization failure. It names the roles the
// operation requires and the role the caller actually has, or states the
// ownership condition that failed.
type DeniedError struct {
	Op        Operation
	Required  []Role
	Actual    Role
	OwnerOnly bool
}

func (e *DeniedError) Error() string {
	if e.OwnerOnly {
		return fmt.Sprintf("permission denied: %s requires ownership of the target (must be owner)", e.Op)
	}
	return fmt.Sprintf("permission denied: %s requires role %s; caller has role %s",
		e.Op, RoleList(e.Required), e.Actual)
}

// RoleList renders a role set as "teacher or admin" for denial messages.
func RoleList(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	switch len(names) {
	case 0:
		return "(none)"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// Authorize decides whether id may perform op. For owner-scoped operations
// the target's owner id must be passed; the check then requires
// owner == caller regardless of role. A nil return means the request may
// proceed; Authorize itself has no side effects.
func Authorize(id Identity, op Operation, targetOwner ...uint64) error {
	if id.ID == 0 || id.Role == "" {
		return ErrUnauthenticated
	}
	r, ok := rules[op]
	if !ok {
		// Closed-world default: an unknown operation is allowed for no one.
		return &DeniedError{Op: op, Required: nil, Actual: id.Role}
	}
	allowed := false
	for _, role := range r.roles {
		if role == id.Role {
			allowed = true
			break
		}
	}
	if !allowed {
		return &DeniedError{Op: op, Required: r.roles, Actual: id.Role}
	}
	if r.ownerScoped {
		if len(targetOwner) == 0 || targetOwner[0] != id.ID {
			return &DeniedError{Op: op, Required: r.roles, Actual: id.Role, OwnerOnly: true}
		}
	}
	return nil
}

// RequiredRoles exposes the allowed role set for an operation. Used by the
// routing layer to build authorization middleware from the same table the
// core decides with.
func RequiredRoles(op Operation) []Role {
	return rules[op].roles
}

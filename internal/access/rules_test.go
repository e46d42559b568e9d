package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]struct {
		role Role
		ok   bool
	}{
		"admin":     {RoleAdmin, true},
		"Teacher":   {RoleTeacher, true},
		" PREACHER": {RolePreacher, true},
		"kid":       {RoleKid, true},
		"owner":     {"", false},
		"":          {"", false},
		"Admin ":    {RoleAdmin, true},
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		assert.Equal(t, want.ok, ok, "input %q", in)
		assert.Equal(t, want.role, got, "input %q", in)
	}
}

func TestAuthorizeDeniesKidUpload(t *testing.T) {
	err := Authorize(Identity{ID: 7, Role: RoleKid}, OpUploadResource)
	require.Error(t, err)

	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, OpUploadResource, denied.Op)
	assert.Equal(t, RoleKid, denied.Actual)
	assert.Contains(t, err.Error(), "teacher, preacher or admin")
	assert.Contains(t, err.Error(), "kid")
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	assert.ErrorIs(t, Authorize(Identity{}, OpCreateSermon), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(Identity{ID: 1}, OpCreateSermon), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(Identity{Role: RoleAdmin}, OpCreateSermon), ErrUnauthenticated)
}

func TestAuthorizeOwnershipScoped(t *testing.T) {
	owner := Identity{ID: 3, Role: RoleTeacher}
	other := Identity{ID: 4, Role: RoleTeacher}

	assert.NoError(t, Authorize(owner, OpUpdateResource, 3))

	// A matching role is not enough: a teacher cannot edit another
	// teacher's resource.
	err := Authorize(other, OpUpdateResource, 3)
	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	assert.True(t, denied.OwnerOnly)
	assert.Contains(t, err.Error(), "must be owner")
}

func TestAdminDoesNotBypassAuthorship(t *testing.T) {
	admin := Identity{ID: 1, Role: RoleAdmin}

	// Moderation is admin territory...
	assert.NoError(t, Authorize(admin, OpVerifyContent))
	assert.NoError(t, Authorize(admin, OpVerifyUser))

	// ...but authorship operations still require ownership, even for admin.
	err := Authorize(admin, OpDeleteSermon, 42)
	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	assert.True(t, denied.OwnerOnly)

	assert.NoError(t, Authorize(admin, OpDeleteSermon, 1))
}

func TestAuthorizeClosedWorld(t *testing.T) {
	err := Authorize(Identity{ID: 2, Role: RoleAdmin}, Operation("drop-database"))
	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Empty(t, denied.Required)
}

func TestRuleTableCoverage(t *testing.T) {
	// Every verify operation is admin-only; kids may only engage.
	assert.Equal(t, []Role{RoleAdmin}, RequiredRoles(OpVerifyContent))
	assert.Equal(t, []Role{RoleAdmin}, RequiredRoles(OpVerifyUser))

	kid := Identity{ID: 9, Role: RoleKid}
	assert.NoError(t, Authorize(kid, OpCreateComment))
	assert.NoError(t, Authorize(kid, OpLikeSermon))
	assert.NoError(t, Authorize(kid, OpSubmitQuiz))
	assert.Error(t, Authorize(kid, OpCreateSermon))
	assert.Error(t, Authorize(kid, OpVerifyContent))

	preacher := Identity{ID: 10, Role: RolePreacher}
	assert.NoError(t, Authorize(preacher, OpCreateSermon))
	assert.NoError(t, Authorize(preacher, OpUploadResource))
	assert.Error(t, Authorize(preacher, OpCreateEvent))
	assert.Error(t, Authorize(preacher, OpSubmitQuiz))
}

func TestKidsAuthoringOperations(t *testing.T) {
	// Teachers and admins curate the kids corner; the kids themselves and
	// preachers cannot, and nothing in it is owner-scoped.
	teacher := Identity{ID: 3, Role: RoleTeacher}
	admin := Identity{ID: 1, Role: RoleAdmin}
	assert.NoError(t, Authorize(teacher, OpManageVerses))
	assert.NoError(t, Authorize(teacher, OpManageQuiz))
	assert.NoError(t, Authorize(admin, OpManageVerses))
	assert.NoError(t, Authorize(admin, OpManageQuiz))

	// Another teacher's verse is still editable: the op carries no
	// ownership condition.
	assert.NoError(t, Authorize(teacher, OpManageVerses, 99))

	err := Authorize(Identity{ID: 9, Role: RoleKid}, OpManageQuiz)
	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Contains(t, err.Error(), "manage-quiz requires role teacher or admin")

	assert.Error(t, Authorize(Identity{ID: 10, Role: RolePreacher}, OpManageVerses))
}

func TestRoleList(t *testing.T) {
	assert.Equal(t, "(none)", RoleList(nil))
	assert.Equal(t, "admin", RoleList([]Role{RoleAdmin}))
	assert.Equal(t, "teacher or admin", RoleList([]Role{RoleTeacher, RoleAdmin}))
	assert.Equal(t, "teacher, preacher or admin", RoleList([]Role{RoleTeacher, RolePreacher, RoleAdmin}))
}

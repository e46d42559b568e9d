package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudduke/ministry-platform/internal/access"
)

// fakeStore keeps statuses in memory keyed by (type, id) and counts writes
// so tests can assert that invalid requests never reach storage.
type fakeStore struct {
	items  map[ContentType]map[uint64]Status
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[ContentType]map[uint64]Status{
		TypeSermon:   {},
		TypeResource: {},
		TypeEvent:    {},
	}}
}

func (f *fakeStore) Status(_ context.Context, t ContentType, id uint64) (Status, error) {
	s, ok := f.items[t][id]
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) SetStatus(_ context.Context, t ContentType, id uint64, s Status, _ uint64) error {
	f.writes++
	f.items[t][id] = s
	return nil
}

var admin = access.Identity{ID: 1, Role: access.RoleAdmin}

func TestVerifyApprovesPending(t *testing.T) {
	store := newFakeStore()
	store.items[TypeResource][10] = StatusPending
	eng := NewEngine(store)

	ch, err := eng.Verify(context.Background(), admin, TypeResource, 10, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, ch.From)
	assert.Equal(t, StatusApproved, ch.To)
	assert.Equal(t, uint64(1), ch.VerifierID)
	assert.Equal(t, StatusApproved, store.items[TypeResource][10])
}

func TestVerifyReReview(t *testing.T) {
	store := newFakeStore()
	store.items[TypeSermon][3] = StatusApproved
	eng := NewEngine(store)

	ch, err := eng.Verify(context.Background(), admin, TypeSermon, 3, StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, ch.To)

	ch, err = eng.Verify(context.Background(), admin, TypeSermon, 3, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, ch.From)
	assert.Equal(t, StatusApproved, ch.To)
}

func TestVerifyNeverReturnsToPending(t *testing.T) {
	store := newFakeStore()
	store.items[TypeEvent][5] = StatusApproved
	eng := NewEngine(store)

	_, err := eng.Verify(context.Background(), admin, TypeEvent, 5, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, store.writes)
}

func TestVerifyInvalidStatusBeforeStorage(t *testing.T) {
	store := newFakeStore()
	eng := NewEngine(store)

	// The bad enum value is rejected before existence is even checked.
	_, err := eng.Verify(context.Background(), admin, TypeSermon, 999, Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, store.writes)
}

func TestVerifyNotFound(t *testing.T) {
	eng := NewEngine(newFakeStore())
	_, err := eng.Verify(context.Background(), admin, TypeSermon, 999, StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifySameStatusRejected(t *testing.T) {
	store := newFakeStore()
	store.items[TypeSermon][1] = StatusApproved
	eng := NewEngine(store)

	_, err := eng.Verify(context.Background(), admin, TypeSermon, 1, StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestVerifyNonAdminDenied(t *testing.T) {
	store := newFakeStore()
	store.items[TypeResource][2] = StatusPending
	eng := NewEngine(store)

	for _, role := range []access.Role{access.RoleTeacher, access.RolePreacher, access.RoleKid} {
		_, err := eng.Verify(context.Background(), access.Identity{ID: 8, Role: role}, TypeResource, 2, StatusApproved)
		var denied *access.DeniedError
		require.True(t, errors.As(err, &denied), "role %s", role)
	}
	assert.Zero(t, store.writes)
	assert.Equal(t, StatusPending, store.items[TypeResource][2])
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusRejected, true},
		{StatusRejected, StatusApproved, true},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusApproved, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusApproved, InitialStatus(access.RoleAdmin, true))
	assert.Equal(t, StatusPending, InitialStatus(access.RoleAdmin, false))
	assert.Equal(t, StatusPending, InitialStatus(access.RoleTeacher, true))
	assert.Equal(t, StatusPending, InitialStatus(access.RolePreacher, true))
}

func TestParseContentType(t *testing.T) {
	for _, s := range []string{"sermon", "Resource", " EVENT "} {
		_, ok := ParseContentType(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseContentType("lesson")
	assert.False(t, ok)
}

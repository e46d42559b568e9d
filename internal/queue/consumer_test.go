package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPayload(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestFormatContentCreated(t *testing.T) {
	at := time.Date(2025, 3, 9, 10, 30, 0, 0, time.UTC)
	line, err := formatEvent(EventContentCreated, at, mustPayload(t, ContentCreatedEvent{
		ContentType: "sermon",
		ContentID:   12,
		OwnerID:     4,
		Title:       "Grace",
		Status:      "pending",
	}))
	require.NoError(t, err)
	assert.Contains(t, line, "[2025-03-09T10:30:00Z]")
	assert.Contains(t, line, "type=sermon")
	assert.Contains(t, line, "id=12")
	assert.Contains(t, line, "status=pending")
	assert.Contains(t, line, `title="Grace"`)
}

func TestFormatSermonLikedBothStates(t *testing.T) {
	at := time.Now().UTC()

	liked, err := formatEvent(EventSermonLiked, at, mustPayload(t, SermonLikedEvent{SermonID: 3, UserID: 9, Liked: true, LikeCount: 5}))
	require.NoError(t, err)
	assert.Contains(t, liked, "Sermon liked")
	assert.Contains(t, liked, "like_count=5")

	unliked, err := formatEvent(EventSermonLiked, at, mustPayload(t, SermonLikedEvent{SermonID: 3, UserID: 9, Liked: false, LikeCount: 4}))
	require.NoError(t, err)
	assert.Contains(t, unliked, "Sermon unliked")
}

func TestFormatClassScheduledMembers(t *testing.T) {
	at := time.Now().UTC()
	cid := uint64(2)
	line, err := formatEvent(EventClassScheduled, at, mustPayload(t, ClassScheduledEvent{
		EventID:   8,
		Title:     "Picnic",
		EventDate: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		ClassID:   &cid,
		MemberIDs: []uint64{4, 7, 11},
	}))
	require.NoError(t, err)
	assert.Contains(t, line, "members=[4,7,11]")
	assert.Contains(t, line, "date=2025-06-01T09:00:00Z")
}

func TestFormatClassScheduledEmptyRoster(t *testing.T) {
	line, err := formatEvent(EventClassScheduled, time.Now(), mustPayload(t, ClassScheduledEvent{EventID: 8, Title: "Picnic"}))
	require.NoError(t, err)
	assert.Contains(t, line, "members=[]")
}

func TestFormatUnknownEventFallsBack(t *testing.T) {
	line, err := formatEvent("something.else", time.Now(), json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Contains(t, line, "something.else")
	assert.Contains(t, line, `{"a":1}`)
}

func TestFormatRejectsBadPayload(t *testing.T) {
	_, err := formatEvent(EventUserVerified, time.Now(), json.RawMessage(`{`))
	assert.Error(t, err)
}

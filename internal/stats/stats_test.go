package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string, hour int, loc *time.Location) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	require.NoError(t, err)
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestDailyBucketsWindow(t *testing.T) {
	loc := time.UTC
	now := day(t, "2026-03-10", 15, loc)

	events := []time.Time{
		day(t, "2026-03-10", 9, loc),  // today
		day(t, "2026-03-10", 23, loc), // today, late
		day(t, "2026-03-08", 0, loc),  // midnight boundary, included
		day(t, "2026-03-04", 12, loc), // oldest day of a 7-day window
		day(t, "2026-03-03", 23, loc), // outside window, excluded entirely
		day(t, "2026-03-11", 1, loc),  // future, excluded
	}

	buckets := DailyBuckets(events, 7, now, loc)
	require.Len(t, buckets, 7)

	assert.Equal(t, "2026-03-04", buckets[0].Day)
	assert.Equal(t, "2026-03-10", buckets[6].Day)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 2, buckets[6].Count)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 4, total, "out-of-window events must not be clipped in")

	// Empty days still appear.
	assert.Equal(t, 0, buckets[1].Count) // 2026-03-05
}

func TestDailyBucketsLocalDays(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	// 22:00 UTC on the 9th is 01:00 on the 10th in EAT; it must land in the
	// local 10th bucket.
	ev := time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	buckets := DailyBuckets([]time.Time{ev}, 2, now, loc)
	require.Len(t, buckets, 2)
	assert.Equal(t, 0, buckets[0].Count)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, "2026-03-10", buckets[1].Day)
}

func TestDailyBucketsDegenerate(t *testing.T) {
	assert.Empty(t, DailyBuckets(nil, 0, time.Now(), time.UTC))
	buckets := DailyBuckets(nil, 3, time.Now(), time.UTC)
	require.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func TestDistinctActors(t *testing.T) {
	assert.Equal(t, 0, DistinctActors(nil))
	assert.Equal(t, 1, DistinctActors([]uint64{5, 5, 5}))
	assert.Equal(t, 3, DistinctActors([]uint64{1, 2, 3, 2, 1}))
}

func TestSummarizeQuiz(t *testing.T) {
	s := SummarizeQuiz(nil)
	assert.Zero(t, s.Attempts)

	s = SummarizeQuiz([]QuizAttempt{
		{Score: 3, Total: 10},
		{Score: 9, Total: 10},
		{Score: 5, Total: 0}, // malformed total: counted, not rated
	})
	assert.Equal(t, 3, s.Attempts)
	assert.Equal(t, 9, s.BestScore)
	assert.Equal(t, 10, s.BestTotal)
	assert.InDelta(t, 0.6, s.AvgRatio, 1e-9)
}

// Package stats derives read-only engagement metrics from raw event
// timestamps and actor ids. It never touches storage itself; repositories
// fetch the rows and the functions here reduce them.
package stats

import "time"

// DayKey formats a timestamp as the calendar-day bucket key, local to the
// supplied location. Buckets are keyed by date string, not timestamp.
const dayLayout = "2006-01-02"

// Bucket is one day of a histogram.
type Bucket struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DailyBuckets groups event timestamps by calendar day over a trailing
// window of `days` days ending at now (inclusive of today). Every day in
// the window appears in the result, zero counts included, oldest first.
// Events outside the window are excluded entirely, not clipped into the
// edge buckets.
func DailyBuckets(events []time.Time, days int, now time.Time, loc *time.Location) []Bucket {
	if days <= 0 {
		return []Bucket{}
	}
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := end.AddDate(0, 0, -(days - 1))

	buckets := make([]Bucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(dayLayout)
		buckets[i] = Bucket{Day: key}
		index[key] = i
	}
	cutoff := end.AddDate(0, 0, 1)
	for _, ev := range events {
		local := ev.In(loc)
		if local.Before(start) || !local.Before(cutoff) {
			continue
		}
		if i, ok := index[local.Format(dayLayout)]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// DistinctActors counts unique actor ids among the given engagement
// events. No time window is applied; callers filter beforehand when one
// is wanted.
func DistinctActors(actorIDs []uint64) int {
	seen := make(map[uint64]struct{}, len(actorIDs))
	for _, id := range actorIDs {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// QuizAttempt is one recorded quiz result, reduced to what summaries need.
type QuizAttempt struct {
	Score int
	Total int
}

// QuizSummary aggregates a kid's attempts into the figures the dashboard
// shows.
type QuizSummary struct {
	Attempts  int     `json:"attempts"`
	BestScore int     `json:"best_score"`
	BestTotal int     `json:"best_total"`
	AvgRatio  float64 `json:"avg_ratio"`
}

// SummarizeQuiz computes attempt count, best score and mean score ratio.
// Attempts with a zero total are counted but contribute nothing to the
// ratio.
func SummarizeQuiz(attempts []QuizAttempt) QuizSummary {
	s := QuizSummary{Attempts: len(attempts)}
	if len(attempts) == 0 {
		return s
	}
	var sum float64
	var rated int
	bestRatio := -1.0
	for _, a := range attempts {
		if a.Total <= 0 {
			continue
		}
		ratio := float64(a.Score) / float64(a.Total)
		sum += ratio
		rated++
		if ratio > bestRatio {
			bestRatio = ratio
			s.BestScore = a.Score
			s.BestTotal = a.Total
		}
	}
	if rated > 0 {
		s.AvgRatio = sum / float64(rated)
	}
	return s
}

package stats

import (
	"slices"
	"time"

	"kanban-mc/internal/eazybi"
)

// DailyThroughput is the number of items completed on one calendar day.
type DailyThroughput struct {
	Date  time.Time
	Count int
}

// ThroughputSeries is a date-ordered daily completion-count series.
type ThroughputSeries []DailyThroughput

// Counts returns just the count column of the series.
func (s ThroughputSeries) Counts() []int {
	counts := make([]int, len(s))
	for i, day := range s {
		counts[i] = day.Count
	}
	return counts
}

// CalculateThroughput converts issues into a daily completion-count series
// over [start, end], both inclusive. Every calendar day in the range is
// present, with zero counts for days without completions: the simulation
// samples days uniformly, and dropping idle days would bias it toward days
// with activity. Returns nil when no issue falls inside the range.
//
// When start or end is the zero time, no densification happens and the raw
// per-day counts are returned without zero-fill. This is the weaker path;
// the orchestrator always passes a concrete window.
func CalculateThroughput(issues []eazybi.Issue, start, end time.Time) ThroughputSeries {
	filtered := make([]eazybi.Issue, 0, len(issues))
	for _, issue := range issues {
		day := dateOf(issue.CompletedAt)
		if !start.IsZero() && day.Before(dateOf(start)) {
			continue
		}
		if !end.IsZero() && day.After(dateOf(end)) {
			continue
		}
		filtered = append(filtered, issue)
	}
	if len(filtered) == 0 {
		return nil
	}

	counts := make(map[time.Time]int)
	for _, issue := range filtered {
		counts[dateOf(issue.CompletedAt)]++
	}

	if start.IsZero() || end.IsZero() {
		series := make(ThroughputSeries, 0, len(counts))
		for day, count := range counts {
			series = append(series, DailyThroughput{Date: day, Count: count})
		}
		slices.SortFunc(series, func(a, b DailyThroughput) int {
			return a.Date.Compare(b.Date)
		})
		return series
	}

	first := dateOf(start)
	last := dateOf(end)

	series := make(ThroughputSeries, 0, int(last.Sub(first).Hours()/24)+1)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, DailyThroughput{Date: day, Count: counts[day]})
	}
	return series
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package simulation

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"kanban-mc/internal/stats"
)

// SeriesKey is the row key of a forecast before the orchestrator relabels it
// to a project. The forecaster itself has no project concept: it models one
// delivery stream.
const SeriesKey = "issues"

// Engine performs the Monte-Carlo simulation over a daily throughput series.
type Engine struct {
	series stats.ThroughputSeries
	rng    *rand.Rand
}

// DistributionRow is one distinct outcome of the simulated runs. Probability
// is cumulative from the highest total down, so it reads as "chance of
// completing at least Items".
type DistributionRow struct {
	Items       int
	Frequency   int
	Probability float64
}

func NewEngine(series stats.ThroughputSeries) *Engine {
	return NewEngineWithSource(series, rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource creates an engine with a caller-controlled random
// source, for reproducible runs.
func NewEngineWithSource(series stats.ThroughputSeries, src rand.Source) *Engine {
	return &Engine{
		series: series,
		rng:    rand.New(src),
	}
}

// Run simulates `simulations` independent windows of `days` days, each day
// drawn with replacement from the throughput series, and returns the
// requested percentile forecasts as a single-row table keyed by SeriesKey.
// Returns nil when there is no throughput to sample from.
func (e *Engine) Run(simulations, days int, percentiles []float64) *stats.Table {
	if len(e.series) == 0 {
		return nil
	}

	counts := e.series.Counts()
	totals := make([]int, simulations)
	for i := 0; i < simulations; i++ {
		totals[i] = e.simulateWindow(counts, days)
	}

	distribution := buildDistribution(totals)

	result := stats.NewTable()
	for _, percentile := range percentiles {
		label := "montecarlo " + stats.FormatPercentile(percentile) + "%"
		result.Set(SeriesKey, label, nearestOutcome(distribution, percentile))
	}
	return result
}

func (e *Engine) simulateWindow(counts []int, days int) int {
	total := 0
	for d := 0; d < days; d++ {
		// Randomly sample a day from history
		total += counts[e.rng.Intn(len(counts))]
	}
	return total
}

// buildDistribution groups trial totals into an empirical distribution sorted
// descending by total, with cumulative probability accumulated from the top.
func buildDistribution(totals []int) []DistributionRow {
	frequency := make(map[int]int)
	for _, total := range totals {
		frequency[total]++
	}

	rows := make([]DistributionRow, 0, len(frequency))
	for items, freq := range frequency {
		rows = append(rows, DistributionRow{Items: items, Frequency: freq})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Items > rows[j].Items
	})

	cumulative := 0
	for i := range rows {
		cumulative += rows[i].Frequency
		rows[i].Probability = 100 * float64(cumulative) / float64(len(totals))
	}
	return rows
}

// nearestOutcome picks the outcome whose cumulative probability is closest to
// the requested percentile. This is a nearest-neighbor lookup on the
// empirical distribution, not an interpolated inverse CDF; ties keep the
// earlier row in descending-total order.
func nearestOutcome(distribution []DistributionRow, percentile float64) int {
	best := distribution[0]
	bestDiff := math.Abs(best.Probability - percentile)
	for _, row := range distribution[1:] {
		diff := math.Abs(row.Probability - percentile)
		if diff < bestDiff {
			best = row
			bestDiff = diff
		}
	}
	return best.Items
}

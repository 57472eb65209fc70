package simulation

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"kanban-mc/internal/stats"
)

func uniformSeries(days, count int) stats.ThroughputSeries {
	series := make(stats.ThroughputSeries, days)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range series {
		series[i] = stats.DailyThroughput{Date: start.AddDate(0, 0, i), Count: count}
	}
	return series
}

func TestEngine_ConvergesOnConstantThroughput(t *testing.T) {
	// 5 days of exactly 1 item/day leaves no sampling variance: every
	// 5-day window must total 5 items.
	engine := NewEngineWithSource(uniformSeries(5, 1), rand.NewSource(42))

	result := engine.Run(1000, 5, []float64{50})

	got, ok := result.Value(SeriesKey, "montecarlo 50%")
	if !ok {
		t.Fatalf("Missing montecarlo 50%% column, columns: %v", result.Columns())
	}
	if got != 5 {
		t.Errorf("Expected 5 items at the 50th percentile, got %d", got)
	}
}

func TestEngine_NilSeriesReturnsNil(t *testing.T) {
	engine := NewEngineWithSource(nil, rand.NewSource(1))

	if result := engine.Run(100, 5, []float64{50}); result != nil {
		t.Errorf("Expected nil result for absent throughput, got %v", result)
	}
}

func TestEngine_PercentileColumnsInRequestOrder(t *testing.T) {
	engine := NewEngineWithSource(uniformSeries(10, 2), rand.NewSource(7))

	result := engine.Run(200, 3, []float64{95, 50, 70})

	want := []string{"montecarlo 95%", "montecarlo 50%", "montecarlo 70%"}
	cols := result.Columns()
	if len(cols) != len(want) {
		t.Fatalf("Expected %d columns, got %v", len(want), cols)
	}
	for i, col := range cols {
		if col != want[i] {
			t.Errorf("Column %d: expected %q, got %q", i, want[i], col)
		}
	}
}

func TestEngine_HigherConfidenceNeverForecastsMore(t *testing.T) {
	series := stats.ThroughputSeries{
		{Count: 0}, {Count: 1}, {Count: 1}, {Count: 2}, {Count: 5},
		{Count: 0}, {Count: 3}, {Count: 1}, {Count: 0}, {Count: 2},
	}
	engine := NewEngineWithSource(series, rand.NewSource(99))

	result := engine.Run(5000, 14, []float64{50, 85, 95})

	p50, _ := result.Value(SeriesKey, "montecarlo 50%")
	p85, _ := result.Value(SeriesKey, "montecarlo 85%")
	p95, _ := result.Value(SeriesKey, "montecarlo 95%")

	// "95% likely to deliver at least X" implies X shrinks as confidence grows.
	if p85 > p50 || p95 > p85 {
		t.Errorf("Forecasts not monotone in confidence: p50=%d p85=%d p95=%d", p50, p85, p95)
	}
}

func TestBuildDistribution_CumulativeFromTop(t *testing.T) {
	totals := []int{3, 3, 5, 5, 5, 8, 8, 8, 8, 10}

	rows := buildDistribution(totals)

	wantItems := []int{10, 8, 5, 3}
	wantProbs := []float64{10, 50, 80, 100}
	if len(rows) != len(wantItems) {
		t.Fatalf("Expected %d distinct outcomes, got %d", len(wantItems), len(rows))
	}
	for i, row := range rows {
		if row.Items != wantItems[i] {
			t.Errorf("Row %d: expected items %d, got %d", i, wantItems[i], row.Items)
		}
		if math.Abs(row.Probability-wantProbs[i]) > 1e-9 {
			t.Errorf("Row %d: expected probability %v, got %v", i, wantProbs[i], row.Probability)
		}
	}

	if math.Abs(rows[len(rows)-1].Probability-100) > 1e-9 {
		t.Errorf("Cumulative probability must end at 100, got %v", rows[len(rows)-1].Probability)
	}
}

func TestNearestOutcome(t *testing.T) {
	rows := []DistributionRow{
		{Items: 10, Probability: 10},
		{Items: 8, Probability: 50},
		{Items: 5, Probability: 80},
		{Items: 3, Probability: 100},
	}

	cases := []struct {
		percentile float64
		want       int
	}{
		{50, 8},
		{85, 5},  // 80 is closer than 100
		{95, 3},  // 100 is closer than 80
		{30, 10}, // |10-30| == |50-30|, first row in descending order wins
		{100, 3},
	}
	for _, tc := range cases {
		if got := nearestOutcome(rows, tc.percentile); got != tc.want {
			t.Errorf("percentile %v: expected %d, got %d", tc.percentile, tc.want, got)
		}
	}
}

func TestEngine_ReproducibleWithSameSeed(t *testing.T) {
	series := stats.ThroughputSeries{
		{Count: 1}, {Count: 0}, {Count: 4}, {Count: 2}, {Count: 0},
	}

	a := NewEngineWithSource(series, rand.NewSource(123)).Run(500, 10, []float64{50, 85})
	b := NewEngineWithSource(series, rand.NewSource(123)).Run(500, 10, []float64{50, 85})

	for _, col := range a.Columns() {
		va, _ := a.Value(SeriesKey, col)
		vb, _ := b.Value(SeriesKey, col)
		if va != vb {
			t.Errorf("%s: same seed produced %d and %d", col, va, vb)
		}
	}
}

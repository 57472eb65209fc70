package stats

import (
	"math"
	"slices"
	"strconv"

	"kanban-mc/internal/eazybi"
)

// CalculateCycletimePercentiles groups issues by project and computes the
// requested cycletime percentiles for each, one column per percentile in
// request order. Values are rounded up to whole days: for forecasting
// commitments the bias must be conservative, never optimistic.
func CalculateCycletimePercentiles(issues []eazybi.Issue, percentiles []float64) *Table {
	result := NewTable()
	if len(issues) == 0 {
		return result
	}

	grouped := make(map[string][]float64)
	var projects []string
	for _, issue := range issues {
		if _, ok := grouped[issue.Project]; !ok {
			projects = append(projects, issue.Project)
		}
		grouped[issue.Project] = append(grouped[issue.Project], issue.Cycletime)
	}

	for _, percentile := range percentiles {
		label := "cycletime " + FormatPercentile(percentile) + "%"
		for _, project := range projects {
			q := Quantile(grouped[project], percentile/100)
			result.Set(project, label, int(math.Ceil(q)))
		}
	}

	return result
}

// Quantile computes the q-th quantile (q in [0,1]) of values using linear
// interpolation between order statistics.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	if len(temp) == 1 {
		return temp[0]
	}

	pos := q * float64(len(temp)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi > len(temp)-1 {
		hi = len(temp) - 1
	}

	return temp[lo] + (temp[hi]-temp[lo])*(pos-float64(lo))
}

// FormatPercentile renders a percentile value without a trailing zero
// fraction, so columns read "cycletime 50%" rather than "cycletime 50.0%".
func FormatPercentile(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Package forecast composes the statistical pipeline: cycletime percentiles,
// throughput series, and the Monte-Carlo simulation, merged into one result
// table per report request.
package forecast

import (
	"math/rand"
	"time"

	"kanban-mc/internal/config"
	"kanban-mc/internal/eazybi"
	"kanban-mc/internal/simulation"
	"kanban-mc/internal/stats"

	"github.com/rs/zerolog/log"
)

// Run executes the full pipeline over a fetched issue table.
//
// The throughput window is [today - Throughput_range, today]; today is a
// parameter rather than the process clock so runs are reproducible. src seeds
// the simulation and may be nil for production randomness.
//
// The forecaster models a single delivery stream, so its one output row is
// relabeled to the project of the first issue before the merge. With
// multi-project input, cycletime rows for other projects do not match the
// relabeled forecast key and are dropped by the inner join.
func Run(cfg *config.ReportConfig, issues []eazybi.Issue, today time.Time, src rand.Source) *stats.Table {
	cycletime := stats.CalculateCycletimePercentiles(issues, cfg.Cycletime.Percentiles)
	if cycletime.IsEmpty() {
		log.Warn().Msg("No issues in report, returning empty result")
		return stats.NewTable()
	}

	start := today.AddDate(0, 0, -cfg.ThroughputRange)
	throughput := stats.CalculateThroughput(issues, start, today)

	var engine *simulation.Engine
	if src != nil {
		engine = simulation.NewEngineWithSource(throughput, src)
	} else {
		engine = simulation.NewEngine(throughput)
	}

	montecarlo := engine.Run(cfg.Montecarlo.Simulations, cfg.Montecarlo.SimulationDays, cfg.Montecarlo.Percentiles)
	if montecarlo == nil {
		log.Warn().
			Int("throughputRange", cfg.ThroughputRange).
			Msg("No throughput inside the window, returning empty result")
		return stats.NewTable()
	}

	montecarlo.Relabel(simulation.SeriesKey, issues[0].Project)
	return cycletime.Merge(montecarlo)
}

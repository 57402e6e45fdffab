package benchmark

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-nms/suppress"
)

// Suite holds an ordered list of scenarios and the metrics collected by
// running them.
type Suite struct {
	mu        sync.RWMutex
	scenarios []Scenario
	results   []PerformanceMetrics
}

// NewSuite creates an empty benchmark suite.
func NewSuite() *Suite {
	return &Suite{
		scenarios: make([]Scenario, 0),
		results:   make([]PerformanceMetrics, 0),
	}
}

// AddScenario appends a scenario to the suite.
func (bs *Suite) AddScenario(scenario Scenario) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.scenarios = append(bs.scenarios, scenario)
}

// Run executes every scenario in order and collects its metrics.
//
// Arguments:
//   - ctx: Cancels the run between iterations; the engine itself has no
//     cancellation concept, so a single suppression call always finishes.
//
// Returns:
//   - []PerformanceMetrics: One entry per completed scenario.
//   - error: The first scenario or context failure; completed results are
//     still retained on the suite.
func (bs *Suite) Run(ctx context.Context) ([]PerformanceMetrics, error) {
	bs.mu.RLock()
	scenarios := make([]Scenario, len(bs.scenarios))
	copy(scenarios, bs.scenarios)
	bs.mu.RUnlock()

	for _, raw := range scenarios {
		scenario, err := raw.normalize()
		if err != nil {
			return bs.Results(), err
		}
		metrics, err := bs.runScenario(ctx, scenario)
		if err != nil {
			return bs.Results(), errors.Wrapf(err, "scenario %q", scenario.Name)
		}
		bs.mu.Lock()
		bs.results = append(bs.results, metrics)
		bs.mu.Unlock()
	}
	return bs.Results(), nil
}

// runScenario generates the candidate cloud once, warms up, then times the
// suppression call.
func (bs *Suite) runScenario(ctx context.Context, scenario Scenario) (PerformanceMetrics, error) {
	started := time.Now()

	boxes, scores := generateCandidates(scenario)
	params := scenario.params()
	if err := params.Validate(); err != nil {
		return PerformanceMetrics{}, err
	}
	setup := time.Since(started)

	for i := 0; i < scenario.WarmupRuns; i++ {
		if _, err := suppress.Suppress(boxes, scores, params); err != nil {
			return PerformanceMetrics{}, err
		}
	}

	var suppressTotal time.Duration
	survivors := 0
	for i := 0; i < scenario.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return PerformanceMetrics{}, err
		}
		iterStart := time.Now()
		selected, err := suppress.Suppress(boxes, scores, params)
		suppressTotal += time.Since(iterStart)
		if err != nil {
			return PerformanceMetrics{}, err
		}
		survivors = len(selected)
	}

	seconds := suppressTotal.Seconds()
	metrics := PerformanceMetrics{
		Scenario:         scenario,
		Timestamp:        started,
		TotalDuration:    time.Since(started),
		SetupDuration:    setup,
		SuppressDuration: suppressTotal,
		MeanLatency:      suppressTotal / time.Duration(scenario.Iterations),
		SurvivorCount:    survivors,
		MemoryStats:      captureMemoryMetrics(),
	}
	if seconds > 0 {
		metrics.BoxesPerSecond = float64(scenario.NumBoxes*scenario.Iterations) / seconds
		metrics.RunsPerSecond = float64(scenario.Iterations) / seconds
	}
	return metrics, nil
}

// Results returns a copy of the collected metrics.
func (bs *Suite) Results() []PerformanceMetrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	results := make([]PerformanceMetrics, len(bs.results))
	copy(results, bs.results)
	return results
}

// SaveResults writes the collected metrics to a JSON report file.
func (bs *Suite) SaveResults(path string) error {
	raw, err := json.MarshalIndent(bs.Results(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding benchmark results")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "writing benchmark results to %s", path)
	}
	return nil
}

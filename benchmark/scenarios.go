package benchmark

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-nms/suppress"
)

// Scenario defines one synthetic suppression workload: a reproducible
// cloud of candidate boxes and the parameters to suppress it with.
//
// Unset values take defaults when the scenario is normalized: frame size
// 1000, one cluster per 25 boxes, cluster spread 80, the engine's default
// IoU threshold, an output budget equal to the box count, 50 iterations
// and 5 warmup runs. IoUThreshold and MaxOutputSize are pointers so that
// an explicit zero stays distinguishable from "unset": the threshold-0 and
// zero-budget boundary cases the engine supports are benchmarkable.
type Scenario struct {
	Name           string   `json:"name"           yaml:"name"`
	NumBoxes       int      `json:"numBoxes"       yaml:"numBoxes"`
	NumClusters    int      `json:"numClusters"    yaml:"numClusters"`
	ClusterSpread  float32  `json:"clusterSpread"  yaml:"clusterSpread"`
	FrameSize      float32  `json:"frameSize"      yaml:"frameSize"`
	IoUThreshold   *float64 `json:"iouThreshold"   yaml:"iouThreshold"`
	ScoreThreshold float64  `json:"scoreThreshold" yaml:"scoreThreshold"`
	MaxOutputSize  *int     `json:"maxOutputSize"  yaml:"maxOutputSize"`
	Iterations     int      `json:"iterations"     yaml:"iterations"`
	WarmupRuns     int      `json:"warmupRuns"     yaml:"warmupRuns"`
	Seed           int64    `json:"seed"           yaml:"seed"`
}

// normalize fills in defaults for zero-valued fields and validates the
// rest.
func (s Scenario) normalize() (Scenario, error) {
	if s.NumBoxes <= 0 {
		return s, errors.Errorf("scenario %q needs a positive box count, got %d", s.Name, s.NumBoxes)
	}
	if s.NumClusters <= 0 {
		s.NumClusters = max(1, s.NumBoxes/25)
	}
	if s.ClusterSpread <= 0 {
		s.ClusterSpread = 80
	}
	if s.FrameSize <= 0 {
		s.FrameSize = 1000
	}
	if s.IoUThreshold == nil {
		iou := suppress.DefaultIoUThreshold
		s.IoUThreshold = &iou
	}
	if s.MaxOutputSize == nil {
		budget := s.NumBoxes
		s.MaxOutputSize = &budget
	}
	if s.Iterations <= 0 {
		s.Iterations = 50
	}
	if s.WarmupRuns < 0 {
		s.WarmupRuns = 0
	} else if s.WarmupRuns == 0 {
		s.WarmupRuns = 5
	}
	return s, nil
}

// params converts the scenario's suppression settings into engine
// parameters.
func (s Scenario) params() suppress.Params {
	return suppress.Params{
		MaxOutputSize:  *s.MaxOutputSize,
		IoUThreshold:   *s.IoUThreshold,
		ScoreThreshold: s.ScoreThreshold,
	}
}

// ScenarioBuilder assembles a Scenario through a fluent API.
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder starts a scenario with the given name and every other
// field unset.
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{scenario: Scenario{Name: name}}
}

// WithBoxes sets the candidate count.
func (sb *ScenarioBuilder) WithBoxes(n int) *ScenarioBuilder {
	sb.scenario.NumBoxes = n
	return sb
}

// WithClusters sets how many object centers the candidates pile onto and
// how far they scatter around each one.
func (sb *ScenarioBuilder) WithClusters(n int, spread float32) *ScenarioBuilder {
	sb.scenario.NumClusters = n
	sb.scenario.ClusterSpread = spread
	return sb
}

// WithThresholds sets the suppression thresholds. An explicit zero IoU
// threshold is honored, not replaced with the default.
func (sb *ScenarioBuilder) WithThresholds(iou, score float64) *ScenarioBuilder {
	sb.scenario.IoUThreshold = &iou
	sb.scenario.ScoreThreshold = score
	return sb
}

// WithBudget sets the output budget. An explicit zero is honored.
func (sb *ScenarioBuilder) WithBudget(maxOutputSize int) *ScenarioBuilder {
	sb.scenario.MaxOutputSize = &maxOutputSize
	return sb
}

// WithIterations sets the number of timed iterations.
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmup sets the number of untimed warmup runs.
func (sb *ScenarioBuilder) WithWarmup(runs int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = runs
	return sb
}

// WithSeed pins the candidate-cloud RNG seed.
func (sb *ScenarioBuilder) WithSeed(seed int64) *ScenarioBuilder {
	sb.scenario.Seed = seed
	return sb
}

// Build finalizes the scenario.
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// DefaultScenarios returns the built-in sweep over candidate counts.
func DefaultScenarios() []Scenario {
	sizes := []int{100, 500, 1000, 5000, 10000}
	scenarios := make([]Scenario, 0, len(sizes))
	for _, n := range sizes {
		scenarios = append(scenarios,
			NewScenarioBuilder(fmt.Sprintf("boxes-%d", n)).
				WithBoxes(n).
				WithSeed(int64(n)).
				Build())
	}
	return scenarios
}

// LoadScenarios reads a YAML scenario file.
//
// Arguments:
//   - path: Path to a YAML document holding a `scenarios:` list.
//
// Returns:
//   - []Scenario: The parsed scenarios, unnormalized.
//   - error: If the file cannot be read or parsed, or holds no scenarios.
func LoadScenarios(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario file %s", path)
	}
	var doc struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing scenario file %s", path)
	}
	if len(doc.Scenarios) == 0 {
		return nil, errors.Errorf("scenario file %s holds no scenarios", path)
	}
	return doc.Scenarios, nil
}

package benchmark

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateCandidates verifies that the synthetic cloud is reproducible
// and shaped like real detector output.
func TestGenerateCandidates(t *testing.T) {
	scenario, err := NewScenarioBuilder("gen").WithBoxes(200).WithSeed(9).Build().normalize()
	require.NoError(t, err)

	boxes, scores := generateCandidates(scenario)
	require.Len(t, boxes, 200*4)
	require.Len(t, scores, 200)

	// Boxes are well formed: y2 > y1, x2 > x1.
	for i := 0; i < 200; i++ {
		assert.Greater(t, boxes[i*4+2], boxes[i*4+0])
		assert.Greater(t, boxes[i*4+3], boxes[i*4+1])
	}

	boxes2, scores2 := generateCandidates(scenario)
	assert.Equal(t, boxes, boxes2)
	assert.Equal(t, scores, scores2)
}

// TestScenarioNormalize checks default filling and validation.
func TestScenarioNormalize(t *testing.T) {
	s, err := Scenario{Name: "defaults", NumBoxes: 100}.normalize()
	require.NoError(t, err)
	assert.Equal(t, 4, s.NumClusters)
	assert.Equal(t, float32(1000), s.FrameSize)
	require.NotNil(t, s.MaxOutputSize)
	assert.Equal(t, 100, *s.MaxOutputSize)
	assert.Equal(t, 50, s.Iterations)
	assert.Equal(t, 5, s.WarmupRuns)
	require.NotNil(t, s.IoUThreshold)
	assert.Greater(t, *s.IoUThreshold, 0.0)

	_, err = Scenario{Name: "empty"}.normalize()
	assert.Error(t, err)
}

// TestScenarioExplicitZeroes verifies that a zero IoU threshold and a zero
// output budget survive normalization instead of being replaced with
// defaults, so the engine's boundary cases stay benchmarkable.
func TestScenarioExplicitZeroes(t *testing.T) {
	s, err := NewScenarioBuilder("boundary").
		WithBoxes(50).
		WithThresholds(0, 0).
		WithBudget(0).
		Build().
		normalize()
	require.NoError(t, err)
	require.NotNil(t, s.IoUThreshold)
	assert.Zero(t, *s.IoUThreshold)
	require.NotNil(t, s.MaxOutputSize)
	assert.Zero(t, *s.MaxOutputSize)

	p := s.params()
	assert.Zero(t, p.IoUThreshold)
	assert.Zero(t, p.MaxOutputSize)
}

// TestSuiteRunBoundaryScenarios runs the threshold-0 and zero-budget edges
// end to end: threshold 0 keeps at most one box, budget 0 keeps none.
func TestSuiteRunBoundaryScenarios(t *testing.T) {
	suite := NewSuite()
	suite.AddScenario(
		NewScenarioBuilder("threshold-zero").
			WithBoxes(100).
			WithThresholds(0, 0).
			WithIterations(2).
			WithWarmup(1).
			WithSeed(3).
			Build())
	suite.AddScenario(
		NewScenarioBuilder("budget-zero").
			WithBoxes(100).
			WithBudget(0).
			WithIterations(2).
			WithWarmup(1).
			WithSeed(3).
			Build())

	results, err := suite.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].SurvivorCount)
	assert.Equal(t, 0, results[1].SurvivorCount)
}

// TestSuiteRun runs a small scenario end to end and checks the metrics and
// the JSON report.
func TestSuiteRun(t *testing.T) {
	suite := NewSuite()
	suite.AddScenario(
		NewScenarioBuilder("smoke").
			WithBoxes(300).
			WithClusters(10, 60).
			WithThresholds(0.45, 0).
			WithIterations(3).
			WithWarmup(1).
			WithSeed(1).
			Build())

	results, err := suite.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "smoke", r.Scenario.Name)
	assert.Positive(t, r.SuppressDuration)
	assert.Positive(t, r.BoxesPerSecond)
	assert.Positive(t, r.SurvivorCount)
	// Clustered candidates must actually suppress each other.
	assert.Less(t, r.SurvivorCount, 300)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, suite.SaveResults(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []PerformanceMetrics
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded, 1)
}

// TestSuiteRunCancelled stops between iterations when the context dies.
func TestSuiteRunCancelled(t *testing.T) {
	suite := NewSuite()
	suite.AddScenario(NewScenarioBuilder("cancelled").WithBoxes(100).Build())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := suite.Run(ctx)
	assert.Error(t, err)
}

// TestLoadScenarios parses a YAML scenario file.
func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	doc := `scenarios:
  - name: small
    numBoxes: 100
    iouThreshold: 0.5
  - name: large
    numBoxes: 5000
    numClusters: 100
    maxOutputSize: 200
  - name: boundary
    numBoxes: 100
    iouThreshold: 0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 3)
	assert.Equal(t, "small", scenarios[0].Name)
	require.NotNil(t, scenarios[0].IoUThreshold)
	assert.Equal(t, 0.5, *scenarios[0].IoUThreshold)
	assert.Equal(t, 5000, scenarios[1].NumBoxes)
	require.NotNil(t, scenarios[1].MaxOutputSize)
	assert.Equal(t, 200, *scenarios[1].MaxOutputSize)

	// An explicit zero threshold in the file is preserved through
	// normalization, while the absent budget still takes its default.
	boundary, err := scenarios[2].normalize()
	require.NoError(t, err)
	require.NotNil(t, boundary.IoUThreshold)
	assert.Zero(t, *boundary.IoUThreshold)
	require.NotNil(t, boundary.MaxOutputSize)
	assert.Equal(t, 100, *boundary.MaxOutputSize)

	_, err = LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

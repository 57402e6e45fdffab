package benchmark

import "math/rand"

// generateCandidates builds the scenario's synthetic candidate cloud.
//
// Boxes pile onto NumClusters shared centers the way raw detector output
// piles onto real objects, scattered by ClusterSpread, with sizes drawn
// relative to the spread. Scores are uniform in [0, 1). The same seed
// always yields the same cloud, so repeated runs of a scenario measure the
// same work.
func generateCandidates(s Scenario) (boxes []float32, scores []float32) {
	rng := rand.New(rand.NewSource(s.Seed))

	centerY := make([]float32, s.NumClusters)
	centerX := make([]float32, s.NumClusters)
	for i := range centerY {
		centerY[i] = rng.Float32() * s.FrameSize
		centerX[i] = rng.Float32() * s.FrameSize
	}

	boxes = make([]float32, 0, s.NumBoxes*4)
	scores = make([]float32, 0, s.NumBoxes)
	for i := 0; i < s.NumBoxes; i++ {
		c := i % s.NumClusters
		cy := centerY[c] + (rng.Float32()-0.5)*s.ClusterSpread
		cx := centerX[c] + (rng.Float32()-0.5)*s.ClusterSpread
		h := s.ClusterSpread * (0.5 + rng.Float32())
		w := s.ClusterSpread * (0.5 + rng.Float32())
		boxes = append(boxes, cy-h/2, cx-w/2, cy+h/2, cx+w/2)
		scores = append(scores, rng.Float32())
	}
	return boxes, scores
}

package activations

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Default RReLU slope bounds, 1/8 and 1/3.
const (
	DefaultRReluLower = 0.125
	DefaultRReluUpper = 1.0 / 3.0
)

// RRelu computes the randomized leaky ReLU.
//
// Non-negative inputs pass through unchanged. Negative inputs are scaled by
// a slope alpha: during training alpha is drawn per element, uniformly from
// [lower, upper]; during inference it is the fixed midpoint (lower+upper)/2.
//
// Arguments:
//   - x: Input values.
//   - lower, upper: Slope bounds; 0 <= lower <= upper is required.
//   - training: Selects random versus midpoint slopes.
//   - rng: Source for the training-time draws. Pass a seeded *rand.Rand for
//     reproducible output; nil falls back to the shared global source.
//
// Returns:
//   - y: The activated values.
//   - alpha: The slope applied at each element (1 where x >= 0), which
//     RReluGrad needs to replay the exact forward pass.
//   - An error if the bounds are malformed.
func RRelu(x []float32, lower, upper float32, training bool, rng *rand.Rand) (y, alpha []float32, err error) {
	if lower < 0 || upper < lower {
		return nil, nil, errors.Errorf("rrelu bounds must satisfy 0 <= lower <= upper, got [%g, %g]", lower, upper)
	}
	y = make([]float32, len(x))
	alpha = make([]float32, len(x))
	for i, v := range x {
		if v >= 0 {
			y[i] = v
			alpha[i] = 1
			continue
		}
		a := (lower + upper) / 2
		if training {
			a = lower + uniform(rng)*(upper-lower)
		}
		y[i] = a * v
		alpha[i] = a
	}
	return y, alpha, nil
}

// RReluGrad backpropagates through RRelu using the alpha slopes recorded by
// the forward pass.
func RReluGrad(grad, alpha []float32) ([]float32, error) {
	if len(grad) != len(alpha) {
		return nil, errors.Errorf("gradient/alpha length mismatch: %d vs %d", len(grad), len(alpha))
	}
	dx := make([]float32, len(grad))
	for i, g := range grad {
		dx[i] = g * alpha[i]
	}
	return dx, nil
}

func uniform(rng *rand.Rand) float32 {
	if rng == nil {
		return rand.Float32()
	}
	return rng.Float32()
}

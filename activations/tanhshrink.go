// Package activations - elementwise activation kernels and their gradients.
//
// These are pure slice transforms: one value in, one value out, no state.
// They pair with the suppression engine the same way the original native
// ops shipped together inside detection pipelines.
package activations

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Tanhshrink computes x - tanh(x) for every element and returns a freshly
// allocated result.
func Tanhshrink(x []float32) []float32 {
	y := make([]float32, len(x))
	for i, v := range x {
		y[i] = v - math32.Tanh(v)
	}
	return y
}

// TanhshrinkGrad backpropagates through Tanhshrink. The derivative of
// x - tanh(x) is tanh²(x), so each upstream gradient is scaled by the
// squared tanh of the corresponding forward input.
func TanhshrinkGrad(grad, x []float32) ([]float32, error) {
	if len(grad) != len(x) {
		return nil, errors.Errorf("gradient/input length mismatch: %d vs %d", len(grad), len(x))
	}
	dx := make([]float32, len(x))
	for i, v := range x {
		th := math32.Tanh(v)
		dx[i] = grad[i] * th * th
	}
	return dx, nil
}

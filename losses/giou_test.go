package losses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGIoU verifies the metric against hand-computed values.
func TestGIoU(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical boxes",
			a:        []float32{0, 0, 10, 10},
			b:        []float32{0, 0, 10, 10},
			expected: 1.0,
		},
		{
			name: "partial overlap",
			a:    []float32{0, 0, 10, 10},
			b:    []float32{5, 5, 15, 15},
			// IoU = 25/175; enclosure 15x15 = 225, union 175.
			expected: 25.0/175.0 - 50.0/225.0,
		},
		{
			name: "disjoint boxes are penalized by the enclosure",
			a:    []float32{0, 0, 10, 10},
			b:    []float32{20, 20, 30, 30},
			// IoU 0; enclosure 30x30 = 900, union 200.
			expected: -700.0 / 900.0,
		},
		{
			name: "inverted corners are canonicalized",
			a:    []float32{10, 10, 0, 0},
			b:    []float32{0, 0, 10, 10},
			expected: 1.0,
		},
		{
			name:     "zero-area boxes at the same point",
			a:        []float32{5, 5, 5, 5},
			b:        []float32{5, 5, 5, 5},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, GIoU(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.expected, GIoU(tt.b, tt.a), 1e-9)
		})
	}
}

// TestGIoULoss verifies the per-pair loss vector and its validation.
func TestGIoULoss(t *testing.T) {
	yTrue := []float32{
		0, 0, 10, 10,
		0, 0, 10, 10,
	}
	yPred := []float32{
		0, 0, 10, 10,
		20, 20, 30, 30,
	}

	loss, err := GIoULoss(yTrue, yPred)
	require.NoError(t, err)
	require.Len(t, loss, 2)
	assert.InDelta(t, 0.0, float64(loss[0]), 1e-6)
	assert.InDelta(t, 1.0+700.0/900.0, float64(loss[1]), 1e-6)

	_, err = GIoULoss(yTrue, yPred[:4])
	assert.Error(t, err)
	_, err = GIoULoss(yTrue[:3], yPred[:3])
	assert.Error(t, err)
}

// TestGIoULossFloat64 exercises the float64 instantiation.
func TestGIoULossFloat64(t *testing.T) {
	loss, err := GIoULoss([]float64{0, 0, 1, 1}, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, loss)
}

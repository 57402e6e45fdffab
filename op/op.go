// Package op - a name-keyed dispatch boundary exposing the suppression,
// activation, and loss kernels over dense tensors.
//
// This is strictly an adapter: it validates tensor shapes and element
// types, unpacks the backing arrays, and hands them to the pure kernels.
// No algorithmic logic lives here.
package op

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-nms/activations"
	"github.com/nvr-ai/go-nms/suppress"
)

// Name identifies a registered kernel.
type Name string

const (
	// OpNonMaxSuppression selects box indices by greedy NMS.
	OpNonMaxSuppression Name = "NonMaxSuppression"
	// OpTanhshrink computes x - tanh(x) elementwise.
	OpTanhshrink Name = "Tanhshrink"
	// OpTanhshrinkGrad backpropagates through Tanhshrink.
	OpTanhshrinkGrad Name = "TanhshrinkGrad"
	// OpRrelu computes the randomized leaky ReLU.
	OpRrelu Name = "Rrelu"
	// OpRreluGrad backpropagates through Rrelu.
	OpRreluGrad Name = "RreluGrad"
	// OpGiouLoss computes 1 - GIoU per box pair.
	OpGiouLoss Name = "GiouLoss"
)

// Attrs carries the scalar attributes of an op invocation. Zero it via
// NewAttrs so thresholds and slope bounds get their documented defaults.
type Attrs struct {
	// NonMaxSuppression.
	MaxOutputSize  int
	IoUThreshold   float64
	ScoreThreshold float64

	// Rrelu / RreluGrad.
	Lower    float32
	Upper    float32
	Training bool
	Rand     *rand.Rand
}

// NewAttrs returns Attrs with the default suppression thresholds (score
// filtering disabled) and the default RRelu slope bounds.
func NewAttrs() Attrs {
	return Attrs{
		MaxOutputSize:  math.MaxInt32,
		IoUThreshold:   suppress.DefaultIoUThreshold,
		ScoreThreshold: math.Inf(-1),
		Lower:          activations.DefaultRReluLower,
		Upper:          activations.DefaultRReluUpper,
	}
}

// Op is a kernel bound to a registered name.
type Op interface {
	// Name returns the name the kernel is registered under.
	Name() Name
	// Apply validates the inputs and runs the kernel. Every output tensor
	// is freshly allocated; inputs are never written to.
	Apply(attrs Attrs, inputs ...*tensor.Dense) ([]*tensor.Dense, error)
}

// arity rejects a wrong input count up front so the kernels can index
// inputs without re-checking.
func arity(name Name, want int, inputs []*tensor.Dense) error {
	if len(inputs) != want {
		return errors.Errorf("%s expects %d input tensors, got %d", name, want, len(inputs))
	}
	return nil
}

// boxMatrix validates an [N, 4] box tensor of either float type and
// returns N.
func boxMatrix(name Name, which string, t *tensor.Dense) (int, error) {
	if t.Dtype() != tensor.Float32 && t.Dtype() != tensor.Float64 {
		return 0, errors.Errorf("%s %s must be float32 or float64, got %v", name, which, t.Dtype())
	}
	if t.Dims() != 2 || t.Shape()[1] != 4 {
		return 0, errors.Errorf("%s %s must be shaped [N, 4], got %v", name, which, t.Shape())
	}
	return t.Shape()[0], nil
}

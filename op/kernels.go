package op

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-nms/activations"
	"github.com/nvr-ai/go-nms/losses"
	"github.com/nvr-ai/go-nms/suppress"
)

// nonMaxSuppressionOp selects surviving box indices by greedy NMS.
//
// Inputs: boxes [N, 4], scores [N], float32 or float64 (both the same).
// Output: the surviving indices as an int32 vector, descending-score order.
type nonMaxSuppressionOp struct{}

func (nonMaxSuppressionOp) Name() Name { return OpNonMaxSuppression }

func (o nonMaxSuppressionOp) Apply(attrs Attrs, inputs ...*tensor.Dense) ([]*tensor.Dense, error) {
	if err := arity(o.Name(), 2, inputs); err != nil {
		return nil, err
	}
	boxes, scores := inputs[0], inputs[1]

	n, err := boxMatrix(o.Name(), "boxes", boxes)
	if err != nil {
		return nil, err
	}
	if scores.Dims() != 1 {
		return nil, errors.Errorf("%s scores must be rank 1, got shape %v", o.Name(), scores.Shape())
	}
	if scores.Shape()[0] != n {
		return nil, errors.Errorf("%s got %d boxes but %d scores", o.Name(), n, scores.Shape()[0])
	}
	if boxes.Dtype() != scores.Dtype() {
		return nil, errors.Errorf("%s boxes (%v) and scores (%v) must share an element type", o.Name(), boxes.Dtype(), scores.Dtype())
	}

	p := suppress.Params{
		MaxOutputSize:  attrs.MaxOutputSize,
		IoUThreshold:   attrs.IoUThreshold,
		ScoreThreshold: attrs.ScoreThreshold,
	}
	var picked []int
	switch boxes.Dtype() {
	case tensor.Float32:
		picked, err = suppress.Suppress(boxes.Data().([]float32), scores.Data().([]float32), p)
	case tensor.Float64:
		picked, err = suppress.Suppress(boxes.Data().([]float64), scores.Data().([]float64), p)
	}
	if err != nil {
		return nil, err
	}

	out := make([]int32, len(picked))
	for i, idx := range picked {
		out[i] = int32(idx)
	}
	return []*tensor.Dense{tensor.New(tensor.WithShape(len(out)), tensor.WithBacking(out))}, nil
}

// tanhshrinkOp computes x - tanh(x) elementwise on a float32 tensor of any
// shape.
type tanhshrinkOp struct{}

func (tanhshrinkOp) Name() Name { return OpTanhshrink }

func (o tanhshrinkOp) Apply(_ Attrs, inputs ...*tensor.Dense) ([]*tensor.Dense, error) {
	if err := arity(o.Name(), 1, inputs); err != nil {
		return nil, err
	}
	x, err := elementsFloat32(o.Name(), "input", inputs[0])
	if err != nil {
		return nil, err
	}
	y := activations.Tanhshrink(x)
	return []*tensor.Dense{tensor.New(tensor.WithShape(inputs[0].Shape()...), tensor.WithBacking(y))}, nil
}

// tanhshrinkGradOp backpropagates through Tanhshrink.
//
// Inputs: upstream gradients and the forward-pass inputs, same shape.
type tanhshrinkGradOp struct{}

func (tanhshrinkGradOp) Name() Name { return OpTanhshrinkGrad }

func (o tanhshrinkGradOp) Apply(_ Attrs, inputs ...*tensor.Dense) ([]*tensor.Dense, error) {
	if err := arity(o.Name(), 2, inputs); err != nil {
		return nil, err
	}
	grad, err := elementsFloat32(o.Name(), "gradients", inputs[0])
	if err != nil {
		return nil, err
	}
	x, err := elementsFloat32(o.Name(), "features", inputs[1])
	if err != nil {
		return nil, err
	}
	dx, err := activations.TanhshrinkGrad(grad, x)
	if err != nil {
		return nil, err
	}
	return []*tensor.Dense{tensor.New(tensor.WithShape(inputs[0].Shape()...), tensor.WithBacking(dx))}, nil
}

// rreluOp computes the randomized leaky ReLU.
//
// Outputs: the activations and the per-element alpha slopes the gradient
// op replays.
type rreluOp struct{}

func (rreluOp) Name() Name { return OpRrelu }

func (o rreluOp) Apply(attrs Attrs, inputs ...*tensor.Dense) ([]*tensor.Dense, error) {
	if err := arity(o.Name(), 1, inputs); err != nil {
		return nil, err
	}
	x, err := elementsFloat32(o.Name(), "input", inputs[0])
	if err != nil {
		return nil, err
	}
	y, alpha, err := activations.RRelu(x, attrs.Lower, attrs.Upper, attrs.Training, attrs.Rand)
	if err != nil {
		return nil, err
	}
	shape := inputs[0].Shape()
	return []*tensor.Dense{
		tensor.New(tensor.WithShape(shape...), tensor.WithBacking(y)),
		tensor.New(tensor.WithShape(shape...), tensor.WithBacking(alpha)),
	}, nil
}

// rreluGradOp backpropagates through Rrelu using the recorded alphas.
type rreluGradOp struct{}

func (rreluGradOp) Name() Name { return OpRreluGrad }

func (o rreluGradOp) Apply(_ Attrs, inputs ...*tensor.Dense) ([]*tensor.Dense, error) {
	if err := arity(o.Name(), 2, inputs); err != nil {
		return nil, err
	}
	grad, err := elementsFloat32(o.Name(), "gradients", inputs[0])
	if err != nil {
		return nil, err
	}
	alpha, err := elementsFloat32(o.Name(), "alpha", inputs[1])
	if err != nil {
		return nil, err
	}
	dx, err := activations.RReluGrad(grad, alpha)
	if err != nil {
		return nil, err
	}
	return []*tensor.Dense{tensor.New(tensor.WithShape(inputs[0].Shape()...), tensor.WithBacking(dx))}, nil
}

// giouLossOp computes 1 - GIoU per (truth, prediction) box pair.
//
// Inputs: y_true and y_pred, both [N, 4] with matching float types.
// Output: an [N] loss vector of the same element type.
type giouLossOp struct{}

func (giouLossOp) Name() Name { return OpGiouLoss }

func (o giouLossOp) Apply(_ Attrs, inputs ...*tensor.Dense) ([]*tensor.Dense, error) {
	if err := arity(o.Name(), 2, inputs); err != nil {
		return nil, err
	}
	yTrue, yPred := inputs[0], inputs[1]

	n, err := boxMatrix(o.Name(), "y_true", yTrue)
	if err != nil {
		return nil, err
	}
	m, err := boxMatrix(o.Name(), "y_pred", yPred)
	if err != nil {
		return nil, err
	}
	if n != m {
		return nil, errors.Errorf("%s got %d truth boxes but %d predictions", o.Name(), n, m)
	}
	if yTrue.Dtype() != yPred.Dtype() {
		return nil, errors.Errorf("%s y_true (%v) and y_pred (%v) must share an element type", o.Name(), yTrue.Dtype(), yPred.Dtype())
	}

	switch yTrue.Dtype() {
	case tensor.Float32:
		loss, err := losses.GIoULoss(yTrue.Data().([]float32), yPred.Data().([]float32))
		if err != nil {
			return nil, err
		}
		return []*tensor.Dense{tensor.New(tensor.WithShape(n), tensor.WithBacking(loss))}, nil
	default:
		loss, err := losses.GIoULoss(yTrue.Data().([]float64), yPred.Data().([]float64))
		if err != nil {
			return nil, err
		}
		return []*tensor.Dense{tensor.New(tensor.WithShape(n), tensor.WithBacking(loss))}, nil
	}
}

// elementsFloat32 unpacks the backing array of a float32 tensor of any
// rank.
func elementsFloat32(name Name, which string, t *tensor.Dense) ([]float32, error) {
	if t.Dtype() != tensor.Float32 {
		return nil, errors.Errorf("%s %s must be float32, got %v", name, which, t.Dtype())
	}
	x, ok := t.Data().([]float32)
	if !ok {
		// Rank-0 tensors surface their data as a bare scalar.
		return nil, errors.Errorf("%s %s must not be a scalar", name, which)
	}
	return x, nil
}

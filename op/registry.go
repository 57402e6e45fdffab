package op

import "github.com/pkg/errors"

// New returns the kernel registered under the given name.
//
// This factory is the single entry point for hosts dispatching by op name,
// in the same way native frameworks look kernels up from a registration
// table.
//
// Arguments:
//   - name: One of the Op* constants.
//
// Returns:
//   - Op: The kernel bound to that name.
//   - error: If no kernel is registered under the name.
func New(name Name) (Op, error) {
	switch name {
	case OpNonMaxSuppression:
		return nonMaxSuppressionOp{}, nil
	case OpTanhshrink:
		return tanhshrinkOp{}, nil
	case OpTanhshrinkGrad:
		return tanhshrinkGradOp{}, nil
	case OpRrelu:
		return rreluOp{}, nil
	case OpRreluGrad:
		return rreluGradOp{}, nil
	case OpGiouLoss:
		return giouLossOp{}, nil
	default:
		return nil, errors.Errorf("unsupported op name: %s", name)
	}
}

// Names lists every registered kernel name.
func Names() []Name {
	return []Name{
		OpNonMaxSuppression,
		OpTanhshrink,
		OpTanhshrinkGrad,
		OpRrelu,
		OpRreluGrad,
		OpGiouLoss,
	}
}

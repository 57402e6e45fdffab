// Package losses - bounding-box regression losses.
package losses

import (
	"math"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-nms/suppress"
)

// GIoULoss computes 1 - GIoU for every (truth, prediction) box pair.
//
// Both inputs are flat, four values (y1, x1, y2, x2) per box, and must have
// the same length. Unlike the suppression engine, corners here are
// canonicalized per box before any area math, so an inverted box is read as
// its upright equivalent. The loss ranges over [0, 2]: 0 for identical
// boxes, above 1 when the boxes are disjoint and far apart.
func GIoULoss[T suppress.Real](yTrue, yPred []T) ([]T, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.Errorf("truth/prediction length mismatch: %d vs %d", len(yTrue), len(yPred))
	}
	if len(yTrue)%4 != 0 {
		return nil, errors.Errorf("box arrays must hold 4 values per box, got length %d", len(yTrue))
	}
	n := len(yTrue) / 4
	loss := make([]T, n)
	for i := 0; i < n; i++ {
		loss[i] = T(1 - GIoU(yTrue[i*4:i*4+4], yPred[i*4:i*4+4]))
	}
	return loss, nil
}

// GIoU returns the generalized Intersection-over-Union of two boxes:
//
//	GIoU = IoU - (enclose - union) / enclose
//
// where enclose is the area of the smallest axis-aligned box containing
// both inputs. The second term penalizes disjoint boxes by how much empty
// space the enclosure wastes, which gives the metric a useful gradient even
// at zero overlap. Ranges over [-1, 1].
func GIoU[T suppress.Real](a, b []T) float64 {
	ay1, ax1, ay2, ax2 := canon(a)
	by1, bx1, by2, bx2 := canon(b)

	iy1 := math.Max(ay1, by1)
	ix1 := math.Max(ax1, bx1)
	iy2 := math.Min(ay2, by2)
	ix2 := math.Min(ax2, bx2)
	inter := math.Max(0, iy2-iy1) * math.Max(0, ix2-ix1)

	union := (ay2-ay1)*(ax2-ax1) + (by2-by1)*(bx2-bx1) - inter
	iou := 0.0
	if union > 0 {
		iou = inter / union
	}

	ey1 := math.Min(ay1, by1)
	ex1 := math.Min(ax1, bx1)
	ey2 := math.Max(ay2, by2)
	ex2 := math.Max(ax2, bx2)
	enclose := (ey2 - ey1) * (ex2 - ex1)
	if enclose <= 0 {
		return iou
	}
	return iou - (enclose-union)/enclose
}

// canon reads a 4-value box with each coordinate pair swapped into
// (min, max) order.
func canon[T suppress.Real](b []T) (y1, x1, y2, x2 float64) {
	y1 = math.Min(float64(b[0]), float64(b[2]))
	x1 = math.Min(float64(b[1]), float64(b[3]))
	y2 = math.Max(float64(b[0]), float64(b[2]))
	x2 = math.Max(float64(b[1]), float64(b[3]))
	return y1, x1, y2, x2
}

package suppress

import "math"

// Boxes are stored flat, four values per candidate, in (y1, x1, y2, x2)
// order. Nothing here canonicalizes corners: a box whose corners are
// inverted simply has non-positive area, and the overlap math below is
// written to tolerate that.

// IoU returns the Intersection-over-Union of boxes i and j.
//
// The intersection rectangle spans from the maximum of the two top-left
// corners to the minimum of the two bottom-right corners, with its width
// and height clamped to zero so that disjoint boxes score exactly 0. The
// union follows the inclusion-exclusion principle:
//
//	Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
//
// Areas come straight from the raw coordinates, so a degenerate box
// contributes zero or negative area. Whenever the union is not strictly
// positive the IoU is defined as 0 rather than dividing by zero.
//
// All arithmetic runs in float64 regardless of the element type, which
// keeps cancellation error in check for large coordinate magnitudes.
func IoU[T Real](boxes []T, i, j int) float64 {
	ay1, ax1, ay2, ax2 := at(boxes, i)
	by1, bx1, by2, bx2 := at(boxes, j)

	iy1 := math.Max(ay1, by1)
	ix1 := math.Max(ax1, bx1)
	iy2 := math.Min(ay2, by2)
	ix2 := math.Min(ax2, bx2)

	inter := math.Max(0, iy2-iy1) * math.Max(0, ix2-ix1)
	union := (ay2-ay1)*(ax2-ax1) + (by2-by1)*(bx2-bx1) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// at reads the four corners of box i as float64.
func at[T Real](boxes []T, i int) (y1, x1, y2, x2 float64) {
	b := boxes[i*4 : i*4+4]
	return float64(b[0]), float64(b[1]), float64(b[2]), float64(b[3])
}

// canonical returns box i's corners swapped into (min, max) order, in the
// (x1, y1, x2, y2) argument order the spatial index expects. Only the
// coarse pruning pass uses this; the exact IoU always sees raw corners.
func canonical[T Real](boxes []T, i int) (x1, y1, x2, y2 float64) {
	by1, bx1, by2, bx2 := at(boxes, i)
	return math.Min(bx1, bx2), math.Min(by1, by2), math.Max(bx1, bx2), math.Max(by1, by2)
}

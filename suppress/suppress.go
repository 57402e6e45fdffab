// Package suppress - greedy Non-Maximum Suppression over detection candidates.
//
// The engine is a pure function from (boxes, scores, parameters) to the
// ordered indices of the surviving candidates. It holds no state across
// calls, so independent calls are safe to run concurrently as long as the
// caller does not mutate the inputs mid-call.
package suppress

import (
	"math"
	"sort"

	flatbush "github.com/bmharper/flatbush-go"
	"github.com/pkg/errors"
)

// DefaultIoUThreshold is the overlap threshold used by NewParams. Lower
// values merge more candidates together.
const DefaultIoUThreshold = 0.45

// spatialIndexMinBoxes is the ranked-candidate count at which the greedy
// walk starts consulting a packed spatial index instead of scanning every
// admitted box. Below this the index build costs more than it saves.
const spatialIndexMinBoxes = 64

// Real is the element type of box coordinates and scores. Overlap math is
// carried out in float64 for either instantiation.
type Real interface {
	~float32 | ~float64
}

// Params configures one suppression call. The zero value is not useful;
// start from NewParams.
type Params struct {
	// MaxOutputSize caps the number of surviving indices. Must be >= 0.
	MaxOutputSize int
	// IoUThreshold is the overlap at or above which a lower-ranked box is
	// suppressed by an already-admitted one. Must be in [0, 1].
	IoUThreshold float64
	// ScoreThreshold discards candidates scoring below it before ranking.
	// The default of -Inf keeps every candidate.
	ScoreThreshold float64
}

// NewParams returns Params with the given output budget, the default IoU
// threshold, and score filtering disabled.
func NewParams(maxOutputSize int) Params {
	return Params{
		MaxOutputSize:  maxOutputSize,
		IoUThreshold:   DefaultIoUThreshold,
		ScoreThreshold: math.Inf(-1),
	}
}

// Validate reports the first malformed parameter, if any.
func (p Params) Validate() error {
	if p.MaxOutputSize < 0 {
		return errors.Errorf("max output size must be non-negative, got %d", p.MaxOutputSize)
	}
	if math.IsNaN(p.IoUThreshold) || p.IoUThreshold < 0 || p.IoUThreshold > 1 {
		return errors.Errorf("iou threshold must be in [0, 1], got %g", p.IoUThreshold)
	}
	return nil
}

// Suppress runs greedy Non-Maximum Suppression.
//
// Arguments:
//   - boxes: Flat candidate coordinates, four values (y1, x1, y2, x2) per
//     candidate. Corners are taken as given; degenerate boxes are legal.
//   - scores: One confidence value per candidate, aligned with boxes.
//   - p: Suppression parameters.
//
// Returns:
//   - The indices of the surviving candidates in descending-score order,
//     at most min(len(scores), p.MaxOutputSize) of them. Ties in score are
//     broken by ascending index, so identical inputs always produce
//     identical output.
//   - An error if the parameters are malformed or the slice lengths
//     disagree. Nothing is computed in that case.
func Suppress[T Real](boxes []T, scores []T, p Params) ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(boxes) != 4*len(scores) {
		return nil, errors.Errorf("boxes/scores length mismatch: %d coordinates for %d scores", len(boxes), len(scores))
	}

	ranked := rank(scores, p.ScoreThreshold)
	selected := selectGreedy(boxes, ranked, p)

	// The walk already stops at the budget; re-clamp anyway so assembly
	// never depends on it.
	if len(selected) > p.MaxOutputSize {
		selected = selected[:p.MaxOutputSize]
	}
	return selected, nil
}

// rank returns candidate indices ordered by descending score, ties broken
// by ascending index. Candidates scoring below scoreThreshold (and NaN
// scores, which compare false) are excluded outright.
func rank[T Real](scores []T, scoreThreshold float64) []int {
	ranked := make([]int, 0, len(scores))
	for i, s := range scores {
		if float64(s) >= scoreThreshold {
			ranked = append(ranked, i)
		}
	}
	sort.Slice(ranked, func(a, b int) bool {
		ia, ib := ranked[a], ranked[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ia < ib
	})
	return ranked
}

// selectGreedy walks the ranked candidates, admitting each one iff its IoU
// with every already-admitted box is strictly below the threshold. A
// discarded candidate is never reconsidered.
func selectGreedy[T Real](boxes []T, ranked []int, p Params) []int {
	selected := make([]int, 0, min(len(ranked), p.MaxOutputSize))
	if p.MaxOutputSize == 0 || len(ranked) == 0 {
		return selected
	}

	// Coarse pruning only helps when a conflict needs actual overlap
	// (threshold > 0): disjoint boxes never show up in an index query, but
	// at threshold 0 their IoU of 0 still counts as a conflict.
	if p.IoUThreshold > 0 && len(ranked) >= spatialIndexMinBoxes {
		return selectIndexed(boxes, ranked, p, selected)
	}

	for _, i := range ranked {
		if len(selected) == p.MaxOutputSize {
			break
		}
		admit := true
		for _, j := range selected {
			if IoU(boxes, i, j) >= p.IoUThreshold {
				admit = false
				break
			}
		}
		if admit {
			selected = append(selected, i)
		}
	}
	return selected
}

// selectIndexed is selectGreedy with a flatbush index over the ranked
// candidates, so each candidate only computes exact IoU against admitted
// boxes whose extents actually intersect its own.
func selectIndexed[T Real](boxes []T, ranked []int, p Params, selected []int) []int {
	fb := flatbush.NewFlatbush64()
	fb.Reserve(len(ranked))
	for _, i := range ranked {
		x1, y1, x2, y2 := canonical(boxes, i)
		fb.Add(x1, y1, x2, y2)
	}
	fb.Finish()

	// admitted is keyed by position in ranked order, which is also the
	// insertion order of the index.
	admitted := make([]bool, len(ranked))
	for k, i := range ranked {
		if len(selected) == p.MaxOutputSize {
			break
		}
		admit := true
		x1, y1, x2, y2 := canonical(boxes, i)
		// Search returns the stored item indices, which are positions in
		// ranked order here.
		for _, j := range fb.Search(x1, y1, x2, y2) {
			if !admitted[j] {
				continue
			}
			if IoU(boxes, i, ranked[j]) >= p.IoUThreshold {
				admit = false
				break
			}
		}
		if admit {
			admitted[k] = true
			selected = append(selected, i)
		}
	}
	return selected
}

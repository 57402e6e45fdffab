package suppress

import (
	"fmt"
	"math"
	"testing"
)

// BenchmarkSuppress measures the full rank + greedy-selection pipeline at
// candidate counts spanning the brute-force and spatially indexed walks.
func BenchmarkSuppress(b *testing.B) {
	for _, n := range []int{32, 100, 1000, 10000} {
		boxes, scores := randomCandidates(n, int64(n))
		p := Params{MaxOutputSize: n, IoUThreshold: 0.45, ScoreThreshold: math.Inf(-1)}

		b.Run(fmt.Sprintf("boxes-%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Suppress(boxes, scores, p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSuppressDense measures the worst case for the greedy walk: every
// candidate piled onto a handful of cluster centers.
func BenchmarkSuppressDense(b *testing.B) {
	const n = 2000
	boxes := make([]float32, 0, n*4)
	scores := make([]float32, 0, n)
	for i := 0; i < n; i++ {
		off := float32(i%10) * 2
		boxes = append(boxes, off, off, off+100, off+100)
		scores = append(scores, float32(n-i)/float32(n))
	}
	p := Params{MaxOutputSize: n, IoUThreshold: 0.45, ScoreThreshold: math.Inf(-1)}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Suppress(boxes, scores, p); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkIoU measures the overlap metric on its own.
func BenchmarkIoU(b *testing.B) {
	boxes := []float32{
		0, 0, 100, 100,
		50, 50, 150, 150,
	}
	var sink float64
	for i := 0; i < b.N; i++ {
		sink += IoU(boxes, 0, 1)
	}
	_ = sink
}

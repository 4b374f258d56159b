package systems

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSpatialHash_QueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	tests := []struct {
		name     string
		cellSize float64
		points   int
		spread   float64
	}{
		{"dense small cells", 10, 500, 200},
		{"default cells", 60, 2000, 4000},
		{"negative coords", 60, 800, 1000},
		{"huge cells", 1000, 300, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSpatialHash[int](tt.cellSize)
			xs := make([]float64, tt.points)
			ys := make([]float64, tt.points)
			offset := 0.0
			if tt.name == "negative coords" {
				offset = -tt.spread / 2
			}
			for i := 0; i < tt.points; i++ {
				xs[i] = offset + rng.Float64()*tt.spread
				ys[i] = offset + rng.Float64()*tt.spread
				h.Insert(xs[i], ys[i], i)
			}
			if h.Len() != tt.points {
				t.Fatalf("Len = %d, want %d", h.Len(), tt.points)
			}

			for q := 0; q < 200; q++ {
				qx := offset + rng.Float64()*tt.spread
				qy := offset + rng.Float64()*tt.spread
				r := rng.Float64() * tt.spread / 4

				var want []int
				for i := range xs {
					dx := xs[i] - qx
					dy := ys[i] - qy
					if dx*dx+dy*dy <= r*r {
						want = append(want, i)
					}
				}

				var got []int
				for _, e := range h.QueryNear(qx, qy, r) {
					got = append(got, e.Item)
				}
				sort.Ints(got)

				if len(got) != len(want) {
					t.Fatalf("query (%.1f,%.1f r=%.1f): got %d points, want %d", qx, qy, r, len(got), len(want))
				}
				for i := range got {
					if got[i] != want[i] {
						t.Fatalf("query (%.1f,%.1f r=%.1f): mismatch at %d: %d vs %d", qx, qy, r, i, got[i], want[i])
					}
				}
			}
		})
	}
}

func TestSpatialHash_ClearAndReuse(t *testing.T) {
	h := NewSpatialHash[string](60)
	h.Insert(10, 10, "a")
	h.Insert(500, 500, "b")

	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", h.Len())
	}
	if got := h.QueryNear(10, 10, 100); len(got) != 0 {
		t.Errorf("query after Clear returned %d entries", len(got))
	}

	h.Insert(12, 12, "c")
	got := h.QueryNear(10, 10, 5)
	if len(got) != 1 || got[0].Item != "c" {
		t.Errorf("query after reuse = %+v, want [c]", got)
	}

	// A second clear prunes buckets that stayed empty
	h.Clear()
	h.Clear()
	if len(h.cells) != 0 {
		t.Errorf("empty buckets kept: %d", len(h.cells))
	}
}

func TestSpatialHash_BoundaryInclusive(t *testing.T) {
	h := NewSpatialHash[int](60)
	h.Insert(100, 0, 1)

	if got := h.QueryNear(0, 0, 100); len(got) != 1 {
		t.Errorf("point at exactly radius not returned")
	}
	if got := h.QueryNear(0, 0, 99.999); len(got) != 0 {
		t.Errorf("point beyond radius returned")
	}
	if got := h.QueryNear(0, 0, -1); len(got) != 0 {
		t.Errorf("negative radius returned points")
	}
}

func TestSpatialHash_QueryIntoReusesSlice(t *testing.T) {
	h := NewSpatialHash[int](60)
	for i := 0; i < 10; i++ {
		h.Insert(float64(i), 0, i)
	}

	buf := make([]Entry[int], 0, 32)
	buf = h.QueryNearInto(buf[:0], 0, 0, 100)
	if len(buf) != 10 {
		t.Fatalf("got %d, want 10", len(buf))
	}
	first := &buf[0]
	buf = h.QueryNearInto(buf[:0], 0, 0, 100)
	if &buf[0] != first {
		t.Error("QueryNearInto reallocated despite sufficient capacity")
	}
}

// Package systems holds the simulation rules of the arena: spatial indexing,
// kinematics, food effects and collision policy.
package systems

import "math"

// Entry is an indexed point with its payload.
type Entry[T any] struct {
	X, Y float64
	Item T
}

// BodyRef is the payload of an indexed body segment: the owning agent's
// index in the world's agent slice.
type BodyRef struct {
	Agent int
}

type cellKey struct {
	cx, cy int
}

// SpatialHash is a uniform-grid index over points, rebuilt every tick.
// Buckets are created on demand so the world does not need to be bounded.
type SpatialHash[T any] struct {
	cellSize float64
	cells    map[cellKey][]Entry[T]
	count    int
}

// NewSpatialHash creates an index with the given cell size.
func NewSpatialHash[T any](cellSize float64) *SpatialHash[T] {
	return &SpatialHash[T]{
		cellSize: cellSize,
		cells:    make(map[cellKey][]Entry[T]),
	}
}

// CellSize returns the cell size fixed at construction.
func (h *SpatialHash[T]) CellSize() float64 {
	return h.cellSize
}

// Clear empties every bucket. Buckets left empty by the previous
// rebuild are dropped, the rest keep their backing arrays.
func (h *SpatialHash[T]) Clear() {
	for k, bucket := range h.cells {
		if len(bucket) == 0 {
			delete(h.cells, k)
			continue
		}
		h.cells[k] = bucket[:0]
	}
	h.count = 0
}

// Insert adds a point to the bucket containing it.
func (h *SpatialHash[T]) Insert(x, y float64, item T) {
	k := h.key(x, y)
	h.cells[k] = append(h.cells[k], Entry[T]{X: x, Y: y, Item: item})
	h.count++
}

// Len returns the number of inserted points.
func (h *SpatialHash[T]) Len() int {
	return h.count
}

// QueryNearInto appends every entry within radius of (x, y) to dst and
// returns the updated slice. Reuse dst across calls to avoid allocations.
// Results are unordered.
func (h *SpatialHash[T]) QueryNearInto(dst []Entry[T], x, y, radius float64) []Entry[T] {
	if radius < 0 || h.count == 0 {
		return dst
	}

	reach := int(math.Ceil(radius / h.cellSize))
	center := h.key(x, y)
	radiusSq := radius * radius

	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			bucket, ok := h.cells[cellKey{center.cx + dx, center.cy + dy}]
			if !ok {
				continue
			}
			for _, e := range bucket {
				ex := e.X - x
				ey := e.Y - y
				if ex*ex+ey*ey <= radiusSq {
					dst = append(dst, e)
				}
			}
		}
	}

	return dst
}

// QueryNear returns all entries within radius of (x, y).
func (h *SpatialHash[T]) QueryNear(x, y, radius float64) []Entry[T] {
	return h.QueryNearInto(nil, x, y, radius)
}

func (h *SpatialHash[T]) key(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x / h.cellSize)),
		cy: int(math.Floor(y / h.cellSize)),
	}
}

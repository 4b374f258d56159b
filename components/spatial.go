package components

import "math"

// Point is a plain 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Position is the ECS position component of a food entity.
type Position struct {
	X, Y float64
}

// Point converts the position to a Point.
func (p Position) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

package systems

import (
	"math"

	"github.com/pthm-cable/snakearena/components"
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeAngle wraps an angle to (-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a+math.Pi, twoPi)
	if a < 0 {
		a += twoPi
	}
	a -= math.Pi
	if a <= -math.Pi {
		return math.Pi
	}
	return a
}

// AngleTo returns the heading from one point toward another.
func AngleTo(from, to components.Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// BlendAngles mixes two headings by averaging their unit vectors.
// weight 0 returns a, weight 1 returns b.
func BlendAngles(a, b, weight float64) float64 {
	x := math.Cos(a)*(1-weight) + math.Cos(b)*weight
	y := math.Sin(a)*(1-weight) + math.Sin(b)*weight
	return math.Atan2(y, x)
}

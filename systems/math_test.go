package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/snakearena/components"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, -math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
		{-7 * math.Pi / 2, math.Pi / 2},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("NormalizeAngle(%v) = %v out of (-pi, pi]", tt.in, got)
		}
	}
}

func TestBlendAngles(t *testing.T) {
	tests := []struct {
		name    string
		a, b, w float64
		want    float64
	}{
		{"weight zero", 0.3, 2.0, 0, 0.3},
		{"weight one", 0.3, 2.0, 1, 2.0},
		{"halfway", 0, math.Pi / 2, 0.5, math.Pi / 4},
		// Naive averaging of 170 and -170 degrees would point at 0
		{"across wrap", 170 * math.Pi / 180, -170 * math.Pi / 180, 0.5, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BlendAngles(tt.a, tt.b, tt.w)
			if math.Abs(NormalizeAngle(got-tt.want)) > 1e-9 {
				t.Errorf("BlendAngles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngleTo(t *testing.T) {
	got := AngleTo(components.Point{X: 0, Y: 0}, components.Point{X: 0, Y: 10})
	if math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("AngleTo = %v, want pi/2", got)
	}
}

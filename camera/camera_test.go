package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 800, 4000, 3000)

	if cam.X != 2000 || cam.Y != 1500 {
		t.Errorf("expected camera at (2000, 1500), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 800, 4000, 3000)

	sx, sy := cam.WorldToScreen(2000, 1500)
	if !near(sx, 640) || !near(sy, 400) {
		t.Errorf("expected screen center (640, 400), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 800, 4000, 3000)
	cam.SetZoom(1.7)
	cam.CenterOn(900, 1200)

	testCases := []struct{ sx, sy float32 }{
		{640, 400},  // center
		{100, 100},  // top-left
		{1200, 700}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestFollowClampsToWorld(t *testing.T) {
	tests := []struct {
		name         string
		tx, ty       float32
		wantX, wantY float32
	}{
		{"interior", 2000, 1500, 2000, 1500},
		{"top-left corner", 0, 0, 640, 400},
		{"bottom-right corner", 4000, 3000, 3360, 2600},
		{"left edge", 100, 1500, 640, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(1280, 800, 4000, 3000)
			cam.Smoothing = 0
			cam.Follow(tt.tx, tt.ty, 1.0/60)
			if !near(cam.X, tt.wantX) || !near(cam.Y, tt.wantY) {
				t.Errorf("camera at (%f, %f), want (%f, %f)", cam.X, cam.Y, tt.wantX, tt.wantY)
			}

			minX, minY, maxX, maxY := cam.VisibleWorldBounds()
			if minX < -0.01 || minY < -0.01 || maxX > 4000.01 || maxY > 3000.01 {
				t.Errorf("view (%f,%f)-(%f,%f) leaves the world", minX, minY, maxX, maxY)
			}
		})
	}
}

func TestFollowSmoothing(t *testing.T) {
	cam := New(1280, 800, 4000, 3000)
	cam.Follow(2100, 1500, 1.0/60)

	if cam.X <= 2000 || cam.X >= 2100 {
		t.Errorf("smoothed X = %f, want strictly between 2000 and 2100", cam.X)
	}

	for i := 0; i < 300; i++ {
		cam.Follow(2100, 1500, 1.0/60)
	}
	if !near(cam.X, 2100) {
		t.Errorf("camera did not converge: X = %f", cam.X)
	}
}

func TestSmallWorldIsCentered(t *testing.T) {
	cam := New(1280, 800, 1000, 600)
	cam.Smoothing = 0
	cam.Follow(50, 50, 1.0/60)

	if cam.X != 500 || cam.Y != 300 {
		t.Errorf("camera at (%f, %f), want world center (500, 300)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 800, 4000, 3000)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 800, 4000, 3000)

	if !cam.IsVisible(2000, 1500, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(100, 100, 10) {
		t.Error("far corner should not be visible")
	}
	// Just outside the right edge but within radius
	if !cam.IsVisible(2000+640+5, 1500, 10) {
		t.Error("circle overlapping the edge should be visible")
	}
}

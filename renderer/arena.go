package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snakearena/camera"
	"github.com/pthm-cable/snakearena/game"
)

// DrawOptions selects optional arena layers.
type DrawOptions struct {
	Names      bool
	Grid       bool    // spatial hash cells
	HitRadii   bool    // collision radius around every body segment
	CellSize   float32 // spatial hash cell size, for Grid
	HitRadius  float32
	BodySkip   int     // leading segments others cannot hit, for HitRadii
	TimeSec    float32 // drives blinking
	Background rl.Color
}

// ArenaRenderer draws the world floor, food and snakes.
type ArenaRenderer struct {
	worldW, worldH float32
	segmentRadius  float32
	gridSpacing    float32
}

// NewArenaRenderer creates a renderer for a world of the given size.
func NewArenaRenderer(worldW, worldH, segmentRadius float32) *ArenaRenderer {
	return &ArenaRenderer{
		worldW:        worldW,
		worldH:        worldH,
		segmentRadius: segmentRadius,
		gridSpacing:   100,
	}
}

// Draw renders one frame of the arena.
func (r *ArenaRenderer) Draw(cam *camera.Camera, agents []game.AgentView, foods []game.FoodView, opts DrawOptions) {
	rl.ClearBackground(opts.Background)
	r.drawFloor(cam)
	if opts.Grid && opts.CellSize > 0 {
		r.drawGrid(cam, opts.CellSize, rl.Color{R: 90, G: 60, B: 60, A: 90})
	}

	for i := range foods {
		r.drawFood(cam, &foods[i])
	}

	// Player last so it stays on top
	for i := range agents {
		if !agents[i].IsPlayer {
			r.drawAgent(cam, &agents[i], opts)
		}
	}
	for i := range agents {
		if agents[i].IsPlayer {
			r.drawAgent(cam, &agents[i], opts)
		}
	}

	if opts.HitRadii {
		for i := range agents {
			r.drawHitRadii(cam, &agents[i], opts)
		}
	}
}

func (r *ArenaRenderer) drawFloor(cam *camera.Camera) {
	r.drawGrid(cam, r.gridSpacing, rl.Color{R: 40, G: 44, B: 52, A: 255})

	// Arena boundary
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(r.worldW, r.worldH)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 4, rl.Color{R: 200, G: 60, B: 60, A: 255})
}

func (r *ArenaRenderer) drawGrid(cam *camera.Camera, spacing float32, color rl.Color) {
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	minX = max(0, float32(math.Floor(float64(minX/spacing)))*spacing)
	minY = max(0, float32(math.Floor(float64(minY/spacing)))*spacing)
	maxX = min(r.worldW, maxX)
	maxY = min(r.worldH, maxY)

	for x := minX; x <= maxX; x += spacing {
		sx, sy0 := cam.WorldToScreen(x, minY)
		_, sy1 := cam.WorldToScreen(x, maxY)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy0}, rl.Vector2{X: sx, Y: sy1}, color)
	}
	for y := minY; y <= maxY; y += spacing {
		sx0, sy := cam.WorldToScreen(minX, y)
		sx1, _ := cam.WorldToScreen(maxX, y)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy}, rl.Vector2{X: sx1, Y: sy}, color)
	}
}

func (r *ArenaRenderer) drawFood(cam *camera.Camera, f *game.FoodView) {
	x, y, rad := float32(f.X), float32(f.Y), float32(f.Radius)
	if !cam.IsVisible(x, y, rad) {
		return
	}
	sx, sy := cam.WorldToScreen(x, y)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, rad*cam.Zoom, FoodColor(f.Kind))
}

func (r *ArenaRenderer) drawAgent(cam *camera.Camera, a *game.AgentView, opts DrawOptions) {
	if len(a.Segments) == 0 {
		return
	}
	skin := SkinColors(a.SkinID)
	radius := r.segmentRadius * (1 + 0.08*float32(a.Stage)) * cam.Zoom

	body, head := skin.Body, skin.Head
	if a.Invincible && math.Mod(float64(opts.TimeSec), 0.4) < 0.2 {
		body.A, head.A = 110, 110
	}

	// Tail first so the head overlaps
	for i := len(a.Segments) - 1; i >= 1; i-- {
		s := a.Segments[i]
		if !cam.IsVisible(float32(s.X), float32(s.Y), r.segmentRadius*2) {
			continue
		}
		sx, sy := cam.WorldToScreen(float32(s.X), float32(s.Y))
		if a.Boosting {
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius*1.35, rl.Fade(skin.Head, 0.25))
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, body)
	}

	h := a.Segments[0]
	hx, hy := cam.WorldToScreen(float32(h.X), float32(h.Y))
	if a.Magnet {
		rl.DrawCircleLines(int32(hx), int32(hy), radius*3, rl.Color{R: 230, G: 60, B: 230, A: 160})
	}
	rl.DrawCircleV(rl.Vector2{X: hx, Y: hy}, radius*1.1, head)

	// Eyes
	cos, sin := float32(math.Cos(a.Direction)), float32(math.Sin(a.Direction))
	for _, side := range []float32{-1, 1} {
		ex := hx + (cos*0.45-sin*0.45*side)*radius
		ey := hy + (sin*0.45+cos*0.45*side)*radius
		rl.DrawCircleV(rl.Vector2{X: ex, Y: ey}, radius*0.3, rl.White)
		rl.DrawCircleV(rl.Vector2{X: ex + cos*radius*0.1, Y: ey + sin*radius*0.1}, radius*0.15, rl.Black)
	}

	if opts.Names {
		size := int32(14)
		w := rl.MeasureText(a.Name, size)
		rl.DrawText(a.Name, int32(hx)-w/2, int32(hy-radius*2.5), size, rl.RayWhite)
	}
}

func (r *ArenaRenderer) drawHitRadii(cam *camera.Camera, a *game.AgentView, opts DrawOptions) {
	for i := opts.BodySkip; i < len(a.Segments); i++ {
		s := a.Segments[i]
		if !cam.IsVisible(float32(s.X), float32(s.Y), opts.HitRadius) {
			continue
		}
		sx, sy := cam.WorldToScreen(float32(s.X), float32(s.Y))
		rl.DrawCircleLines(int32(sx), int32(sy), opts.HitRadius*cam.Zoom, rl.Color{R: 255, G: 80, B: 80, A: 160})
	}
}

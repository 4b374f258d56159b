package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snakearena/camera"
	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/game"
	"github.com/pthm-cable/snakearena/renderer"
	"github.com/pthm-cable/snakearena/spectate"
	"github.com/pthm-cable/snakearena/telemetry"
	"github.com/pthm-cable/snakearena/ui"
)

const toastSec = 2.5

type toast struct {
	text    string
	expires float64
}

// viewListener keeps the latest throttled notifications for the HUD.
type viewListener struct {
	game.NopListener

	leaderboard []game.LeaderboardEntry
	stats       game.PlayerStats
	toasts      []toast
	clock       func() float64
}

func (l *viewListener) LeaderboardUpdated(entries []game.LeaderboardEntry) {
	l.leaderboard = entries
}

func (l *viewListener) StatsUpdated(stats game.PlayerStats) {
	l.stats = stats
}

func (l *viewListener) Killed(victim string) {
	l.toasts = append(l.toasts, toast{
		text:    fmt.Sprintf("You killed %s!", victim),
		expires: l.clock() + toastSec,
	})
}

func (l *viewListener) reset() {
	l.leaderboard = nil
	l.stats = game.PlayerStats{}
	l.toasts = l.toasts[:0]
}

// viewer is the raylib frame loop around a Runner.
type viewer struct {
	cfg    *config.Config
	world  *game.World
	runner *game.Runner
	events *viewListener

	cam       *camera.Camera
	arena     *renderer.ArenaRenderer
	particles *renderer.ParticleRenderer
	hud       *ui.HUD
	overlays  *ui.OverlayRegistry

	best     telemetry.Best
	bestPath string
	newBest  bool
	recorded bool
	paused   bool

	publish      func(spectate.Frame)
	publishEvery float64
	lastPublish  float64
}

// runViewer opens the window and plays until it is closed.
func runViewer(ctx context.Context, cfg *config.Config, gc game.GameConfig, seed, maxTicks int64, opts game.RunnerOptions, feed *spectate.Server, bestPath string) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Snake Arena")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	best, err := telemetry.LoadBest(bestPath)
	if err != nil {
		slog.Warn("failed to load best score", "path", bestPath, "error", err)
	}

	events := &viewListener{clock: rl.GetTime}
	w := game.New(cfg, gc, events, seed)
	w.Init()

	v := &viewer{
		cfg:       cfg,
		world:     w,
		runner:    game.NewRunner(w, opts),
		events:    events,
		cam:       camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), float32(cfg.World.Width), float32(cfg.World.Height)),
		arena:     renderer.NewArenaRenderer(float32(cfg.World.Width), float32(cfg.World.Height), float32(cfg.Agent.SegmentSpacing*0.75)),
		particles: renderer.NewParticleRenderer(),
		hud:       ui.NewHUD(),
		overlays:  ui.NewOverlayRegistry(),
		best:      best,
		bestPath:  bestPath,
	}
	defer v.runner.Close()

	if feed != nil {
		publish, stop := feedPublisher(ctx, feed)
		defer stop()
		v.publish = publish
		v.publishEvery = cfg.Spectate.BroadcastMs
	}

	slog.Info("starting viewer", "seed", seed, "ai", gc.AICount, "difficulty", gc.Difficulty)

	v.centerCamera()
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		v.frame()
		if maxTicks > 0 && w.Tick() >= maxTicks {
			break
		}
	}
	return nil
}

func (v *viewer) frame() {
	dt := rl.GetFrameTime()
	v.runner.Perf().RecordFrame()

	if rl.IsWindowResized() {
		v.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}
	v.handleKeys()

	if !v.paused {
		v.steer()
		v.runner.Step(float64(dt) * 1000)
		v.burstEvents()
		v.recordResult()
		v.maybePublish()
	}
	v.particles.Update(dt)
	v.follow(dt)

	switch v.draw() {
	case ui.ActionPause:
		v.paused = !v.paused
	case ui.ActionRestart:
		v.restart()
	}
}

func (v *viewer) handleKeys() {
	v.overlays.HandleKeys()

	if rl.IsKeyPressed(rl.KeyP) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyR) && v.world.Over() {
		v.restart()
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + 0.1*wheel)
	}
}

// steer points the player at the mouse cursor.
func (v *viewer) steer() {
	head, ok := v.world.PlayerHead()
	if !ok {
		return
	}
	mouse := rl.GetMousePosition()
	mx, my := v.cam.ScreenToWorld(mouse.X, mouse.Y)
	dx, dy := float64(mx)-head.X, float64(my)-head.Y
	if dx*dx+dy*dy > 1 {
		v.world.SetPlayerDirection(math.Atan2(dy, dx))
	}
	v.world.SetPlayerBoost(rl.IsKeyDown(rl.KeySpace) || rl.IsMouseButtonDown(rl.MouseButtonLeft))
}

func (v *viewer) burstEvents() {
	for _, e := range v.world.Events() {
		x, y := float32(e.At.X), float32(e.At.Y)
		switch e.Kind {
		case game.EventDeath:
			v.particles.Burst(x, y, 40, rl.Color{R: 255, G: 120, B: 80, A: 255})
		case game.EventEvolve:
			v.particles.Burst(x, y, 24, rl.Gold)
		}
	}
}

// recordResult stores the final length once per match.
func (v *viewer) recordResult() {
	if v.recorded {
		return
	}
	res, ok := v.world.Result()
	if !ok {
		return
	}
	v.recorded = true
	v.newBest = v.best.Offer(res.Length, res.Kills, res.Score, res.SurvivalTime, time.Now())
	if !v.newBest {
		return
	}
	if err := telemetry.SaveBest(v.bestPath, v.best); err != nil {
		slog.Error("failed to save best score", "path", v.bestPath, "error", err)
	}
}

func (v *viewer) maybePublish() {
	if v.publish == nil {
		return
	}
	now := v.world.Now()
	if now-v.lastPublish < v.publishEvery {
		return
	}
	v.lastPublish = now
	v.publish(spectate.FrameOf(v.world))
}

// follow tracks the player, or the leader once the player is dead.
func (v *viewer) follow(dt float32) {
	if head, ok := v.world.PlayerHead(); ok {
		v.cam.Follow(float32(head.X), float32(head.Y), dt)
		return
	}
	lb := v.world.Leaderboard()
	if len(lb) == 0 {
		return
	}
	for _, a := range v.world.Agents() {
		if a.ID == lb[0].ID && len(a.Segments) > 0 {
			v.cam.Follow(float32(a.Segments[0].X), float32(a.Segments[0].Y), dt)
			return
		}
	}
}

func (v *viewer) centerCamera() {
	if head, ok := v.world.PlayerHead(); ok {
		v.cam.CenterOn(float32(head.X), float32(head.Y))
	}
}

func (v *viewer) restart() {
	v.runner.Reset()
	v.events.reset()
	v.particles.Clear()
	v.cam.Reset()
	v.centerCamera()
	v.recorded = false
	v.newBest = false
	v.paused = false
	v.lastPublish = 0
}

func (v *viewer) draw() ui.Action {
	w := v.world
	cfg := v.cfg

	rl.BeginDrawing()
	defer rl.EndDrawing()

	v.arena.Draw(v.cam, w.Agents(), w.Foods(), renderer.DrawOptions{
		Names:      v.overlays.IsEnabled(ui.OverlayNames),
		Grid:       v.overlays.IsEnabled(ui.OverlaySpatialGrid),
		HitRadii:   v.overlays.IsEnabled(ui.OverlayHitRadii),
		CellSize:   float32(cfg.Spatial.CellSize),
		HitRadius:  float32(cfg.Collision.HitRadius),
		BodySkip:   cfg.Agent.BodySkip,
		TimeSec:    float32(rl.GetTime()),
		Background: rl.Color{R: 24, G: 26, B: 32, A: 255},
	})
	v.particles.Draw(v.cam)
	v.drawToasts()

	data := ui.HUDData{
		Leaderboard: v.events.leaderboard,
		Stats:       v.events.stats,
		Best:        v.best,
		NewBest:     v.newBest,
		Alive:       w.AliveCount(),
		Tick:        w.Tick(),
		FPS:         rl.GetFPS(),
		Paused:      v.paused,
		Legend:      v.overlays.Legend() + "  P pause  R restart",
		ScreenW:     int32(rl.GetScreenWidth()),
		ScreenH:     int32(rl.GetScreenHeight()),
	}
	if res, ok := w.Result(); ok {
		data.Result = &res
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		perf := v.runner.Perf().Stats()
		data.Perf = &perf
	}
	return v.hud.Draw(data)
}

func (v *viewer) drawToasts() {
	now := rl.GetTime()
	kept := v.events.toasts[:0]
	for _, t := range v.events.toasts {
		if t.expires > now {
			kept = append(kept, t)
		}
	}
	v.events.toasts = kept

	y := int32(rl.GetScreenHeight()) / 3
	for _, t := range kept {
		width := rl.MeasureText(t.text, 24)
		rl.DrawText(t.text, int32(rl.GetScreenWidth())/2-width/2, y, 24, rl.Orange)
		y += 30
	}
}

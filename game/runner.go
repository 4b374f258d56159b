package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/telemetry"
)

// RunnerOptions configures telemetry for a Runner.
type RunnerOptions struct {
	Output      *telemetry.OutputManager // nil disables CSV output
	SnapshotDir string                   // empty disables highlight snapshots
	LogStats    bool

	// StatsCallback is called with every flushed window.
	StatsCallback func(telemetry.WindowStats)

	// OnStep is called after every step, on the stepping goroutine.
	OnStep func(*World)
}

// Runner drives a World at a fixed step and feeds its events into the
// telemetry pipeline. It is what headless runs and the tuner use.
type Runner struct {
	world *World
	dtMs  float64

	collector  *telemetry.Collector
	perf       *telemetry.PerfCollector
	output     *telemetry.OutputManager
	highlights *telemetry.HighlightDetector
	lives      *telemetry.LifeTracker

	snapshotDir   string
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	onStep        func(*World)
}

// NewRunner wraps an initialized world.
func NewRunner(w *World, opts RunnerOptions) *Runner {
	cfg := w.Config()
	r := &Runner{
		world:         w,
		dtMs:          cfg.Derived.DTMs,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:        opts.Output,
		highlights:    telemetry.NewHighlightDetector(cfg.Highlights, cfg.Telemetry.HighlightHistorySize),
		lives:         telemetry.NewLifeTracker(),
		snapshotDir:   opts.SnapshotDir,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		onStep:        opts.OnStep,
	}
	w.SetPerf(r.perf)
	return r
}

// World returns the driven world.
func (r *Runner) World() *World {
	return r.world
}

// Lives returns the tracker of finished lives.
func (r *Runner) Lives() *telemetry.LifeTracker {
	return r.lives
}

// Reset restarts the match and the per-match telemetry state. Output files
// stay open and keep appending.
func (r *Runner) Reset() {
	cfg := r.world.Config()
	r.world.Reset()
	r.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	r.highlights = telemetry.NewHighlightDetector(cfg.Highlights, cfg.Telemetry.HighlightHistorySize)
	r.lives = telemetry.NewLifeTracker()
}

// Perf returns the tick timing collector.
func (r *Runner) Perf() *telemetry.PerfCollector {
	return r.perf
}

// Step advances the world by dtMs and records telemetry for the tick.
func (r *Runner) Step(dtMs float64) {
	r.perf.StartTick()
	r.world.Update(dtMs)

	r.perf.StartPhase(telemetry.PhaseTelemetry)
	r.recordEvents()
	r.flushTelemetry()
	r.perf.EndTick(r.world.Load())

	if r.onStep != nil {
		r.onStep(r.world)
	}
}

// Run steps at the configured fixed dt until the context is cancelled,
// maxTicks is reached (0 = unlimited) or the player dies outside spectator
// mode. Returns the number of ticks run.
func (r *Runner) Run(ctx context.Context, maxTicks int64) (int64, error) {
	var n int64
	for maxTicks <= 0 || n < maxTicks {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		r.Step(r.dtMs)
		n++
		if r.world.Over() && !r.world.gc.Spectator {
			break
		}
	}
	return n, nil
}

// Close closes the output files.
func (r *Runner) Close() error {
	return r.output.Close()
}

func (r *Runner) recordEvents() {
	w := r.world
	for _, e := range w.Events() {
		switch e.Kind {
		case EventEat:
			r.collector.RecordFood(e.Food)
		case EventKill:
			r.collector.RecordKill(e.Agent)
		case EventRespawn:
			r.collector.RecordRespawn()
		case EventEvolve:
			r.collector.RecordEvolution()
		case EventDeath:
			r.collector.RecordDeath(string(e.Cause))
			a := w.agentByID(e.Agent)
			if a == nil {
				continue
			}
			rec := r.lives.Finish(a, e.AtMs, string(e.Cause), e.Other)
			if err := r.output.WriteLife(rec); err != nil {
				slog.Error("failed to write life", "error", err)
			}
		}
	}

	boosting := 0
	for _, a := range w.agents {
		if a.Alive && a.IsBoosting {
			boosting++
		}
	}
	r.collector.RecordBoostTicks(boosting)
}

// flushTelemetry checks if the stats window should be flushed and handles highlights.
func (r *Runner) flushTelemetry() {
	w := r.world
	if !r.collector.ShouldFlush(w.Now()) {
		return
	}

	stats := r.collector.Flush(r.sample())
	perfStats := r.perf.Stats()

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, h := range r.highlights.Check(stats) {
		if r.logStats {
			h.LogHighlight()
		}
		if err := r.output.WriteHighlight(h); err != nil {
			slog.Error("failed to write highlight", "error", err)
		}
		if r.snapshotDir != "" {
			r.saveSnapshot(&h)
		}
	}
}

func (r *Runner) sample() telemetry.WorldSample {
	w := r.world
	s := telemetry.WorldSample{
		Tick:  w.Tick(),
		NowMs: w.Now(),
		Food:  w.FoodCount(),
	}
	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		s.Alive++
		s.Lengths = append(s.Lengths, float64(a.Length))
	}
	if lb := w.Leaderboard(); len(lb) > 0 {
		s.LeaderID = lb[0].ID
		s.LeaderLength = lb[0].Length
	}
	if p := w.player; p != nil && p.Alive {
		s.PlayerAlive = true
		s.PlayerLength = p.Length
		s.PlayerRank = w.PlayerRank()
	}
	return s
}

// saveSnapshot writes the current state to the snapshot directory.
func (r *Runner) saveSnapshot(h *telemetry.Highlight) {
	path, err := telemetry.SaveSnapshot(r.world.Snapshot(h), r.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", r.world.Tick())
}

func (w *World) agentByID(id string) *components.Agent {
	for _, a := range w.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

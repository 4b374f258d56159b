package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/game"
	"github.com/pthm-cable/snakearena/spectate"
	"github.com/pthm-cable/snakearena/telemetry"
)

func main() {
	// .env is optional; it only seeds flag defaults
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// CLI flags
	configPath := flag.String("config", os.Getenv("SNAKEARENA_CONFIG"), "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, run metadata and best.json")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for highlight snapshots")
	aiCount := flag.Int("ai", game.DefaultAICount, "Number of AI snakes")
	difficulty := flag.String("difficulty", string(game.Medium), "AI difficulty: easy, medium or hard")
	nickname := flag.String("nickname", game.DefaultNickname, "Player name")
	skin := flag.String("skin", game.DefaultSkin, "Player skin id")
	spectateAddr := flag.String("spectate", os.Getenv("SNAKEARENA_SPECTATE_ADDR"), "Listen address for the spectator feed (empty = config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	diff, err := game.ParseDifficulty(*difficulty)
	if err != nil {
		slog.Error("invalid flag", "flag", "difficulty", "error", err)
		os.Exit(2)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	gc := game.GameConfig{
		SkinID:     *skin,
		Nickname:   *nickname,
		AICount:    *aiCount,
		Difficulty: diff,
		Spectator:  *headless,
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := *spectateAddr
	if addr == "" {
		addr = cfg.Spectate.Addr
	}
	var feed *spectate.Server
	if addr != "" {
		feed = spectate.NewServer(cfg.Spectate)
		go func() {
			if err := feed.ListenAndServe(ctx, addr); err != nil {
				slog.Error("spectator feed stopped", "error", err)
			}
		}()
	}

	opts := game.RunnerOptions{
		Output:      output,
		SnapshotDir: *snapshotDir,
		LogStats:    *logStats,
	}

	if *headless {
		err = runHeadless(ctx, cfg, gc, rngSeed, *maxTicks, opts, feed)
	} else {
		err = runViewer(ctx, cfg, gc, rngSeed, *maxTicks, opts, feed, bestPath(*outputDir))
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps an AI-only match at the fixed dt.
func runHeadless(ctx context.Context, cfg *config.Config, gc game.GameConfig, seed, maxTicks int64, opts game.RunnerOptions, feed *spectate.Server) error {
	w := game.New(cfg, gc, nil, seed)
	w.Init()
	w.SetLogEvents(opts.LogStats)

	if feed != nil {
		every := max(int64(cfg.Spectate.BroadcastMs/cfg.Derived.DTMs), 1)
		publish, stopFeed := feedPublisher(ctx, feed)
		defer stopFeed()
		opts.OnStep = func(w *game.World) {
			if w.Tick()%every == 0 {
				publish(spectate.FrameOf(w))
			}
		}
	}

	r := game.NewRunner(w, opts)
	defer r.Close()

	meta := telemetry.RunMeta{
		RunID:      opts.Output.RunID(),
		Seed:       seed,
		Difficulty: gc.Difficulty.String(),
		AICount:    gc.AICount,
		MaxTicks:   maxTicks,
		StartedAt:  time.Now().UTC(),
	}
	if err := opts.Output.WriteRun(meta); err != nil {
		slog.Error("failed to write run metadata", "error", err)
	}

	slog.Info("starting headless simulation",
		"seed", seed,
		"ai", gc.AICount,
		"difficulty", gc.Difficulty,
		"max_ticks", maxTicks,
	)

	ticks, err := r.Run(ctx, maxTicks)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	meta.FinishedAt = time.Now().UTC()
	meta.Ticks = ticks
	summary := r.Lives().Summary()
	meta.Lives = summary.Lives
	if werr := opts.Output.WriteRun(meta); werr != nil {
		slog.Error("failed to write run metadata", "error", werr)
	}

	slog.Info("headless simulation finished",
		"ticks", ticks,
		"sim_sec", w.Now()/1000,
		"lives", summary.Lives,
		"mean_survival_sec", summary.MeanSurvivalSec,
		"mean_peak_length", summary.MeanPeakLength,
	)
	return err
}

// feedPublisher hands frames to a goroutine that publishes them, dropping a
// frame when the previous one is still being encoded.
func feedPublisher(ctx context.Context, feed *spectate.Server) (publish func(spectate.Frame), stop func()) {
	frames := make(chan spectate.Frame, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case f, ok := <-frames:
				if !ok {
					return
				}
				if err := feed.Publish(f); err != nil {
					slog.Error("failed to publish frame", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	publish = func(f spectate.Frame) {
		select {
		case frames <- f:
		default:
		}
	}
	stop = func() {
		close(frames)
		<-done
	}
	return publish, stop
}

func bestPath(outputDir string) string {
	if outputDir == "" {
		return "best.json"
	}
	return filepath.Join(outputDir, "best.json")
}

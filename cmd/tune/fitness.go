package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/game"
	"github.com/pthm-cable/snakearena/telemetry"
)

// Boundary deaths per simulated minute cost this much mean length.
const boundaryPenalty = 2.0

// FitnessEvaluator runs headless matches and scores a difficulty row.
type FitnessEvaluator struct {
	params     *ParamVector
	configPath string
	difficulty game.Difficulty
	aiCount    int
	ticks      int64
	seeds      []int64

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, configPath string, difficulty game.Difficulty, aiCount int, ticks int64, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		configPath: configPath,
		difficulty: difficulty,
		aiCount:    aiCount,
		ticks:      ticks,
		seeds:      seeds,
	}
}

// LastQuality returns the time-averaged mean length from the most recent
// evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single match.
type runResult struct {
	windowStats []telemetry.WindowStats
	simSec      float64
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return math.Inf(1)
	}
	cfg.SetDifficulty(fe.difficulty.String(), fe.params.ToDifficulty(raw))

	// Seeds run in parallel; cfg is read-only from here on
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runMatch(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var fitness, quality float64
	for _, r := range results {
		q, f := score(r)
		quality += q
		fitness += f
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastQuality = quality / n
	fe.mu.Unlock()

	return fitness / n
}

func (fe *FitnessEvaluator) runMatch(cfg *config.Config, seed int64) runResult {
	result := runResult{}

	w := game.New(cfg, game.GameConfig{
		SkinID:     game.DefaultSkin,
		Nickname:   game.DefaultNickname,
		AICount:    fe.aiCount,
		Difficulty: fe.difficulty,
		Spectator:  true,
	}, nil, seed)
	w.Init()

	r := game.NewRunner(w, game.RunnerOptions{
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer r.Close()

	if _, err := r.Run(context.Background(), fe.ticks); err != nil {
		slog.Error("match failed", "seed", seed, "error", err)
	}
	result.simSec = w.Now() / 1000
	return result
}

// score returns the quality (time-averaged mean length) and the fitness of
// one match. Fitness rewards length and penalises running into the wall.
func score(r runResult) (quality, fitness float64) {
	if len(r.windowStats) == 0 || r.simSec <= 0 {
		return 0, math.Inf(1)
	}

	means := make([]float64, len(r.windowStats))
	boundary := 0
	for i, s := range r.windowStats {
		means[i] = s.LengthMean
		boundary += s.DeathsBoundary
	}
	quality = stat.Mean(means, nil)
	perMin := float64(boundary) / (r.simSec / 60)
	return quality, -(quality - boundaryPenalty*perMin)
}

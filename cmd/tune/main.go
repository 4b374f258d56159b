// Package main tunes an AI difficulty row with CMA-ES over headless matches.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/joho/godotenv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/game"
)

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	Quality         float64 `csv:"quality"`
	ReactionDelayMs float64 `csv:"reaction_delay_ms"`
	VisionRange     float64 `csv:"vision_range"`
	DangerAvoidance float64 `csv:"danger_avoidance"`
	FoodAttraction  float64 `csv:"food_attraction"`
	BoostFrequency  float64 `csv:"boost_frequency"`
}

// tuneResult is written to best.yaml.
type tuneResult struct {
	Difficulty  string                  `yaml:"difficulty"`
	Fitness     float64                 `yaml:"fitness"`
	Quality     float64                 `yaml:"quality"`
	Evaluations int                     `yaml:"evaluations"`
	Seeds       []int64                 `yaml:"seeds"`
	Params      config.DifficultyConfig `yaml:"params"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	configPath := flag.String("config", os.Getenv("SNAKEARENA_CONFIG"), "Base config YAML file (empty = use defaults)")
	evals := flag.Int("evals", 0, "Maximum number of evaluations (0 = config)")
	ticks := flag.Int64("ticks", 0, "Ticks per match (0 = config)")
	seeds := flag.Int("seeds", 0, "Matches per evaluation (0 = config)")
	aiCount := flag.Int("ai", 0, "AI snakes per match (0 = config)")
	difficulty := flag.String("difficulty", string(game.Medium), "Difficulty row to tune: easy, medium or hard")
	population := flag.Int("population", 0, "CMA-ES population size (0 = config, then auto)")
	outputDir := flag.String("out", "", "Output directory for results")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	tc := config.Cfg().Tune
	orDefault(evals, tc.Evaluations)
	orDefault(seeds, tc.Seeds)
	orDefault(aiCount, tc.AICount)
	orDefault(population, tc.Population)
	if *ticks == 0 {
		*ticks = int64(tc.Ticks)
	}

	if *outputDir == "" {
		slog.Error("--out is required")
		os.Exit(2)
	}
	diff, err := game.ParseDifficulty(*difficulty)
	if err != nil {
		slog.Error("invalid flag", "flag", "difficulty", "error", err)
		os.Exit(2)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	params := NewParamVector()
	base, _ := config.Cfg().Difficulty(diff.String())

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, *configPath, diff, *aiCount, *ticks, evalSeeds)

	dim := params.Dim()
	initX := params.Normalize(params.FromDifficulty(base))

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: tc.InitStepSize,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *evals,
		Concurrent:      0, // Seeds already run in parallel
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	evalCount := 0
	best := tuneResult{
		Difficulty: diff.String(),
		Fitness:    1e9,
		Seeds:      evalSeeds,
		Params:     base,
	}
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			quality := evaluator.LastQuality()
			evalCount++

			d := params.ToDifficulty(raw)
			if fitness < best.Fitness {
				best.Fitness = fitness
				best.Quality = quality
				best.Params = d
			}

			row := []evalRow{{
				Eval:            evalCount,
				Fitness:         fitness,
				Quality:         quality,
				ReactionDelayMs: d.ReactionDelayMs,
				VisionRange:     d.VisionRange,
				DangerAvoidance: d.DangerAvoidance,
				FoodAttraction:  d.FoodAttraction,
				BoostFrequency:  d.BoostFrequency,
			}}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal(row, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if werr != nil {
				slog.Error("failed to write eval log", "error", werr)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(*evals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: quality=%.1f fitness=%.2f (best=%.2f) | elapsed: %s, ETA: %s\n",
				evalCount, *evals, quality, fitness, best.Fitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Tuning %s with CMA-ES: %d parameters, population=%d, max_evals=%d\n",
		diff, dim, popSize, *evals)
	fmt.Printf("Seeds per evaluation: %d, ticks per match: %d, ai: %d\n", *seeds, *ticks, *aiCount)

	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	best.Evaluations = evalCount

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.2f (mean length %.1f)\n", best.Fitness, best.Quality)

	if err := writeResult(*outputDir, *configPath, best); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Results saved to: %s\n", *outputDir)
}

func orDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// writeResult saves best.yaml and a full config with the tuned row applied.
func writeResult(dir, configPath string, best tuneResult) error {
	data, err := yaml.Marshal(best)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "best.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.SetDifficulty(best.Difficulty, best.Params)
	return cfg.WriteYAML(filepath.Join(dir, "best_config.yaml"))
}

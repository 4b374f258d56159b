package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartMs float64 `csv:"-"`
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Population at window end
	Alive int `csv:"alive"`
	Food  int `csv:"food"`

	// Events during window
	Kills           int `csv:"kills"`
	DeathsBoundary  int `csv:"deaths_boundary"`
	DeathsCollision int `csv:"deaths_collision"`
	DeathsHeadOn    int `csv:"deaths_head_on"`
	Respawns        int `csv:"respawns"`
	Evolutions      int `csv:"evolutions"`
	BoostTicks      int `csv:"boost_ticks"` // agent-ticks spent boosting

	// Food pickups
	FoodEaten     int `csv:"food_eaten"`
	PowerupsEaten int `csv:"powerups_eaten"`
	PoisonEaten   int `csv:"poison_eaten"`
	DropsEaten    int `csv:"drops_eaten"`

	// Length distribution of alive agents (sampled at window end)
	LengthMean float64 `csv:"length_mean"`
	LengthStd  float64 `csv:"length_std"`
	LengthP50  float64 `csv:"length_p50"`
	LengthP90  float64 `csv:"length_p90"`
	LengthMax  float64 `csv:"length_max"`

	// Standings
	LeaderID       string `csv:"leader"`
	LeaderLength   int    `csv:"leader_length"`
	TopKillerID    string `csv:"top_killer"`
	TopKillerKills int    `csv:"top_killer_kills"`

	PlayerAlive  bool `csv:"player_alive"`
	PlayerLength int  `csv:"player_length"`
	PlayerRank   int  `csv:"player_rank"`
}

// ComputeLengthStats returns mean, standard deviation, median, 90th
// percentile and maximum of the given lengths. Empty input yields zeros.
func ComputeLengthStats(values []float64) (mean, std, p50, p90, maxV float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n > 1 {
		mean, std = stat.MeanStdDev(sorted, nil)
	} else {
		mean = sorted[0]
	}
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	maxV = floats.Max(sorted)

	return mean, std, p50, p90, maxV
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("alive", s.Alive),
		slog.Int("food", s.Food),
		slog.Int("kills", s.Kills),
		slog.Int("deaths_boundary", s.DeathsBoundary),
		slog.Int("deaths_collision", s.DeathsCollision),
		slog.Int("deaths_head_on", s.DeathsHeadOn),
		slog.Int("respawns", s.Respawns),
		slog.Int("evolutions", s.Evolutions),
		slog.Int("boost_ticks", s.BoostTicks),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("powerups_eaten", s.PowerupsEaten),
		slog.Int("poison_eaten", s.PoisonEaten),
		slog.Int("drops_eaten", s.DropsEaten),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_std", s.LengthStd),
		slog.Float64("length_p50", s.LengthP50),
		slog.Float64("length_p90", s.LengthP90),
		slog.Float64("length_max", s.LengthMax),
		slog.String("leader", s.LeaderID),
		slog.Int("leader_length", s.LeaderLength),
		slog.String("top_killer", s.TopKillerID),
		slog.Int("top_killer_kills", s.TopKillerKills),
		slog.Bool("player_alive", s.PlayerAlive),
		slog.Int("player_length", s.PlayerLength),
		slog.Int("player_rank", s.PlayerRank),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"alive", s.Alive,
		"food", s.Food,
		"kills", s.Kills,
		"deaths_boundary", s.DeathsBoundary,
		"deaths_collision", s.DeathsCollision,
		"deaths_head_on", s.DeathsHeadOn,
		"respawns", s.Respawns,
		"food_eaten", s.FoodEaten,
		"length_mean", s.LengthMean,
		"length_p90", s.LengthP90,
		"length_max", s.LengthMax,
		"leader", s.LeaderID,
		"player_rank", s.PlayerRank,
	)
}

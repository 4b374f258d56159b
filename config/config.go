// Package config provides configuration loading and access for the arena.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all arena configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Agent      AgentConfig      `yaml:"agent"`
	Steering   SteeringConfig   `yaml:"steering"`
	Stall      StallConfig      `yaml:"stall"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Food       FoodConfig       `yaml:"food"`
	Collision  CollisionConfig  `yaml:"collision"`
	Magnet     MagnetConfig     `yaml:"magnet"`
	Drop       DropConfig       `yaml:"drop"`
	Respawn    RespawnConfig    `yaml:"respawn"`
	Callbacks  CallbacksConfig  `yaml:"callbacks"`
	AI         AIConfig         `yaml:"ai"`
	Roster     RosterConfig     `yaml:"roster"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Highlights HighlightsConfig `yaml:"highlights"`
	Spectate   SpectateConfig   `yaml:"spectate"`
	Tune       TuneConfig       `yaml:"tune"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds arena dimensions and edge margins.
type WorldConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	SpawnMargin    float64 `yaml:"spawn_margin"`    // Agents spawn at least this far from every edge
	BoundaryMargin float64 `yaml:"boundary_margin"` // Head closer than this to an edge is a boundary death
}

// PhysicsConfig holds fixed-step settings used by headless runs.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Seconds per headless tick
}

// SpatialConfig holds spatial hash parameters.
type SpatialConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// AgentConfig holds snake body and movement parameters.
type AgentConfig struct {
	InitialLength     int     `yaml:"initial_length"`
	MinLength         int     `yaml:"min_length"`
	SegmentSpacing    float64 `yaml:"segment_spacing"`
	BaseSpeed         float64 `yaml:"base_speed"`          // World units per second
	BoostMultiplier   float64 `yaml:"boost_multiplier"`
	BoostConsumeRate  float64 `yaml:"boost_consume_rate"`  // Segments per second while boosting
	MinLengthForBoost int     `yaml:"min_length_for_boost"`
	InvincibleMs      float64 `yaml:"invincible_ms"`
	BodySkip          int     `yaml:"body_skip"` // Leading segments excluded from the collision body
	MinDtMs           float64 `yaml:"min_dt_ms"`
	MaxDtMs           float64 `yaml:"max_dt_ms"`
}

// SteeringConfig holds heading smoothing parameters.
type SteeringConfig struct {
	TurnSpeed        float64 `yaml:"turn_speed"`         // Fraction of the angle difference applied per tick
	MinTurnRadius    float64 `yaml:"min_turn_radius"`    // Radius at stall value 0
	StallRadiusBonus float64 `yaml:"stall_radius_bonus"` // Added radius at stall value 1
	MaxTurnRate      float64 `yaml:"max_turn_rate"`      // Radians per second
}

// StallConfig holds anti-circling detection parameters.
type StallConfig struct {
	WindowMs              float64 `yaml:"window_ms"`
	DisplacementThreshold float64 `yaml:"displacement_threshold"`
	TurnThreshold         float64 `yaml:"turn_threshold"`
	PathThreshold         float64 `yaml:"path_threshold"`
	Increase              float64 `yaml:"increase"`
	DecayRate             float64 `yaml:"decay_rate"` // Stall value per second
	FedGraceMs            float64 `yaml:"fed_grace_ms"`
}

// EvolutionConfig holds the ascending list of growth stages.
type EvolutionConfig struct {
	Stages []StageConfig `yaml:"stages"`
}

// StageConfig defines one evolution stage and its passive multipliers.
type StageConfig struct {
	Name            string  `yaml:"name"`
	MinLength       int     `yaml:"min_length"`
	TurnMultiplier  float64 `yaml:"turn_multiplier"`
	BoostEfficiency float64 `yaml:"boost_efficiency"` // Scales boost consumption (lower is cheaper)
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

// FoodConfig holds food population, placement and pickup parameters.
type FoodConfig struct {
	Target              int              `yaml:"target"`
	SpawnMargin         float64          `yaml:"spawn_margin"`
	SpawnAttempts       int              `yaml:"spawn_attempts"`
	PlayerHeadClearance float64          `yaml:"player_head_clearance"`
	PlayerBodyClearance float64          `yaml:"player_body_clearance"`
	QueryRadius         float64          `yaml:"query_radius"`
	EatRadius           float64          `yaml:"eat_radius"`
	ShrinkFloor         int              `yaml:"shrink_floor"`
	Kinds               []FoodKindConfig `yaml:"kinds"`
}

// FoodKindConfig defines a food type.
// Effect is one of "", "speed", "score", "magnet" or "shrink".
type FoodKindConfig struct {
	Name        string  `yaml:"name"`
	Radius      float64 `yaml:"radius"`
	Value       float64 `yaml:"value"`
	Growth      int     `yaml:"growth"`
	SpawnWeight float64 `yaml:"spawn_weight"`
	Effect      string  `yaml:"effect"`
	Multiplier  float64 `yaml:"multiplier"`
	DurationMs  float64 `yaml:"duration_ms"`
	Shrink      int     `yaml:"shrink"`
}

// CollisionConfig holds agent-vs-agent collision radii.
type CollisionConfig struct {
	QueryRadius      float64 `yaml:"query_radius"`
	HitRadius        float64 `yaml:"hit_radius"`
	HeadToHeadRadius float64 `yaml:"head_to_head_radius"`
}

// MagnetConfig holds magnet buff parameters.
type MagnetConfig struct {
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"` // World units per second
}

// DropConfig holds death drop parameters.
type DropConfig struct {
	Every  int     `yaml:"every"`
	Jitter float64 `yaml:"jitter"`
}

// RespawnConfig holds AI respawn parameters.
type RespawnConfig struct {
	DelayMs float64 `yaml:"delay_ms"`
}

// CallbacksConfig holds throttled notification cadences.
type CallbacksConfig struct {
	LeaderboardMs   float64 `yaml:"leaderboard_ms"`
	StatsMs         float64 `yaml:"stats_ms"`
	LeaderboardSize int     `yaml:"leaderboard_size"`
}

// AIConfig holds steering AI parameters.
type AIConfig struct {
	Easy   DifficultyConfig `yaml:"easy"`
	Medium DifficultyConfig `yaml:"medium"`
	Hard   DifficultyConfig `yaml:"hard"`

	HistorySize       int     `yaml:"history_size"`
	HistoryIntervalMs float64 `yaml:"history_interval_ms"`
	SpinThreshold     float64 `yaml:"spin_threshold"`
	WanderHoldMs      float64 `yaml:"wander_hold_ms"`
	WanderReach       float64 `yaml:"wander_reach"`
	WanderCenterBias  float64 `yaml:"wander_center_bias"`
	CenterPullWeight  float64 `yaml:"center_pull_weight"`
	BoundaryMargin    float64 `yaml:"boundary_margin"`
	BoundaryWeight    float64 `yaml:"boundary_weight"`
	HeadThreatScale   float64 `yaml:"head_threat_scale"`
	BoostFoodDistance float64 `yaml:"boost_food_distance"`
	ParallelThreshold int     `yaml:"parallel_threshold"` // AI agents needed before planning fans out
	Workers           int     `yaml:"workers"`            // 0 = runtime.NumCPU()
}

// DifficultyConfig holds per-difficulty AI tuning.
type DifficultyConfig struct {
	ReactionDelayMs float64 `yaml:"reaction_delay_ms"`
	VisionRange     float64 `yaml:"vision_range"`
	DangerAvoidance float64 `yaml:"danger_avoidance"`
	FoodAttraction  float64 `yaml:"food_attraction"`
	BoostFrequency  float64 `yaml:"boost_frequency"`
}

// RosterConfig holds AI name and skin pools.
type RosterConfig struct {
	Names []string `yaml:"names"`
	Skins []string `yaml:"skins"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow          float64 `yaml:"stats_window"` // Simulated seconds per stats window
	HighlightHistorySize int     `yaml:"highlight_history_size"`
	PerfCollectorWindow  int     `yaml:"perf_collector_window"`
}

// HighlightsConfig holds highlight detection thresholds.
type HighlightsConfig struct {
	KillStreak      int     `yaml:"kill_streak"`       // Kills by one agent within a window
	CrashDropPct    float64 `yaml:"crash_drop_pct"`    // Alive count drop from recent peak
	CrashMinDrop    int     `yaml:"crash_min_drop"`
	LongLeadWindows int     `yaml:"long_lead_windows"` // Consecutive windows with the same leader
}

// SpectateConfig holds the read-only snapshot feed settings.
type SpectateConfig struct {
	Addr           string   `yaml:"addr"`
	BroadcastMs    float64  `yaml:"broadcast_ms"`
	SendBuffer     int      `yaml:"send_buffer"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// TuneConfig holds defaults for the AI tuning binary.
type TuneConfig struct {
	Evaluations  int     `yaml:"evaluations"`
	Ticks        int     `yaml:"ticks"`
	Seeds        int     `yaml:"seeds"`
	AICount      int     `yaml:"ai_count"`
	InitStepSize float64 `yaml:"init_step_size"`
	Population   int     `yaml:"population"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DTMs             float64        // Physics.DT in milliseconds
	CenterX          float64        // World center
	CenterY          float64        //
	FoodIndex        map[string]int // kind name -> index into Food.Kinds
	TotalSpawnWeight float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path (or defaults if empty).
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit loads configuration and panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Cfg returns the global configuration.
// Panics if Init has not been called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from a YAML file, using embedded defaults as base.
// If path is empty, returns defaults only.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.World.Width <= 2*c.World.SpawnMargin || c.World.Height <= 2*c.World.SpawnMargin {
		return fmt.Errorf("world %vx%v too small for spawn margin %v", c.World.Width, c.World.Height, c.World.SpawnMargin)
	}
	if c.Spatial.CellSize <= 0 {
		return fmt.Errorf("spatial cell size must be positive, got %v", c.Spatial.CellSize)
	}
	if c.Agent.InitialLength < c.Agent.MinLength {
		return fmt.Errorf("initial length %d below minimum %d", c.Agent.InitialLength, c.Agent.MinLength)
	}
	if len(c.Evolution.Stages) == 0 {
		return fmt.Errorf("at least one evolution stage is required")
	}
	for i := 1; i < len(c.Evolution.Stages); i++ {
		if c.Evolution.Stages[i].MinLength <= c.Evolution.Stages[i-1].MinLength {
			return fmt.Errorf("evolution stage %q: thresholds must ascend", c.Evolution.Stages[i].Name)
		}
	}
	if len(c.Roster.Names) == 0 || len(c.Roster.Skins) == 0 {
		return fmt.Errorf("roster needs at least one name and one skin")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DTMs = c.Physics.DT * 1000
	c.Derived.CenterX = c.World.Width / 2
	c.Derived.CenterY = c.World.Height / 2

	c.Derived.FoodIndex = make(map[string]int, len(c.Food.Kinds))
	c.Derived.TotalSpawnWeight = 0
	for i, k := range c.Food.Kinds {
		c.Derived.FoodIndex[k.Name] = i
		if k.SpawnWeight > 0 {
			c.Derived.TotalSpawnWeight += k.SpawnWeight
		}
	}
}

// Difficulty returns the AI tuning for the named difficulty.
func (c *Config) Difficulty(name string) (DifficultyConfig, bool) {
	switch name {
	case "easy":
		return c.AI.Easy, true
	case "medium":
		return c.AI.Medium, true
	case "hard":
		return c.AI.Hard, true
	}
	return DifficultyConfig{}, false
}

// SetDifficulty replaces the AI tuning for the named difficulty.
func (c *Config) SetDifficulty(name string, d DifficultyConfig) bool {
	switch name {
	case "easy":
		c.AI.Easy = d
	case "medium":
		c.AI.Medium = d
	case "hard":
		c.AI.Hard = d
	default:
		return false
	}
	return true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/snakearena/ai"
	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/systems"
	"github.com/pthm-cable/snakearena/telemetry"
)

// respawn is a queued AI respawn, due at simulated time atMs.
type respawn struct {
	agent int
	atMs  float64
}

// playerInput buffers the latest player input until the next Update.
type playerInput struct {
	direction    float64
	hasDirection bool
	boost        bool
}

// World is the authoritative arena simulation. It owns every agent, the
// food store, the simulated clock and the random source. It is not safe
// for concurrent use: call every method from the goroutine that drives Update.
type World struct {
	cfg      *config.Config
	gc       GameConfig
	listener Listener
	seed     int64

	kin       *systems.Kinematics
	foodTable *systems.FoodTable
	ai        *ai.Controller

	rng *rand.Rand
	ids IDGen

	// Food store
	ecs        *ecs.World
	foodMapper *ecs.Map2[components.Position, components.Food]
	foodFilter *ecs.Filter2[components.Position, components.Food]
	foodCount  int

	// agents[0] is the player
	agents []*components.Agent
	player *components.Agent

	bodyHash  *systems.SpatialHash[systems.BodyRef]
	foodHash  *systems.SpatialHash[ecs.Entity]
	bodyBuf   []systems.Entry[systems.BodyRef]
	foodBuf   []systems.Entry[ecs.Entity]
	rankBuf   []int
	removeBuf []ecs.Entity

	// Simulated clock
	nowMs float64
	tick  int64

	events   []Event
	respawns []respawn

	lastLeaderboardAt float64
	lastStatsAt       float64
	bestRank          int

	over   bool
	result Result

	input playerInput

	perf      *telemetry.PerfCollector
	plans     int
	logEvents bool
}

// New creates a world. Call Init before the first Update.
// A nil listener is replaced by NopListener.
func New(cfg *config.Config, gc GameConfig, listener Listener, seed int64) *World {
	if listener == nil {
		listener = NopListener{}
	}
	if gc.Difficulty == "" {
		gc.Difficulty = Medium
	}
	return &World{
		cfg:       cfg,
		gc:        gc,
		listener:  listener,
		seed:      seed,
		kin:       systems.NewKinematics(cfg),
		foodTable: systems.MustFoodTable(cfg.Food.Kinds),
		bodyHash:  systems.NewSpatialHash[systems.BodyRef](cfg.Spatial.CellSize),
		foodHash:  systems.NewSpatialHash[ecs.Entity](cfg.Spatial.CellSize),
		bestRank:  999,
	}
}

// Init resets all state and populates the arena: the player, the AI
// agents and the initial food. The random source restarts from the seed,
// so Init followed by the same inputs replays the same match.
func (w *World) Init() {
	w.rng = rand.New(rand.NewSource(w.seed))
	w.ids = IDGen{}

	w.ecs = ecs.NewWorld()
	w.foodMapper = ecs.NewMap2[components.Position, components.Food](w.ecs)
	w.foodFilter = ecs.NewFilter2[components.Position, components.Food](w.ecs)
	w.foodCount = 0

	diff, ok := w.cfg.Difficulty(string(w.gc.Difficulty))
	if !ok {
		diff = w.cfg.AI.Medium
	}
	w.ai = ai.New(w.cfg, diff, w.seed)

	w.agents = nil
	w.nowMs = 0
	w.tick = 0
	w.events = w.events[:0]
	w.respawns = w.respawns[:0]
	w.lastLeaderboardAt = 0
	w.lastStatsAt = 0
	w.bestRank = 999
	w.over = false
	w.result = Result{}
	w.input = playerInput{}

	w.player = w.addAgent(w.gc.Nickname, true, w.gc.SkinID)

	names := w.cfg.Roster.Names
	skins := w.cfg.Roster.Skins
	for i := 0; i < w.gc.AICount; i++ {
		a := w.addAgent(names[i%len(names)], false, skins[i%len(skins)])
		w.ai.Register(a)
	}

	w.replenishFood()
}

// Reset restarts the match with the same settings.
func (w *World) Reset() {
	w.Init()
}

// Config returns the world configuration.
func (w *World) Config() *config.Config {
	return w.cfg
}

// Seed returns the seed the world was created with.
func (w *World) Seed() int64 {
	return w.seed
}

// Now returns the simulated clock in milliseconds.
func (w *World) Now() float64 {
	return w.nowMs
}

// Tick returns the number of completed updates.
func (w *World) Tick() int64 {
	return w.tick
}

// Over reports whether the player has died.
func (w *World) Over() bool {
	return w.over
}

// Result returns the final result once the player has died.
func (w *World) Result() (Result, bool) {
	return w.result, w.over
}

// Events returns the events of the last Update. The slice is reused.
func (w *World) Events() []Event {
	return w.events
}

// Kinematics exposes the movement rules, e.g. for boost eligibility in a HUD.
func (w *World) Kinematics() *systems.Kinematics {
	return w.kin
}

// SetPerf attaches a perf collector that times the tick phases.
func (w *World) SetPerf(p *telemetry.PerfCollector) {
	w.perf = p
}

// SetLogEvents enables structured logging of deaths, kills and respawns.
func (w *World) SetLogEvents(on bool) {
	w.logEvents = on
}

func (w *World) phase(p telemetry.Phase) {
	if w.perf != nil {
		w.perf.StartPhase(p)
	}
}

// Load reports the work done by the last tick.
func (w *World) Load() telemetry.TickLoad {
	return telemetry.TickLoad{
		Alive:    w.AliveCount(),
		Plans:    w.plans,
		Segments: w.bodyHash.Len(),
		Food:     w.foodCount,
	}
}

package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of the arena tick.
type Phase int

// Tick phases in execution order.
const (
	PhaseRespawn Phase = iota
	PhaseSpatial
	PhaseAI
	PhaseAgents
	PhaseFood
	PhaseCallbacks
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"respawn", "spatial", "ai", "agents", "food", "callbacks", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists the tick phases in execution order.
var Phases = []Phase{
	PhaseRespawn, PhaseSpatial, PhaseAI, PhaseAgents,
	PhaseFood, PhaseCallbacks, PhaseTelemetry,
}

// TickLoad is the amount of work a tick did, recorded next to its timing so
// slow ticks can be told apart from busy ones.
type TickLoad struct {
	Alive    int // agents alive after the tick
	Plans    int // AI intents planned
	Segments int // hittable body segments indexed
	Food     int // food items after the tick
}

type perfSample struct {
	tick   time.Duration
	phases [numPhases]time.Duration
	load   TickLoad
}

// PerfCollector times tick phases over a rolling window of ticks.
type PerfCollector struct {
	now func() time.Time

	samples []perfSample
	next    int
	count   int

	current    perfSample
	tickStart  time.Time
	phaseStart time.Time
	inPhase    bool
	phase      Phase

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	return newPerfCollector(windowSize, time.Now)
}

func newPerfCollector(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     now,
		samples: make([]perfSample, windowSize),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = perfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing the next.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the tick and stores it with the work it did.
func (p *PerfCollector) EndTick(load TickLoad) {
	now := p.now()
	p.closePhase(now)
	p.current.tick = now.Sub(p.tickStart)
	p.current.load = load

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg map[Phase]time.Duration
	PhasePct map[Phase]float64 // share of the average tick, 0-100

	AvgAlive    float64
	AvgPlans    float64
	AvgSegments float64
	AvgFood     float64
	MaxAlive    int

	// PerAgent is the average tick cost divided by the average alive count.
	PerAgent time.Duration

	FPS float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[Phase]time.Duration, numPhases),
		PhasePct: make(map[Phase]float64, numPhases),
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phases [numPhases]time.Duration
	var alive, plans, segments, food int
	for _, smp := range p.samples[:p.count] {
		total += smp.tick
		s.MaxTickDuration = max(s.MaxTickDuration, smp.tick)
		for i, d := range smp.phases {
			phases[i] += d
		}
		alive += smp.load.Alive
		plans += smp.load.Plans
		segments += smp.load.Segments
		food += smp.load.Food
		s.MaxAlive = max(s.MaxAlive, smp.load.Alive)
	}

	n := float64(p.count)
	s.AvgTickDuration = total / time.Duration(p.count)
	s.AvgAlive = float64(alive) / n
	s.AvgPlans = float64(plans) / n
	s.AvgSegments = float64(segments) / n
	s.AvgFood = float64(food) / n

	for i, sum := range phases {
		if sum == 0 {
			continue
		}
		ph := Phase(i)
		s.PhaseAvg[ph] = sum / time.Duration(p.count)
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}

	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	if s.AvgAlive > 0 {
		s.PerAgent = time.Duration(float64(s.AvgTickDuration) / s.AvgAlive)
	}
	return s
}

// LogStats logs the window with slog.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"per_agent_us", s.PerAgent.Microseconds(),
		"alive", s.AvgAlive,
		"plans", s.AvgPlans,
		"segments", int(s.AvgSegments),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	PerAgentUS   int64   `csv:"per_agent_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	AvgAlive     float64 `csv:"avg_alive"`
	MaxAlive     int     `csv:"max_alive"`
	AvgPlans     float64 `csv:"avg_plans"`
	AvgSegments  float64 `csv:"avg_segments"`
	AvgFood      float64 `csv:"avg_food"`
	FPS          float64 `csv:"fps"`
	RespawnPct   float64 `csv:"respawn_pct"`
	SpatialPct   float64 `csv:"spatial_pct"`
	AIPct        float64 `csv:"ai_pct"`
	AgentsPct    float64 `csv:"agents_pct"`
	FoodPct      float64 `csv:"food_pct"`
	CallbacksPct float64 `csv:"callbacks_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		PerAgentUS:   s.PerAgent.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		AvgAlive:     s.AvgAlive,
		MaxAlive:     s.MaxAlive,
		AvgPlans:     s.AvgPlans,
		AvgSegments:  s.AvgSegments,
		AvgFood:      s.AvgFood,
		FPS:          s.FPS,
		RespawnPct:   s.PhasePct[PhaseRespawn],
		SpatialPct:   s.PhasePct[PhaseSpatial],
		AIPct:        s.PhasePct[PhaseAI],
		AgentsPct:    s.PhasePct[PhaseAgents],
		FoodPct:      s.PhasePct[PhaseFood],
		CallbacksPct: s.PhasePct[PhaseCallbacks],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}

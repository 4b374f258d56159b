package telemetry

import "github.com/pthm-cable/snakearena/components"

// Death causes recognised by the collector.
const (
	CauseBoundary  = "boundary"
	CauseCollision = "collision"
	CauseHeadOn    = "head_on"
)

// Collector accumulates events within simulated-time windows and produces WindowStats.
type Collector struct {
	windowMs      float64
	windowStartMs float64

	// Event counters for current window
	kills           int
	killsBy         map[string]int
	deathsBoundary  int
	deathsCollision int
	deathsHeadOn    int
	respawns        int
	evolutions      int
	boostTicks      int
	eaten           [components.NumFoodKinds]int
}

// NewCollector creates a collector flushing every windowSec simulated seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 10
	}
	return &Collector{
		windowMs: windowSec * 1000,
		killsBy:  make(map[string]int),
	}
}

// RecordKill records a kill credited to killer.
func (c *Collector) RecordKill(killer string) {
	c.kills++
	c.killsBy[killer]++
}

// RecordDeath records a death by cause.
func (c *Collector) RecordDeath(cause string) {
	switch cause {
	case CauseBoundary:
		c.deathsBoundary++
	case CauseHeadOn:
		c.deathsHeadOn++
	default:
		c.deathsCollision++
	}
}

// RecordRespawn records an AI respawn.
func (c *Collector) RecordRespawn() {
	c.respawns++
}

// RecordEvolution records an evolution stage change.
func (c *Collector) RecordEvolution() {
	c.evolutions++
}

// RecordFood records a food pickup.
func (c *Collector) RecordFood(kind components.FoodKind) {
	if kind < components.NumFoodKinds {
		c.eaten[kind]++
	}
}

// RecordBoostTicks adds the number of agents boosting during a tick.
func (c *Collector) RecordBoostTicks(n int) {
	c.boostTicks += n
}

// ShouldFlush returns true once the window has elapsed on the simulated clock.
func (c *Collector) ShouldFlush(nowMs float64) bool {
	return nowMs-c.windowStartMs >= c.windowMs
}

// WorldSample is the state sampled at window end.
type WorldSample struct {
	Tick         int64
	NowMs        float64
	Alive        int
	Food         int
	Lengths      []float64
	LeaderID     string
	LeaderLength int
	PlayerAlive  bool
	PlayerLength int
	PlayerRank   int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(s WorldSample) WindowStats {
	mean, std, p50, p90, maxLen := ComputeLengthStats(s.Lengths)
	topKiller, topKills := c.topKiller()

	var total int
	for _, n := range c.eaten {
		total += n
	}

	stats := WindowStats{
		WindowStartMs: c.windowStartMs,
		WindowEndTick: s.Tick,
		SimTimeSec:    s.NowMs / 1000,

		Alive: s.Alive,
		Food:  s.Food,

		Kills:           c.kills,
		DeathsBoundary:  c.deathsBoundary,
		DeathsCollision: c.deathsCollision,
		DeathsHeadOn:    c.deathsHeadOn,
		Respawns:        c.respawns,
		Evolutions:      c.evolutions,
		BoostTicks:      c.boostTicks,

		FoodEaten: total,
		PowerupsEaten: c.eaten[components.FoodSpeed] + c.eaten[components.FoodSlow] +
			c.eaten[components.FoodDouble] + c.eaten[components.FoodMagnet],
		PoisonEaten: c.eaten[components.FoodPoison],
		DropsEaten:  c.eaten[components.FoodDrop],

		LengthMean: mean,
		LengthStd:  std,
		LengthP50:  p50,
		LengthP90:  p90,
		LengthMax:  maxLen,

		LeaderID:       s.LeaderID,
		LeaderLength:   s.LeaderLength,
		TopKillerID:    topKiller,
		TopKillerKills: topKills,

		PlayerAlive:  s.PlayerAlive,
		PlayerLength: s.PlayerLength,
		PlayerRank:   s.PlayerRank,
	}

	// Reset for next window
	c.windowStartMs = s.NowMs
	c.kills = 0
	clear(c.killsBy)
	c.deathsBoundary = 0
	c.deathsCollision = 0
	c.deathsHeadOn = 0
	c.respawns = 0
	c.evolutions = 0
	c.boostTicks = 0
	c.eaten = [components.NumFoodKinds]int{}

	return stats
}

// topKiller returns the agent with the most kills this window. Ties go to
// the lexically smallest id so the result does not depend on map order.
func (c *Collector) topKiller() (string, int) {
	var id string
	var best int
	for k, n := range c.killsBy {
		if n > best || (n == best && k < id) {
			id, best = k, n
		}
	}
	return id, best
}

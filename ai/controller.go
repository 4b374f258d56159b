// Package ai steers the computer-controlled snakes.
//
// Each AI agent owns a brain that re-plans at most once per reaction delay.
// A plan picks a heading from food seeking (or wandering), a weak pull
// toward the world center, threat avoidance and boundary avoidance, and
// decides whether to boost. Plans are computed against a read-only view of
// the world and committed only after every due agent has planned.
package ai

import (
	"math"
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/systems"
)

// View is the read-only world state a planning pass sees.
type View struct {
	Agents []*components.Agent
	Bodies *systems.SpatialHash[systems.BodyRef]
	Food   *systems.SpatialHash[ecs.Entity]
	Kin    *systems.Kinematics
	NowMs  float64
}

// Intent is a planned heading and boost decision for one agent.
type Intent struct {
	Agent   int
	Heading float64
	Boost   bool
}

type job struct {
	agent int
	brain *brain
}

// Controller plans for every registered AI agent.
type Controller struct {
	cfg  config.AIConfig
	diff config.DifficultyConfig

	worldW, worldH float64
	center         components.Point

	seed    int64
	brains  map[string]*brain
	workers int

	due     []job
	intents []Intent
}

// New creates a controller for one difficulty.
func New(cfg *config.Config, diff config.DifficultyConfig, seed int64) *Controller {
	workers := cfg.AI.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Controller{
		cfg:     cfg.AI,
		diff:    diff,
		worldW:  cfg.World.Width,
		worldH:  cfg.World.Height,
		center:  components.Point{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY},
		seed:    seed,
		brains:  make(map[string]*brain),
		workers: workers,
	}
}

// Difficulty returns the active tuning.
func (c *Controller) Difficulty() config.DifficultyConfig {
	return c.diff
}

// Register gives an agent a brain. Registering the same id again is a no-op.
func (c *Controller) Register(a *components.Agent) {
	if _, ok := c.brains[a.ID]; ok {
		return
	}
	// Knuth multiplicative hash of the registration order
	seed := c.seed + int64(len(c.brains)+1)*2654435761
	c.brains[a.ID] = newBrain(seed, c.cfg.HistorySize)
}

// Reset clears an agent's planning state, e.g. after a respawn.
func (c *Controller) Reset(id string) {
	if b, ok := c.brains[id]; ok {
		b.reset()
	}
}

// Plan computes intents for every AI agent whose reaction delay has passed.
// The returned slice is reused by the next call.
func (c *Controller) Plan(v View) []Intent {
	c.due = c.due[:0]
	for i, a := range v.Agents {
		if a.IsPlayer || !a.Alive {
			continue
		}
		b, ok := c.brains[a.ID]
		if !ok {
			continue
		}
		if b.planned && v.NowMs-b.lastPlanAt < c.diff.ReactionDelayMs {
			continue
		}
		c.due = append(c.due, job{agent: i, brain: b})
	}

	n := len(c.due)
	if cap(c.intents) < n {
		c.intents = make([]Intent, n)
	}
	c.intents = c.intents[:n]

	if n < c.cfg.ParallelThreshold || c.workers < 2 {
		c.planRange(v, 0, n)
	} else {
		c.planParallel(v, n)
	}

	return c.intents
}

// planParallel splits the due agents into contiguous chunks, one per worker.
// Each brain is owned by exactly one chunk, so results match the
// sequential pass.
func (c *Controller) planParallel(v View, n int) {
	workers := min(c.workers, n)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			c.planRange(v, start, end)
		}(start, end)
	}
	wg.Wait()
}

func (c *Controller) planRange(v View, start, end int) {
	for j := start; j < end; j++ {
		d := c.due[j]
		c.intents[j] = c.plan(v, d.agent, d.brain)
	}
}

// Commit applies intents to their agents.
func (c *Controller) Commit(v View, intents []Intent) {
	for _, in := range intents {
		a := v.Agents[in.Agent]
		if !a.Alive {
			continue
		}
		v.Kin.SetTargetDirection(a, in.Heading)
		v.Kin.SetBoost(a, in.Boost)
	}
}

func (c *Controller) plan(v View, idx int, b *brain) Intent {
	a := v.Agents[idx]
	head := a.Head()
	now := v.NowMs

	b.planned = true
	b.lastPlanAt = now

	b.record(head, now, c.cfg.HistoryIntervalMs)
	if b.spinning(c.cfg.SpinThreshold) {
		b.hasWander = false
	}

	// Target: nearest visible food, else wander
	var heading float64
	foodDist := math.Inf(1)
	if food, dist, ok := c.nearestFood(v, b, head); ok {
		heading = systems.BlendAngles(a.Direction, systems.AngleTo(head, food), c.diff.FoodAttraction)
		foodDist = dist
	} else {
		heading = systems.AngleTo(head, c.wanderTarget(b, head, now))
	}

	heading = systems.BlendAngles(heading, systems.AngleTo(head, c.center), c.cfg.CenterPullWeight)

	if dx, dy, mag := c.danger(v, b, idx, head); mag > 0 {
		away := math.Atan2(dy, dx)
		heading = systems.BlendAngles(heading, away, c.diff.DangerAvoidance*math.Min(mag, 1))
	}

	if target, near := c.boundaryTarget(head); near {
		heading = systems.BlendAngles(heading, systems.AngleTo(head, target), c.cfg.BoundaryWeight)
	}

	return Intent{
		Agent:   idx,
		Heading: heading,
		Boost:   c.decideBoost(v, b, a, foodDist),
	}
}

func (c *Controller) nearestFood(v View, b *brain, head components.Point) (components.Point, float64, bool) {
	if v.Food == nil {
		return components.Point{}, 0, false
	}
	b.foodBuf = v.Food.QueryNearInto(b.foodBuf[:0], head.X, head.Y, c.diff.VisionRange)

	best := math.Inf(1)
	var target components.Point
	for _, e := range b.foodBuf {
		p := components.Point{X: e.X, Y: e.Y}
		if d := head.Dist(p); d < best {
			best = d
			target = p
		}
	}
	return target, best, !math.IsInf(best, 1)
}

// wanderTarget returns the current wander point, choosing a new one when
// none is held, the hold time ran out, or the point was reached.
func (c *Controller) wanderTarget(b *brain, head components.Point, now float64) components.Point {
	if b.hasWander && now-b.wanderSetAt <= c.cfg.WanderHoldMs && head.Dist(b.wander) >= c.cfg.WanderReach {
		return b.wander
	}

	margin := c.cfg.BoundaryMargin
	p := components.Point{
		X: margin + b.rng.Float64()*(c.worldW-2*margin),
		Y: margin + b.rng.Float64()*(c.worldH-2*margin),
	}
	bias := c.cfg.WanderCenterBias
	p.X += (c.center.X - p.X) * bias
	p.Y += (c.center.Y - p.Y) * bias

	b.wander = p
	b.hasWander = true
	b.wanderSetAt = now
	return p
}

// danger sums repulsion from nearby bodies and from the heads of agents at
// least as long as this one. Returns the unit direction away from danger
// and the raw magnitude.
func (c *Controller) danger(v View, b *brain, self int, head components.Point) (float64, float64, float64) {
	vision := c.diff.VisionRange
	var vx, vy float64

	if v.Bodies != nil {
		b.bodyBuf = v.Bodies.QueryNearInto(b.bodyBuf[:0], head.X, head.Y, vision)
		for _, e := range b.bodyBuf {
			if e.Item.Agent == self || !v.Agents[e.Item.Agent].Alive {
				continue
			}
			dx := head.X - e.X
			dy := head.Y - e.Y
			d := math.Hypot(dx, dy)
			if d == 0 {
				continue
			}
			strength := 1 - d/vision
			vx += dx / d * strength
			vy += dy / d * strength
		}
	}

	me := v.Agents[self]
	headRange := vision * 0.5
	for i, other := range v.Agents {
		if i == self || !other.Alive || other.Length < me.Length {
			continue
		}
		oh := other.Head()
		dx := head.X - oh.X
		dy := head.Y - oh.Y
		d := math.Hypot(dx, dy)
		if d == 0 || d >= headRange {
			continue
		}
		strength := c.cfg.HeadThreatScale * (1 - d/headRange)
		vx += dx / d * strength
		vy += dy / d * strength
	}

	mag := math.Hypot(vx, vy)
	if mag == 0 {
		return 0, 0, 0
	}
	return vx / mag, vy / mag, mag
}

// boundaryTarget aims back toward the center on each axis that is within
// the margin of an edge.
func (c *Controller) boundaryTarget(head components.Point) (components.Point, bool) {
	m := c.cfg.BoundaryMargin
	target := head
	near := false
	if head.X < m || head.X > c.worldW-m {
		target.X = c.center.X
		near = true
	}
	if head.Y < m || head.Y > c.worldH-m {
		target.Y = c.center.Y
		near = true
	}
	return target, near
}

func (c *Controller) decideBoost(v View, b *brain, a *components.Agent, foodDist float64) bool {
	if !v.Kin.CanBoost(a) {
		return false
	}
	freq := c.diff.BoostFrequency
	if b.rng.Float64() < freq*0.1 {
		return true
	}
	return foodDist < c.cfg.BoostFoodDistance && b.rng.Float64() < freq
}

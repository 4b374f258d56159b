package systems

import (
	"math"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/config"
)

// Kinematics advances agents: buff expiry, boost consumption, heading
// smoothing under turn-rate and turn-radius caps, segment following,
// stall detection and evolution.
type Kinematics struct {
	agent       config.AgentConfig
	steer       config.SteeringConfig
	stages      []config.StageConfig
	stall       StallTracker
	fedGraceMs  float64
	shrinkFloor int

	worldW, worldH float64
	boundary       float64
}

// NewKinematics creates the movement rules from config.
func NewKinematics(cfg *config.Config) *Kinematics {
	return &Kinematics{
		agent:       cfg.Agent,
		steer:       cfg.Steering,
		stages:      cfg.Evolution.Stages,
		stall:       NewStallTracker(cfg.Stall),
		fedGraceMs:  cfg.Stall.FedGraceMs,
		shrinkFloor: max(cfg.Food.ShrinkFloor, cfg.Agent.MinLength),
		worldW:      cfg.World.Width,
		worldH:      cfg.World.Height,
		boundary:    cfg.World.BoundaryMargin,
	}
}

// SafeDt clamps a tick duration and returns it in seconds.
func (k *Kinematics) SafeDt(dtMs float64) float64 {
	return Clamp(dtMs, k.agent.MinDtMs, k.agent.MaxDtMs) / 1000
}

// Stage returns the multipliers of an evolution stage.
func (k *Kinematics) Stage(i int) config.StageConfig {
	if i < 0 {
		i = 0
	}
	if i >= len(k.stages) {
		i = len(k.stages) - 1
	}
	return k.stages[i]
}

// CanBoost reports whether the agent is long enough to boost.
func (k *Kinematics) CanBoost(a *components.Agent) bool {
	return a.Length >= k.agent.MinLengthForBoost
}

// MinTurnRadius returns the turn radius implied by the stall value.
func (k *Kinematics) MinTurnRadius(a *components.Agent) float64 {
	return k.steer.MinTurnRadius + a.Stall.Value*k.steer.StallRadiusBonus
}

// Spawn resets the agent to a fresh body at (x, y) facing +X.
// Identity fields are kept.
func (k *Kinematics) Spawn(a *components.Agent, x, y, nowMs float64) {
	n := k.agent.InitialLength
	segs := a.Segments[:0]
	for i := 0; i < n; i++ {
		segs = append(segs, components.Point{X: x - float64(i)*k.agent.SegmentSpacing, Y: y})
	}
	a.Segments = segs
	a.Length = n
	a.Direction = 0
	a.TargetDirection = 0
	a.Kills = 0
	a.Score = 0
	a.Alive = true
	a.InvincibleUntil = nowMs + k.agent.InvincibleMs
	a.SpawnedAt = nowMs
	a.IsBoosting = false
	a.BoostDebt = 0
	a.EvolutionStage = 0
	a.Buffs = components.NeutralBuffs()
	a.HasFed = false
	a.LastFedAt = 0
	a.FoodEaten = 0
	a.PeakLength = n
	k.stall.Reset(&a.Stall, nowMs, a.Segments[0])
	k.CheckEvolution(a)
}

// SetTargetDirection sets the heading the agent steers toward.
func (k *Kinematics) SetTargetDirection(a *components.Agent, angle float64) {
	a.TargetDirection = angle
}

// SetBoost requests boosting. Ineligible agents silently stay unboosted.
func (k *Kinematics) SetBoost(a *components.Agent, on bool) {
	a.IsBoosting = on && k.CanBoost(a)
}

// Grow appends n segments at the tail. Non-positive n is a no-op.
func (k *Kinematics) Grow(a *components.Agent, n int) {
	if n <= 0 {
		return
	}
	tail := a.Tail()
	for i := 0; i < n; i++ {
		a.Segments = append(a.Segments, tail)
	}
	a.Length = len(a.Segments)
	if a.Length > a.PeakLength {
		a.PeakLength = a.Length
	}
}

// Shrink removes up to n tail segments without going below floor
// (or the minimum body length). Returns the number removed.
func (k *Kinematics) Shrink(a *components.Agent, n, floor int) int {
	if n <= 0 {
		return 0
	}
	floor = max(floor, k.agent.MinLength)
	keep := max(a.Length-n, floor)
	if keep >= a.Length {
		return 0
	}
	removed := a.Length - keep
	a.Segments = a.Segments[:keep]
	a.Length = keep
	if !k.CanBoost(a) {
		a.IsBoosting = false
	}
	return removed
}

// ExpireBuffs clears timed effects whose expiry has passed.
func (k *Kinematics) ExpireBuffs(a *components.Agent, nowMs float64) {
	b := &a.Buffs
	if b.SpeedUntil > 0 && nowMs >= b.SpeedUntil {
		b.SpeedMultiplier = 1
		b.SpeedUntil = 0
	}
	if b.ScoreUntil > 0 && nowMs >= b.ScoreUntil {
		b.ScoreMultiplier = 1
		b.ScoreUntil = 0
	}
	if b.Magnet && nowMs >= b.MagnetUntil {
		b.Magnet = false
		b.MagnetUntil = 0
	}
}

// Eat applies a food pickup: score, growth and the kind's effect.
func (k *Kinematics) Eat(a *components.Agent, def FoodDef, nowMs float64) {
	if def.Value >= 0 {
		a.Score += def.Value * a.Buffs.ScoreMultiplier
	} else {
		a.Score = math.Max(0, a.Score+def.Value)
	}
	k.Grow(a, def.Growth)

	switch def.Effect {
	case EffectSpeed:
		a.Buffs.SpeedMultiplier = def.Multiplier
		a.Buffs.SpeedUntil = nowMs + def.DurationMs
	case EffectScore:
		a.Buffs.ScoreMultiplier = def.Multiplier
		a.Buffs.ScoreUntil = nowMs + def.DurationMs
	case EffectMagnet:
		a.Buffs.Magnet = true
		a.Buffs.MagnetUntil = nowMs + def.DurationMs
	case EffectShrink:
		k.Shrink(a, def.Shrink, k.shrinkFloor)
	}

	a.HasFed = true
	a.LastFedAt = nowMs
	a.FoodEaten++
}

// CheckEvolution raises the stage to the highest threshold reached.
// Stages never go down. Returns true when the stage changed.
func (k *Kinematics) CheckEvolution(a *components.Agent) bool {
	for i := len(k.stages) - 1; i > a.EvolutionStage; i-- {
		if a.Length >= k.stages[i].MinLength {
			a.EvolutionStage = i
			return true
		}
	}
	return false
}

// OutOfBounds reports whether the head has reached the world edge.
func (k *Kinematics) OutOfBounds(a *components.Agent) bool {
	h := a.Head()
	return h.X < k.boundary || h.X > k.worldW-k.boundary ||
		h.Y < k.boundary || h.Y > k.worldH-k.boundary
}

// BodySegments returns the segments that others can collide with.
func (k *Kinematics) BodySegments(a *components.Agent) []components.Point {
	if len(a.Segments) <= k.agent.BodySkip {
		return nil
	}
	return a.Segments[k.agent.BodySkip:]
}

// Update advances one alive agent by dtMs at simulated time nowMs.
func (k *Kinematics) Update(a *components.Agent, dtMs, nowMs float64) {
	if !a.Alive {
		return
	}

	k.ExpireBuffs(a, nowMs)
	stage := k.Stage(a.EvolutionStage)
	dt := k.SafeDt(dtMs)

	mult := a.Buffs.SpeedMultiplier * stage.SpeedMultiplier
	if a.IsBoosting && k.CanBoost(a) {
		mult *= k.agent.BoostMultiplier
		k.consumeBoost(a, dt, stage)
	}
	if a.IsBoosting && !k.CanBoost(a) {
		a.IsBoosting = false
	}

	moveDistance := k.agent.BaseSpeed * mult * dt

	// Heading: smooth toward target, capped by rate and radius
	maxTurn := math.Max(0, math.Min(k.steer.MaxTurnRate*dt, moveDistance/k.MinTurnRadius(a)))
	diff := NormalizeAngle(a.TargetDirection - a.Direction)
	turn := Clamp(diff*k.steer.TurnSpeed*stage.TurnMultiplier, -maxTurn, maxTurn)
	a.Direction = NormalizeAngle(a.Direction + turn)

	head := &a.Segments[0]
	head.X += math.Cos(a.Direction) * moveDistance
	head.Y += math.Sin(a.Direction) * moveDistance

	spacing := k.agent.SegmentSpacing
	for i := len(a.Segments) - 1; i > 0; i-- {
		seg := &a.Segments[i]
		prev := a.Segments[i-1]
		dx := prev.X - seg.X
		dy := prev.Y - seg.Y
		dist := math.Hypot(dx, dy)
		if dist > spacing {
			pull := (dist - spacing) / dist
			seg.X += dx * pull
			seg.Y += dy * pull
		}
	}

	k.stall.Observe(&a.Stall, nowMs, a.Segments[0], moveDistance, turn, dt, a.FedWithin(nowMs, k.fedGraceMs))
	k.CheckEvolution(a)
}

// consumeBoost burns length at the configured rate. Whole segments come
// off the tail; the body never drops below the boost floor this way.
func (k *Kinematics) consumeBoost(a *components.Agent, dt float64, stage config.StageConfig) {
	a.BoostDebt += k.agent.BoostConsumeRate * stage.BoostEfficiency * dt
	whole := int(a.BoostDebt)
	if whole <= 0 {
		return
	}
	a.BoostDebt -= float64(whole)

	removable := a.Length - k.agent.MinLengthForBoost
	if removable <= 0 {
		return
	}
	n := min(whole, removable)
	a.Segments = a.Segments[:a.Length-n]
	a.Length = len(a.Segments)
}

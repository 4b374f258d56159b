package game

import (
	"github.com/pthm-cable/snakearena/ai"
	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/systems"
	"github.com/pthm-cable/snakearena/telemetry"
)

// Update advances the simulated clock by dtMs and runs one tick.
// Negative durations do not move the clock; movement clamps dt separately.
func (w *World) Update(dtMs float64) {
	w.nowMs += max(dtMs, 0)
	w.events = w.events[:0]

	// 1. Respawns due on the simulated clock
	w.phase(telemetry.PhaseRespawn)
	w.processRespawns()

	// 2. Spatial indexes
	w.phase(telemetry.PhaseSpatial)
	w.rebuildHashes()

	// 3. Input and AI intents, committed after the whole pass
	w.phase(telemetry.PhaseAI)
	w.applyInput()
	view := w.view()
	intents := w.ai.Plan(view)
	w.ai.Commit(view, intents)
	w.plans = len(intents)

	// 4. Agents
	w.phase(telemetry.PhaseAgents)
	w.updateAgents(dtMs)

	// 5. Food
	w.phase(telemetry.PhaseFood)
	w.replenishFood()

	// 6. Throttled notifications
	w.phase(telemetry.PhaseCallbacks)
	w.notify()

	w.tick++
}

func (w *World) view() ai.View {
	return ai.View{
		Agents: w.agents,
		Bodies: w.bodyHash,
		Food:   w.foodHash,
		Kin:    w.kin,
		NowMs:  w.nowMs,
	}
}

// rebuildHashes indexes alive bodies and all food.
func (w *World) rebuildHashes() {
	w.bodyHash.Clear()
	for i, a := range w.agents {
		if !a.Alive {
			continue
		}
		for _, s := range w.kin.BodySegments(a) {
			w.bodyHash.Insert(s.X, s.Y, systems.BodyRef{Agent: i})
		}
	}

	w.foodHash.Clear()
	query := w.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		w.foodHash.Insert(pos.X, pos.Y, query.Entity())
	}
}

// updateAgents moves every alive agent and resolves its boundary, food and
// body contacts in slice order.
func (w *World) updateAgents(dtMs float64) {
	dtSec := w.kin.SafeDt(dtMs)

	for i, a := range w.agents {
		if !a.Alive {
			continue
		}

		stage := a.EvolutionStage
		w.kin.Update(a, dtMs, w.nowMs)
		if a.EvolutionStage != stage {
			w.emit(Event{Kind: EventEvolve, Agent: a.ID, Stage: a.EvolutionStage, At: a.Head()})
		}

		if w.kin.OutOfBounds(a) {
			w.kill(i, -1, CauseBoundary)
			continue
		}

		if a.Buffs.Magnet {
			w.pullFood(a, dtSec)
		}

		w.eatFood(a)

		if !a.Invincible(w.nowMs) {
			w.checkCollision(i)
		}
	}
}

// checkCollision resolves the first body segment the agent's head touches.
func (w *World) checkCollision(self int) {
	cc := w.cfg.Collision
	a := w.agents[self]
	head := a.Head()

	w.bodyBuf = w.bodyHash.QueryNearInto(w.bodyBuf[:0], head.X, head.Y, cc.QueryRadius)
	for _, e := range w.bodyBuf {
		owner := e.Item.Agent
		if owner == self {
			continue
		}
		other := w.agents[owner]
		if !other.Alive {
			continue
		}
		if head.Dist(components.Point{X: e.X, Y: e.Y}) >= cc.HitRadius {
			continue
		}

		headOn := head.Dist(other.Head()) < cc.HeadToHeadRadius
		cause := CauseCollision
		if headOn {
			cause = CauseHeadOn
		}

		switch systems.ResolveHit(a.Length, other.Length, headOn) {
		case systems.HitterDies:
			w.kill(self, owner, cause)
		case systems.OwnerDies:
			w.kill(owner, self, cause)
		case systems.BothDie:
			w.kill(self, owner, cause)
			w.kill(owner, self, cause)
		}
		return
	}
}

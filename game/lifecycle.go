package game

import (
	"math"

	"github.com/pthm-cable/snakearena/components"
)

// addAgent creates an agent at a random spawn point and appends it.
func (w *World) addAgent(name string, isPlayer bool, skin string) *components.Agent {
	a := &components.Agent{
		ID:       w.ids.AgentID(),
		Name:     name,
		IsPlayer: isPlayer,
		SkinID:   skin,
	}
	p := w.spawnPoint()
	w.kin.Spawn(a, p.X, p.Y, w.nowMs)
	w.agents = append(w.agents, a)
	return a
}

// spawnPoint returns a uniform point at least the spawn margin from every edge.
func (w *World) spawnPoint() components.Point {
	m := w.cfg.World.SpawnMargin
	return components.Point{
		X: m + w.rng.Float64()*(w.cfg.World.Width-2*m),
		Y: m + w.rng.Float64()*(w.cfg.World.Height-2*m),
	}
}

// kill processes a death. killer is an agent index or -1. Victims that are
// already dead are ignored, so one tick can never kill an agent twice.
func (w *World) kill(victim, killer int, cause Cause) {
	v := w.agents[victim]
	if !v.Alive {
		return
	}

	head := v.Head()
	v.Alive = false
	v.IsBoosting = false
	w.dropBody(v)

	killerID := ""
	if killer >= 0 {
		k := w.agents[killer]
		killerID = k.ID
		k.Kills++
		w.emit(Event{Kind: EventKill, Agent: k.ID, Other: v.ID, Cause: cause, At: head})
		if k.IsPlayer {
			w.listener.Killed(v.Name)
		}
	}
	w.emit(Event{Kind: EventDeath, Agent: v.ID, Other: killerID, Cause: cause, At: head})

	if v.IsPlayer {
		w.endMatch(v)
		return
	}
	w.respawns = append(w.respawns, respawn{agent: victim, atMs: w.nowMs + w.cfg.Respawn.DelayMs})
}

// endMatch records the player's result and notifies the listener once.
func (w *World) endMatch(p *components.Agent) {
	if w.over {
		return
	}
	w.over = true
	w.result = Result{
		Length:       p.Length,
		Kills:        p.Kills,
		Score:        p.Score,
		SurvivalTime: int(math.Floor(w.nowMs / 1000)),
		BestRank:     w.bestRank,
	}
	w.listener.GameOver(w.result)
}

// dropBody scatters drop food along a dead agent's body.
func (w *World) dropBody(a *components.Agent) {
	every := max(w.cfg.Drop.Every, 1)
	jitter := w.cfg.Drop.Jitter
	for i := 0; i < len(a.Segments); i += every {
		s := a.Segments[i]
		x := s.X + (w.rng.Float64()*2-1)*jitter
		y := s.Y + (w.rng.Float64()*2-1)*jitter
		w.addFood(components.FoodDrop, x, y)
	}
}

// processRespawns revives AI agents whose delay has passed on the
// simulated clock. Entries for agents that are somehow alive are dropped.
func (w *World) processRespawns() {
	kept := w.respawns[:0]
	for _, r := range w.respawns {
		if r.atMs > w.nowMs {
			kept = append(kept, r)
			continue
		}
		a := w.agents[r.agent]
		if a.Alive {
			continue
		}
		p := w.spawnPoint()
		w.kin.Spawn(a, p.X, p.Y, w.nowMs)
		w.ai.Reset(a.ID)
		w.emit(Event{Kind: EventRespawn, Agent: a.ID, At: p})
	}
	w.respawns = kept
}

// PendingRespawns returns the number of queued AI respawns.
func (w *World) PendingRespawns() int {
	return len(w.respawns)
}

func (w *World) emit(e Event) {
	e.AtMs = w.nowMs
	w.events = append(w.events, e)
	if w.logEvents {
		logEvent(e)
	}
}

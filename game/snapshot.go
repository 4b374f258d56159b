package game

import (
	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/telemetry"
)

// AgentView is a read-only copy of an alive agent for presentation.
type AgentView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	IsPlayer   bool               `json:"is_player"`
	SkinID     string             `json:"skin_id"`
	Segments   []components.Point `json:"segments"`
	Direction  float64            `json:"direction"`
	Length     int                `json:"length"`
	Boosting   bool               `json:"boosting"`
	Invincible bool               `json:"invincible"`
	Magnet     bool               `json:"magnet"`
	Stage      int                `json:"stage"`
	Stall      float64            `json:"stall"`
}

// FoodView is a read-only copy of a food item.
type FoodView struct {
	ID     uint64              `json:"id"`
	Kind   components.FoodKind `json:"kind"`
	X      float64             `json:"x"`
	Y      float64             `json:"y"`
	Radius float64             `json:"radius"`
}

// Agents returns views of every alive agent. Segments are copied.
func (w *World) Agents() []AgentView {
	views := make([]AgentView, 0, len(w.agents))
	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		views = append(views, AgentView{
			ID:         a.ID,
			Name:       a.Name,
			IsPlayer:   a.IsPlayer,
			SkinID:     a.SkinID,
			Segments:   append([]components.Point(nil), a.Segments...),
			Direction:  a.Direction,
			Length:     a.Length,
			Boosting:   a.IsBoosting,
			Invincible: a.Invincible(w.nowMs),
			Magnet:     a.Buffs.Magnet,
			Stage:      a.EvolutionStage,
			Stall:      a.Stall.Value,
		})
	}
	return views
}

// Foods returns views of every food item.
func (w *World) Foods() []FoodView {
	views := make([]FoodView, 0, w.foodCount)
	query := w.foodFilter.Query()
	for query.Next() {
		pos, food := query.Get()
		views = append(views, FoodView{
			ID:     food.ID,
			Kind:   food.Kind,
			X:      pos.X,
			Y:      pos.Y,
			Radius: food.Radius,
		})
	}
	return views
}

// PlayerHead returns the player's head position while the player is alive.
func (w *World) PlayerHead() (components.Point, bool) {
	if w.player == nil || !w.player.Alive {
		return components.Point{}, false
	}
	return w.player.Head(), true
}

// AliveCount returns the number of alive agents.
func (w *World) AliveCount() int {
	n := 0
	for _, a := range w.agents {
		if a.Alive {
			n++
		}
	}
	return n
}

// Snapshot captures the full world state for debugging and replay.
func (w *World) Snapshot(highlight *telemetry.Highlight) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        w.seed,
		WorldWidth:  w.cfg.World.Width,
		WorldHeight: w.cfg.World.Height,
		Tick:        w.tick,
		NowMs:       w.nowMs,
		Agents:      make([]components.Agent, 0, len(w.agents)),
		Highlight:   highlight,
	}
	for _, a := range w.agents {
		s.Agents = append(s.Agents, *a.Clone())
	}
	query := w.foodFilter.Query()
	for query.Next() {
		pos, food := query.Get()
		s.Foods = append(s.Foods, telemetry.FoodState{
			ID:   food.ID,
			Kind: food.Kind,
			X:    pos.X,
			Y:    pos.Y,
		})
	}
	return s
}

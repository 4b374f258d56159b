package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/systems"
)

// addFood creates a food entity of the given kind at (x, y).
func (w *World) addFood(kind components.FoodKind, x, y float64) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	food := w.foodTable.NewFood(w.ids.FoodID(), kind)
	w.foodCount++
	return w.foodMapper.NewEntity(&pos, &food)
}

// removeFood deletes a food entity. Stale handles are ignored.
func (w *World) removeFood(e ecs.Entity) bool {
	if !w.ecs.Alive(e) {
		return false
	}
	w.ecs.RemoveEntity(e)
	w.foodCount--
	return true
}

// FoodCount returns the number of food items in the arena.
func (w *World) FoodCount() int {
	return w.foodCount
}

// replenishFood spawns randomly rolled food until the target is reached.
func (w *World) replenishFood() {
	for w.foodCount < w.cfg.Food.Target {
		kind := w.foodTable.Roll(w.rng.Float64())
		p := w.foodSpawnPoint()
		w.addFood(kind, p.X, p.Y)
	}
}

// foodSpawnPoint picks a random point inside the food margin, retrying to
// keep clear of the player. The last attempt is used if none is clear.
func (w *World) foodSpawnPoint() components.Point {
	fc := w.cfg.Food
	m := fc.SpawnMargin
	var p components.Point
	for attempt := 0; attempt < max(fc.SpawnAttempts, 1); attempt++ {
		p = components.Point{
			X: m + w.rng.Float64()*(w.cfg.World.Width-2*m),
			Y: m + w.rng.Float64()*(w.cfg.World.Height-2*m),
		}
		if w.clearOfPlayer(p) {
			break
		}
	}
	return p
}

func (w *World) clearOfPlayer(p components.Point) bool {
	pl := w.player
	if pl == nil || !pl.Alive {
		return true
	}
	if p.Dist(pl.Head()) < w.cfg.Food.PlayerHeadClearance {
		return false
	}
	for _, s := range pl.Segments[1:] {
		if p.Dist(s) < w.cfg.Food.PlayerBodyClearance {
			return false
		}
	}
	return true
}

// pullFood drags nearby food toward a magnet holder's head. It walks the
// live food set so items dropped or eaten earlier in the tick are seen as
// they are now, not as the start-of-tick hash recorded them.
func (w *World) pullFood(a *components.Agent, dtSec float64) {
	mc := w.cfg.Magnet
	head := a.Head()
	query := w.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		moved, ok := systems.PullFood(pos.Point(), head, mc.Radius, mc.Speed, dtSec)
		if ok {
			pos.X, pos.Y = moved.X, moved.Y
		}
	}
}

// eatFood consumes every food item within eat range of the agent's head.
// Magnet holders scan the live food set since pulled items may have left
// their hashed cells; everyone else uses the hash for candidates. Distance
// is always checked against the live position.
func (w *World) eatFood(a *components.Agent) {
	fc := w.cfg.Food
	head := a.Head()

	w.removeBuf = w.removeBuf[:0]
	if a.Buffs.Magnet {
		query := w.foodFilter.Query()
		for query.Next() {
			pos, _ := query.Get()
			if head.Dist(pos.Point()) < fc.EatRadius {
				w.removeBuf = append(w.removeBuf, query.Entity())
			}
		}
	} else {
		w.foodBuf = w.foodHash.QueryNearInto(w.foodBuf[:0], head.X, head.Y, fc.QueryRadius)
		for _, e := range w.foodBuf {
			if !w.ecs.Alive(e.Item) {
				continue
			}
			pos, _ := w.foodMapper.Get(e.Item)
			if head.Dist(pos.Point()) < fc.EatRadius {
				w.removeBuf = append(w.removeBuf, e.Item)
			}
		}
	}

	for _, e := range w.removeBuf {
		_, food := w.foodMapper.Get(e)
		kind := food.Kind
		if !w.removeFood(e) {
			continue
		}
		w.kin.Eat(a, w.foodTable.Def(kind), w.nowMs)
		w.emit(Event{Kind: EventEat, Agent: a.ID, Food: kind, At: head})
	}
}

// clearFood removes every food entity.
func (w *World) clearFood() {
	w.removeBuf = w.removeBuf[:0]
	query := w.foodFilter.Query()
	for query.Next() {
		w.removeBuf = append(w.removeBuf, query.Entity())
	}
	for _, e := range w.removeBuf {
		w.removeFood(e)
	}
}

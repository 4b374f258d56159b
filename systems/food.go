package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/config"
)

// Effect is the status effect a food kind applies on pickup.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectSpeed
	EffectScore
	EffectMagnet
	EffectShrink
)

func parseEffect(name string) (Effect, error) {
	switch name {
	case "":
		return EffectNone, nil
	case "speed":
		return EffectSpeed, nil
	case "score":
		return EffectScore, nil
	case "magnet":
		return EffectMagnet, nil
	case "shrink":
		return EffectShrink, nil
	}
	return EffectNone, fmt.Errorf("unknown food effect %q", name)
}

// FoodDef is the resolved definition of a food kind.
type FoodDef struct {
	Kind        components.FoodKind
	Radius      float64
	Value       float64
	Growth      int
	SpawnWeight float64
	Effect      Effect
	Multiplier  float64
	DurationMs  float64
	Shrink      int
}

// FoodTable resolves food kinds and performs the weighted spawn roll.
type FoodTable struct {
	defs       [components.NumFoodKinds]FoodDef
	spawnable  []components.FoodKind
	cumulative []float64
	total      float64
}

// NewFoodTable builds the table from config. Every kind must be configured.
func NewFoodTable(kinds []config.FoodKindConfig) (*FoodTable, error) {
	t := &FoodTable{}
	var seen [components.NumFoodKinds]bool

	for _, kc := range kinds {
		kind, err := components.ParseFoodKind(kc.Name)
		if err != nil {
			return nil, err
		}
		effect, err := parseEffect(kc.Effect)
		if err != nil {
			return nil, fmt.Errorf("food kind %q: %w", kc.Name, err)
		}
		seen[kind] = true
		t.defs[kind] = FoodDef{
			Kind:        kind,
			Radius:      kc.Radius,
			Value:       kc.Value,
			Growth:      kc.Growth,
			SpawnWeight: kc.SpawnWeight,
			Effect:      effect,
			Multiplier:  kc.Multiplier,
			DurationMs:  kc.DurationMs,
			Shrink:      kc.Shrink,
		}
	}

	for k := components.FoodKind(0); k < components.NumFoodKinds; k++ {
		if !seen[k] {
			return nil, fmt.Errorf("food kind %q not configured", k)
		}
		// Drops only come from dead bodies
		if k == components.FoodDrop || t.defs[k].SpawnWeight <= 0 {
			continue
		}
		t.total += t.defs[k].SpawnWeight
		t.spawnable = append(t.spawnable, k)
		t.cumulative = append(t.cumulative, t.total)
	}
	if t.total <= 0 {
		return nil, fmt.Errorf("no food kind has a positive spawn weight")
	}

	return t, nil
}

// MustFoodTable builds the table and panics on a bad config.
func MustFoodTable(kinds []config.FoodKindConfig) *FoodTable {
	t, err := NewFoodTable(kinds)
	if err != nil {
		panic(err)
	}
	return t
}

// Def returns the definition of a kind.
func (t *FoodTable) Def(k components.FoodKind) FoodDef {
	return t.defs[k]
}

// Roll picks a spawnable kind from r in [0, 1).
func (t *FoodTable) Roll(r float64) components.FoodKind {
	target := r * t.total
	for i, c := range t.cumulative {
		if target < c {
			return t.spawnable[i]
		}
	}
	return t.spawnable[len(t.spawnable)-1]
}

// NewFood creates the food component for a kind.
func (t *FoodTable) NewFood(id uint64, k components.FoodKind) components.Food {
	d := t.defs[k]
	return components.Food{
		ID:     id,
		Kind:   k,
		Radius: d.Radius,
		Value:  d.Value,
		Growth: d.Growth,
	}
}

// PullFood moves a food position toward head by up to speed*dtSec,
// never past the head. Food outside radius or exactly on the head is left alone.
func PullFood(food, head components.Point, radius, speed, dtSec float64) (components.Point, bool) {
	dx := head.X - food.X
	dy := head.Y - food.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 || dist > radius {
		return food, false
	}
	step := math.Min(speed*dtSec, dist)
	return components.Point{
		X: food.X + dx/dist*step,
		Y: food.Y + dy/dist*step,
	}, true
}

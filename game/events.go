package game

import "github.com/pthm-cable/snakearena/components"

// EventKind identifies a world event.
type EventKind uint8

const (
	EventEat EventKind = iota
	EventKill
	EventDeath
	EventRespawn
	EventEvolve
)

func (k EventKind) String() string {
	switch k {
	case EventEat:
		return "eat"
	case EventKill:
		return "kill"
	case EventDeath:
		return "death"
	case EventRespawn:
		return "respawn"
	case EventEvolve:
		return "evolve"
	}
	return "unknown"
}

// Cause is why an agent died.
type Cause string

const (
	CauseBoundary  Cause = "boundary"
	CauseCollision Cause = "collision"
	CauseHeadOn    Cause = "head_on"
)

// Event is one thing that happened during the last tick.
//
// Agent is the subject (eater, killer, victim, respawned or evolved agent).
// Other is the victim of a kill or the killer of a death, if any.
type Event struct {
	Kind  EventKind
	AtMs  float64
	Agent string
	Other string
	Cause Cause
	Food  components.FoodKind
	Stage int
	At    components.Point
}

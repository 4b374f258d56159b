package ai

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/systems"
)

// brain is the per-agent planning state. Only the planning goroutine
// that owns the agent this tick touches it.
type brain struct {
	rng *rand.Rand

	planned    bool
	lastPlanAt float64

	// Head position history, sampled at a fixed interval
	history      []components.Point
	histNext     int
	histFull     bool
	lastSampleAt float64
	sampled      bool

	wander      components.Point
	hasWander   bool
	wanderSetAt float64

	// Scratch buffers for spatial queries
	bodyBuf []systems.Entry[systems.BodyRef]
	foodBuf []systems.Entry[ecs.Entity]
}

func newBrain(seed int64, historySize int) *brain {
	return &brain{
		rng:     rand.New(rand.NewSource(seed)),
		history: make([]components.Point, max(historySize, 2)),
		bodyBuf: make([]systems.Entry[systems.BodyRef], 0, 64),
		foodBuf: make([]systems.Entry[ecs.Entity], 0, 32),
	}
}

// reset clears everything but the random source.
func (b *brain) reset() {
	b.planned = false
	b.lastPlanAt = 0
	b.histNext = 0
	b.histFull = false
	b.sampled = false
	b.lastSampleAt = 0
	b.hasWander = false
	b.wanderSetAt = 0
}

// record samples the head if the sampling interval has passed.
func (b *brain) record(head components.Point, nowMs, intervalMs float64) {
	if b.sampled && nowMs-b.lastSampleAt < intervalMs {
		return
	}
	b.sampled = true
	b.lastSampleAt = nowMs
	b.history[b.histNext] = head
	b.histNext = (b.histNext + 1) % len(b.history)
	if b.histNext == 0 {
		b.histFull = true
	}
}

// spinning reports whether the full history window has a net
// displacement below threshold.
func (b *brain) spinning(threshold float64) bool {
	if !b.histFull {
		return false
	}
	oldest := b.history[b.histNext]
	newest := b.history[(b.histNext+len(b.history)-1)%len(b.history)]
	return oldest.Dist(newest) < threshold
}

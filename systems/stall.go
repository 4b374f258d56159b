package systems

import (
	"math"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/config"
)

// StallTracker detects tight circling over fixed time windows.
//
// A window is judged stalling when the head ends up close to where it
// started while the path was long and the cumulative turn was large, and
// the agent has not just eaten. Each stalling window raises the stall
// value. It decays on every tick the agent has just eaten or has moved
// clear of the current window's origin, regardless of earlier verdicts.
type StallTracker struct {
	cfg config.StallConfig
}

// NewStallTracker creates a tracker from config.
func NewStallTracker(cfg config.StallConfig) StallTracker {
	return StallTracker{cfg: cfg}
}

// Reset starts a fresh window at the given head position.
func (s StallTracker) Reset(st *components.StallState, nowMs float64, head components.Point) {
	*st = components.StallState{WindowStart: nowMs, Origin: head}
}

// Observe accumulates one tick of movement and closes the window when due.
func (s StallTracker) Observe(st *components.StallState, nowMs float64, head components.Point, moved, turned, dtSec float64, fedRecently bool) {
	st.Distance += moved
	st.Turn += math.Abs(turned)

	if st.Value > 0 && (fedRecently || head.Dist(st.Origin) >= s.cfg.DisplacementThreshold) {
		st.Value = math.Max(0, st.Value-s.cfg.DecayRate*dtSec)
	}

	if nowMs-st.WindowStart < s.cfg.WindowMs {
		return
	}

	displacement := head.Dist(st.Origin)
	stalling := !fedRecently &&
		displacement < s.cfg.DisplacementThreshold &&
		st.Turn > s.cfg.TurnThreshold &&
		st.Distance > s.cfg.PathThreshold

	if stalling {
		st.Value = math.Min(1, st.Value+s.cfg.Increase)
	}
	st.Stalling = stalling

	st.WindowStart = nowMs
	st.Origin = head
	st.Distance = 0
	st.Turn = 0
}

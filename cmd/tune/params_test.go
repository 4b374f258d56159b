package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	d := config.Defaults().AI.Medium

	raw := pv.FromDifficulty(d)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
	if got := pv.ToDifficulty(raw); got != d {
		t.Errorf("ToDifficulty = %+v, want %+v", got, d)
	}
}

func TestToDifficultyClamps(t *testing.T) {
	pv := NewParamVector()
	d := pv.ToDifficulty([]float64{-10, 5000, 2, -1, 0.2})

	if d.ReactionDelayMs != 30 {
		t.Errorf("reaction delay = %v, want 30", d.ReactionDelayMs)
	}
	if d.VisionRange != 700 {
		t.Errorf("vision = %v, want 700", d.VisionRange)
	}
	if d.DangerAvoidance != 1 || d.FoodAttraction != 0 {
		t.Errorf("weights = %v/%v, want 1/0", d.DangerAvoidance, d.FoodAttraction)
	}
	if d.BoostFrequency != 0.2 {
		t.Errorf("boost = %v, want 0.2", d.BoostFrequency)
	}
}

func TestScorePenalisesBoundaryDeaths(t *testing.T) {
	clean := runResult{simSec: 60}
	walls := runResult{simSec: 60}
	for i := 0; i < 3; i++ {
		clean.windowStats = append(clean.windowStats, windowWithLength(20, 0))
		walls.windowStats = append(walls.windowStats, windowWithLength(20, 1))
	}

	q1, f1 := score(clean)
	q2, f2 := score(walls)
	if q1 != 20 || q2 != 20 {
		t.Errorf("quality = %v/%v, want 20", q1, q2)
	}
	if f2 <= f1 {
		t.Errorf("boundary deaths should raise fitness: clean %v, walls %v", f1, f2)
	}
	if _, f := score(runResult{}); !math.IsInf(f, 1) {
		t.Errorf("empty run fitness = %v, want +Inf", f)
	}
}

func windowWithLength(mean float64, boundary int) telemetry.WindowStats {
	return telemetry.WindowStats{LengthMean: mean, DeathsBoundary: boundary}
}

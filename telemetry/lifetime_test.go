package telemetry

import (
	"testing"

	"github.com/pthm-cable/snakearena/components"
)

func TestLifeTracker(t *testing.T) {
	lt := NewLifeTracker()
	a := components.Agent{ID: "snake_1", Name: "Mamba", SpawnedAt: 1000, PeakLength: 20, Length: 14, Kills: 2}

	first := lt.Finish(&a, 11000, CauseBoundary, "")
	if first.Life != 1 || first.SurvivalSec != 10 {
		t.Errorf("first life = %+v", first)
	}
	second := lt.Finish(&a, 41000, CauseHeadOn, "snake_5")
	if second.Life != 2 || lt.Lives("snake_1") != 2 || lt.Lives("snake_9") != 0 {
		t.Errorf("life numbering wrong: %+v", second)
	}

	sum := lt.Summary()
	if sum.Lives != 2 || sum.MeanSurvivalSec != 25 || sum.MeanPeakLength != 20 || sum.MeanKills != 2 {
		t.Errorf("Summary = %+v", sum)
	}
}

package telemetry

import "github.com/pthm-cable/snakearena/components"

// LifeRecord summarises one life of one agent, from spawn to death.
type LifeRecord struct {
	AgentID     string  `csv:"agent_id"`
	Name        string  `csv:"name"`
	IsPlayer    bool    `csv:"is_player"`
	Life        int     `csv:"life"` // 1 for the first life
	SpawnedAtMs float64 `csv:"spawned_at_ms"`
	DiedAtMs    float64 `csv:"died_at_ms"`
	SurvivalSec float64 `csv:"survival_sec"`
	PeakLength  int     `csv:"peak_length"`
	FinalLength int     `csv:"final_length"`
	Kills       int     `csv:"kills"`
	FoodEaten   int     `csv:"food_eaten"`
	Score       float64 `csv:"score"`
	Stage       int     `csv:"stage"`
	Cause       string  `csv:"cause"`
	Killer      string  `csv:"killer"`
}

// LifeSummary aggregates every finished life.
type LifeSummary struct {
	Lives           int
	MeanSurvivalSec float64
	MeanPeakLength  float64
	MeanKills       float64
}

// LifeTracker numbers lives per agent and aggregates finished lives.
type LifeTracker struct {
	lives map[string]int

	count       int
	survivalSum float64
	peakSum     int
	killSum     int
}

// NewLifeTracker creates an empty tracker.
func NewLifeTracker() *LifeTracker {
	return &LifeTracker{lives: make(map[string]int)}
}

// Finish closes the current life of a just-died agent.
// The agent must not have been respawned yet.
func (lt *LifeTracker) Finish(a *components.Agent, diedAtMs float64, cause, killer string) LifeRecord {
	lt.lives[a.ID]++
	r := LifeRecord{
		AgentID:     a.ID,
		Name:        a.Name,
		IsPlayer:    a.IsPlayer,
		Life:        lt.lives[a.ID],
		SpawnedAtMs: a.SpawnedAt,
		DiedAtMs:    diedAtMs,
		SurvivalSec: (diedAtMs - a.SpawnedAt) / 1000,
		PeakLength:  a.PeakLength,
		FinalLength: a.Length,
		Kills:       a.Kills,
		FoodEaten:   a.FoodEaten,
		Score:       a.Score,
		Stage:       a.EvolutionStage,
		Cause:       cause,
		Killer:      killer,
	}

	lt.count++
	lt.survivalSum += r.SurvivalSec
	lt.peakSum += r.PeakLength
	lt.killSum += r.Kills
	return r
}

// Lives returns how many lives of an agent have ended.
func (lt *LifeTracker) Lives(agentID string) int {
	return lt.lives[agentID]
}

// Summary returns averages over all finished lives.
func (lt *LifeTracker) Summary() LifeSummary {
	if lt.count == 0 {
		return LifeSummary{}
	}
	n := float64(lt.count)
	return LifeSummary{
		Lives:           lt.count,
		MeanSurvivalSec: lt.survivalSum / n,
		MeanPeakLength:  float64(lt.peakSum) / n,
		MeanKills:       float64(lt.killSum) / n,
	}
}

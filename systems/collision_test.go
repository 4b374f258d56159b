package systems

import (
	"testing"

	"github.com/pthm-cable/snakearena/components"
)

func TestResolveHit(t *testing.T) {
	tests := []struct {
		name       string
		hitter     int
		owner      int
		headToHead bool
		want       HitOutcome
	}{
		{"body hit by shorter", 10, 30, false, HitterDies},
		{"body hit by longer", 80, 10, false, HitterDies},
		{"body hit equal", 20, 20, false, HitterDies},
		{"head to head longer hitter", 30, 20, true, OwnerDies},
		{"head to head shorter hitter", 20, 30, true, HitterDies},
		{"head to head equal", 25, 25, true, BothDie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveHit(tt.hitter, tt.owner, tt.headToHead); got != tt.want {
				t.Errorf("ResolveHit(%d, %d, %v) = %v, want %v", tt.hitter, tt.owner, tt.headToHead, got, tt.want)
			}
		})
	}
}

func TestRankByLength(t *testing.T) {
	agents := []*components.Agent{
		{ID: "a", Length: 10, Alive: true},
		{ID: "b", Length: 30, Alive: true},
		{ID: "c", Length: 50, Alive: false},
		{ID: "d", Length: 10, Alive: true},
		{ID: "e", Length: 20, Alive: true},
	}

	got := RankByLength(agents)
	want := []string{"b", "e", "a", "d"}
	if len(got) != len(want) {
		t.Fatalf("ranked %d agents, want %d", len(got), len(want))
	}
	for i, idx := range got {
		if agents[idx].ID != want[i] {
			t.Errorf("rank %d = %s, want %s", i+1, agents[idx].ID, want[i])
		}
	}
}

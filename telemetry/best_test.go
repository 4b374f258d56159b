package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBest_Offer(t *testing.T) {
	var b Best
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if !b.Offer(20, 1, 120, 45, at) {
		t.Fatal("first offer should set a record")
	}
	if b.Offer(20, 5, 500, 90, at) {
		t.Error("equal length should not replace the record")
	}
	if b.Offer(15, 0, 50, 10, at) {
		t.Error("shorter run replaced the record")
	}
	if !b.Offer(31, 2, 200, 60, at) || b.Length != 31 || b.Kills != 2 {
		t.Errorf("longer run not recorded: %+v", b)
	}
}

func TestBest_LoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.json")

	b, err := LoadBest(path)
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if b != (Best{}) {
		t.Errorf("missing file gave %+v", b)
	}

	want := Best{Length: 42, Kills: 3, Score: 310, SurvivalTime: 95, RecordedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	if err := SaveBest(path, want); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	got, err := LoadBest(path)
	if err != nil {
		t.Fatalf("LoadBest: %v", err)
	}
	if got.Length != want.Length || got.Kills != want.Kills || got.Score != want.Score ||
		got.SurvivalTime != want.SurvivalTime || !got.RecordedAt.Equal(want.RecordedAt) {
		t.Errorf("LoadBest = %+v, want %+v", got, want)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBest(path); err == nil {
		t.Error("expected parse error")
	}
}

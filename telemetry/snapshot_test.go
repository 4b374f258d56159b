package telemetry

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := config.Defaults()
	kin := systems.NewKinematics(cfg)

	a := &components.Agent{ID: "snake_1", Name: "Viper", SkinID: "red"}
	kin.Spawn(a, 1000, 800, 0)
	kin.Grow(a, 4)
	kin.SetTargetDirection(a, 0.7)
	for i := 1; i <= 30; i++ {
		kin.Update(a, 16, float64(i)*16)
	}

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        42,
		WorldWidth:  cfg.World.Width,
		WorldHeight: cfg.World.Height,
		Tick:        30,
		NowMs:       480,
		Agents:      []components.Agent{*a.Clone()},
		Foods: []FoodState{
			{ID: 7, Kind: components.FoodMagnet, X: 120, Y: 340},
		},
		Highlight: &Highlight{
			Type:        HighlightLeadChange,
			Tick:        30,
			Description: "Test highlight",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_30_lead_change.json") {
		t.Errorf("unexpected snapshot path %s", path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if !reflect.DeepEqual(loaded.Agents[0], snapshot.Agents[0]) {
		t.Errorf("agent differs after round trip:\n got %+v\nwant %+v", loaded.Agents[0], snapshot.Agents[0])
	}
	if !reflect.DeepEqual(loaded.Foods, snapshot.Foods) {
		t.Errorf("Foods = %+v, want %+v", loaded.Foods, snapshot.Foods)
	}
	if loaded.Highlight == nil || loaded.Highlight.Type != HighlightLeadChange {
		t.Errorf("Highlight = %+v", loaded.Highlight)
	}

	// A restored agent must keep moving exactly like the original.
	restored := &loaded.Agents[0]
	for i := 31; i <= 90; i++ {
		now := float64(i) * 16
		kin.Update(a, 16, now)
		kin.Update(restored, 16, now)
	}
	if len(a.Segments) != len(restored.Segments) {
		t.Fatalf("segment count %d vs %d", len(a.Segments), len(restored.Segments))
	}
	for i := range a.Segments {
		if a.Segments[i] != restored.Segments[i] {
			t.Fatalf("segment %d diverged: %v vs %v", i, a.Segments[i], restored.Segments[i])
		}
	}
}

func TestLoadSnapshot_RejectsOtherVersion(t *testing.T) {
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion + 1, Tick: 5}, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.Width != 4000 || cfg.World.Height != 3000 {
		t.Errorf("world = %vx%v, want 4000x3000", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Agent.MinLengthForBoost != 10 {
		t.Errorf("boost floor = %d, want 10", cfg.Agent.MinLengthForBoost)
	}
	if math.Abs(cfg.Steering.MaxTurnRate-2.5*math.Pi) > 1e-12 {
		t.Errorf("max turn rate = %v, want 2.5pi", cfg.Steering.MaxTurnRate)
	}
	if cfg.Derived.CenterX != 2000 || cfg.Derived.CenterY != 1500 {
		t.Errorf("center = (%v,%v), want (2000,1500)", cfg.Derived.CenterX, cfg.Derived.CenterY)
	}
	if math.Abs(cfg.Derived.DTMs-1000.0/60) > 1e-9 {
		t.Errorf("dt ms = %v", cfg.Derived.DTMs)
	}
}

func TestFoodKindsDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, name := range []string{"pellet", "big", "speed", "slow", "double", "magnet", "poison", "drop"} {
		if _, ok := cfg.Derived.FoodIndex[name]; !ok {
			t.Errorf("food kind %q missing from defaults", name)
		}
	}

	drop := cfg.Food.Kinds[cfg.Derived.FoodIndex["drop"]]
	if drop.SpawnWeight != 0 {
		t.Errorf("drop spawn weight = %v, want 0", drop.SpawnWeight)
	}

	// 80+10+4+3+2+1+2
	if cfg.Derived.TotalSpawnWeight != 102 {
		t.Errorf("total spawn weight = %v, want 102", cfg.Derived.TotalSpawnWeight)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	data := []byte("food:\n  target: 40\nai:\n  hard:\n    vision_range: 900\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Food.Target != 40 {
		t.Errorf("food target = %d, want 40", cfg.Food.Target)
	}
	if cfg.AI.Hard.VisionRange != 900 {
		t.Errorf("hard vision = %v, want 900", cfg.AI.Hard.VisionRange)
	}
	// Untouched fields keep their defaults
	if cfg.AI.Hard.ReactionDelayMs != 50 {
		t.Errorf("hard reaction delay = %v, want 50", cfg.AI.Hard.ReactionDelayMs)
	}
	if cfg.Food.EatRadius != 20 {
		t.Errorf("eat radius = %v, want 20", cfg.Food.EatRadius)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"tiny world", "world:\n  width: 300\n"},
		{"zero cell", "spatial:\n  cell_size: 0\n"},
		{"descending stages", "evolution:\n  stages:\n    - {name: a, min_length: 10}\n    - {name: b, min_length: 5}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDifficultyLookup(t *testing.T) {
	cfg := Defaults()

	tests := []struct {
		name  string
		delay float64
		ok    bool
	}{
		{"easy", 300, true},
		{"medium", 150, true},
		{"hard", 50, true},
		{"nightmare", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := cfg.Difficulty(tt.name)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if d.ReactionDelayMs != tt.delay {
				t.Errorf("reaction delay = %v, want %v", d.ReactionDelayMs, tt.delay)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Food.Target = 77

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Food.Target != 77 {
		t.Errorf("food target = %d, want 77", loaded.Food.Target)
	}
	if len(loaded.Food.Kinds) != len(cfg.Food.Kinds) {
		t.Errorf("kinds = %d, want %d", len(loaded.Food.Kinds), len(cfg.Food.Kinds))
	}
}

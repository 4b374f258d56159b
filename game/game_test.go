package game

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/snakearena/components"
	"github.com/pthm-cable/snakearena/config"
)

// recorder counts listener callbacks.
type recorder struct {
	NopListener
	leaderboards int
	stats        int
	results      []Result
	killed       []string
	lastBoard    []LeaderboardEntry
}

func (r *recorder) LeaderboardUpdated(e []LeaderboardEntry) {
	r.leaderboards++
	r.lastBoard = e
}
func (r *recorder) StatsUpdated(PlayerStats) { r.stats++ }
func (r *recorder) GameOver(res Result)      { r.results = append(r.results, res) }
func (r *recorder) Killed(name string)       { r.killed = append(r.killed, name) }

func newTestWorld(aiCount int, l Listener) *World {
	gc := DefaultGameConfig()
	gc.AICount = aiCount
	w := New(config.Defaults(), gc, l, 1)
	w.Init()
	return w
}

// place lays agent i out as a straight body of the given length whose head
// is at (x, y) facing dir. Spawn protection is cleared.
func place(w *World, i int, x, y, dir float64, length int) *components.Agent {
	a := w.agents[i]
	w.kin.Spawn(a, x, y, w.nowMs)
	w.kin.Grow(a, length-a.Length)
	sp := w.cfg.Agent.SegmentSpacing
	for j := range a.Segments {
		a.Segments[j] = components.Point{
			X: x - math.Cos(dir)*float64(j)*sp,
			Y: y - math.Sin(dir)*float64(j)*sp,
		}
	}
	a.Direction, a.TargetDirection = dir, dir
	a.InvincibleUntil = 0
	return a
}

func hasEvent(events []Event, kind EventKind, agent string) bool {
	for _, e := range events {
		if e.Kind == kind && e.Agent == agent {
			return true
		}
	}
	return false
}

func TestHeadToHead_EqualLengthsBothDie(t *testing.T) {
	w := newTestWorld(1, nil)
	w.clearFood()

	player := place(w, 0, 1000, 1000, 0, 5)

	// A tight loop whose fourth segment sits just ahead of the player's
	// head, with its own head close by.
	other := w.agents[1]
	w.kin.Spawn(other, 1005, 1008, w.nowMs)
	other.Segments = []components.Point{
		{X: 1005, Y: 1008},
		{X: 1017, Y: 1008},
		{X: 1017, Y: 996},
		{X: 1005, Y: 996},
		{X: 1005, Y: 984},
	}
	other.Length = 5
	other.Direction, other.TargetDirection = math.Pi/2, math.Pi/2
	other.InvincibleUntil = 0

	w.Update(16)

	if player.Alive || other.Alive {
		t.Fatalf("alive after head-on: player=%v other=%v", player.Alive, other.Alive)
	}
	if !hasEvent(w.Events(), EventDeath, player.ID) || !hasEvent(w.Events(), EventDeath, other.ID) {
		t.Error("expected two death events")
	}
	for _, e := range w.Events() {
		if e.Kind == EventDeath && e.Cause != CauseHeadOn {
			t.Errorf("death cause = %s, want %s", e.Cause, CauseHeadOn)
		}
	}
	if player.Kills != 1 || other.Kills != 1 {
		t.Errorf("kills = %d/%d, want both credited", player.Kills, other.Kills)
	}
}

func TestBodyHit_KillsHitterRegardlessOfLength(t *testing.T) {
	tests := []struct {
		name   string
		hitter int
		owner  int
	}{
		{"player hits ai", 0, 1},
		{"ai hits player", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			w := newTestWorld(1, rec)
			w.clearFood()

			// Long hitter heading +X into a short vertical body.
			hitter := place(w, tt.hitter, 1000, 1000, 0, 30)
			owner := place(w, tt.owner, 1003, 1060, math.Pi/2, 8)

			w.Update(16)

			if hitter.Alive {
				t.Fatal("hitter survived a body hit")
			}
			if !owner.Alive {
				t.Fatal("owner died")
			}
			if owner.Kills != 1 {
				t.Errorf("owner kills = %d, want 1", owner.Kills)
			}
			if !hasEvent(w.Events(), EventKill, owner.ID) {
				t.Error("missing kill event")
			}

			if owner.IsPlayer {
				if len(rec.killed) != 1 || rec.killed[0] != hitter.Name {
					t.Errorf("Killed callbacks = %v, want [%s]", rec.killed, hitter.Name)
				}
			} else if len(rec.results) != 1 {
				t.Errorf("GameOver called %d times, want 1", len(rec.results))
			}
		})
	}
}

func TestInvincibleAgentSkipsCollision(t *testing.T) {
	w := newTestWorld(1, nil)
	w.clearFood()

	player := place(w, 0, 1000, 1000, 0, 30)
	place(w, 1, 1003, 1060, math.Pi/2, 8)
	player.InvincibleUntil = w.nowMs + 1000

	w.Update(16)

	if !player.Alive {
		t.Error("invincible agent died on body contact")
	}
}

func TestBoundaryDeath_EndsMatchOnce(t *testing.T) {
	rec := &recorder{}
	w := newTestWorld(2, rec)

	player := place(w, 0, 12, 1500, math.Pi, 5)
	player.Kills = 2

	w.Update(16)

	if player.Alive {
		t.Fatal("player survived leaving the arena")
	}
	res, over := w.Result()
	if !over || len(rec.results) != 1 {
		t.Fatalf("over=%v results=%d", over, len(rec.results))
	}
	if res.Kills != 2 || res.Length != 5 || res.SurvivalTime != 0 {
		t.Errorf("Result = %+v", res)
	}
	if !hasEvent(w.Events(), EventDeath, player.ID) {
		t.Error("missing death event")
	}

	// A second kill attempt and later ticks change nothing.
	w.kill(0, 1, CauseCollision)
	for i := 0; i < 10; i++ {
		w.Update(16)
	}
	if len(rec.results) != 1 {
		t.Errorf("GameOver called %d times, want 1", len(rec.results))
	}
	if w.agents[1].Kills != 0 {
		t.Error("killing a dead agent credited the killer")
	}
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestFoodReplenishedToTarget(t *testing.T) {
	w := newTestWorld(0, nil)
	target := w.cfg.Food.Target

	if w.FoodCount() != target {
		t.Fatalf("initial food = %d, want %d", w.FoodCount(), target)
	}

	// Line five items up just ahead of the player and park the rest away.
	place(w, 0, 2000, 1500, 0, 5)
	lined := 0
	query := w.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		if lined < 5 {
			pos.X, pos.Y = 2004+float64(lined), 1500
			lined++
			continue
		}
		if math.Hypot(pos.X-2000, pos.Y-1500) < 200 {
			pos.X, pos.Y = 500, 500
		}
	}

	w.Update(16)

	if n := countEvents(w.Events(), EventEat); n != 5 {
		t.Fatalf("ate %d items, want 5", n)
	}
	if w.FoodCount() != target {
		t.Errorf("food after tick = %d, want %d", w.FoodCount(), target)
	}
	if n := len(w.Foods()); n != target {
		t.Errorf("Foods() returned %d items, want %d", n, target)
	}
}

func TestRemoveFood_DestroysEntity(t *testing.T) {
	w := newTestWorld(0, nil)
	w.clearFood()

	e := w.addFood(components.FoodPellet, 100, 100)
	if !w.removeFood(e) {
		t.Fatal("removeFood failed on a live entity")
	}
	if w.ecs.Alive(e) {
		t.Error("entity still alive after removal")
	}
	if w.removeFood(e) {
		t.Error("removing a stale entity succeeded")
	}
	if w.FoodCount() != 0 {
		t.Errorf("food count = %d, want 0", w.FoodCount())
	}
}

func TestSharedPellet_EatenOnce(t *testing.T) {
	w := newTestWorld(1, nil)
	w.clearFood()

	// Both heads end the tick within eat range of the same pellet.
	player := place(w, 0, 1000, 1000, 0, 5)
	other := place(w, 1, 1030, 1000, math.Pi, 5)
	pellet := w.addFood(components.FoodPellet, 1015, 1000)

	w.Update(16)

	if n := countEvents(w.Events(), EventEat); n != 1 {
		t.Fatalf("pellet eaten %d times, want 1", n)
	}
	if !hasEvent(w.Events(), EventEat, player.ID) {
		t.Error("player processed first should have eaten the pellet")
	}
	if hasEvent(w.Events(), EventEat, other.ID) {
		t.Error("second agent ate an already eaten pellet")
	}
	if w.ecs.Alive(pellet) {
		t.Error("eaten pellet is still alive")
	}
	if w.FoodCount() != w.cfg.Food.Target {
		t.Errorf("food after tick = %d, want %d", w.FoodCount(), w.cfg.Food.Target)
	}
}

func TestMagnetAfterEat(t *testing.T) {
	w := newTestWorld(1, nil)
	w.clearFood()

	player := place(w, 0, 2000, 1500, 0, 5)
	holder := place(w, 1, 2100, 1500, math.Pi/2, 5)
	holder.Buffs.Magnet = true
	holder.Buffs.MagnetUntil = w.nowMs + 10000

	// The first pellet is inside the holder's pull radius but the player,
	// processed first, eats it.
	w.addFood(components.FoodPellet, 2010, 1500)
	far := w.addFood(components.FoodPellet, 2150, 1560)

	w.Update(16)

	if !hasEvent(w.Events(), EventEat, player.ID) {
		t.Fatal("player did not eat the pellet in front of it")
	}
	if hasEvent(w.Events(), EventEat, holder.ID) {
		t.Error("magnet holder ate food out of pull range")
	}
	pos, _ := w.foodMapper.Get(far)
	if pos.X == 2150 && pos.Y == 1560 {
		t.Error("food in pull range did not move")
	}
}

func TestEatFood_AllInRange(t *testing.T) {
	w := newTestWorld(0, nil)
	w.clearFood()

	player := place(w, 0, 2000, 1500, 0, 5)
	w.addFood(components.FoodPellet, 2005, 1500)
	w.addFood(components.FoodPellet, 2000, 1510)
	w.addFood(components.FoodPellet, 2100, 1500)
	w.rebuildHashes()

	w.eatFood(player)

	if eats := countEvents(w.Events(), EventEat); eats != 2 {
		t.Errorf("ate %d items, want 2", eats)
	}
	if w.FoodCount() != 1 {
		t.Errorf("FoodCount = %d, want 1", w.FoodCount())
	}
	if player.FoodEaten != 2 {
		t.Errorf("FoodEaten = %d, want 2", player.FoodEaten)
	}
}

func TestDeathDropsFood(t *testing.T) {
	w := newTestWorld(1, nil)
	w.clearFood()

	a := place(w, 1, 1500, 1500, 0, 12)
	w.kill(1, -1, CauseBoundary)

	want := (a.Length + w.cfg.Drop.Every - 1) / w.cfg.Drop.Every
	if w.FoodCount() != want {
		t.Errorf("dropped %d food, want %d", w.FoodCount(), want)
	}
	for _, f := range w.Foods() {
		if f.Kind != components.FoodDrop {
			t.Errorf("dropped kind %v, want drop", f.Kind)
		}
	}
}

func TestRespawnOnSimulatedClock(t *testing.T) {
	w := newTestWorld(1, nil)
	place(w, 0, 2000, 1500, 0, 5)

	bot := w.agents[1]
	w.kill(1, -1, CauseBoundary)
	if bot.Alive || w.PendingRespawns() != 1 {
		t.Fatalf("alive=%v pending=%d", bot.Alive, w.PendingRespawns())
	}

	delay := w.cfg.Respawn.DelayMs
	steps := int(delay / 100)
	for i := 0; i < steps-1; i++ {
		w.Update(100)
		if bot.Alive {
			t.Fatalf("respawned early at %vms", w.Now())
		}
	}

	w.Update(100)
	if !bot.Alive {
		t.Fatalf("not respawned at %vms (delay %v)", w.Now(), delay)
	}
	if !hasEvent(w.Events(), EventRespawn, bot.ID) {
		t.Error("missing respawn event")
	}
	if bot.Length != w.cfg.Agent.InitialLength || bot.Kills != 0 {
		t.Errorf("respawned agent not reset: length=%d kills=%d", bot.Length, bot.Kills)
	}
	if !bot.Invincible(w.Now()) {
		t.Error("respawned agent should be invincible")
	}
	if w.PendingRespawns() != 0 {
		t.Errorf("pending = %d, want 0", w.PendingRespawns())
	}
}

func TestPlayerNeverRespawns(t *testing.T) {
	w := newTestWorld(1, nil)
	w.kill(0, -1, CauseBoundary)

	for i := 0; i < 50; i++ {
		w.Update(100)
	}
	if w.player.Alive {
		t.Error("player respawned")
	}
	if w.PendingRespawns() != 0 {
		t.Error("player death queued a respawn")
	}
}

func TestIDsAreWorldScoped(t *testing.T) {
	a := newTestWorld(3, nil)
	b := newTestWorld(3, nil)

	seen := make(map[string]bool)
	for i := range a.agents {
		if a.agents[i].ID != b.agents[i].ID {
			t.Errorf("agent %d: ids %s and %s differ between worlds", i, a.agents[i].ID, b.agents[i].ID)
		}
		if seen[a.agents[i].ID] {
			t.Errorf("duplicate id %s", a.agents[i].ID)
		}
		seen[a.agents[i].ID] = true
	}
	if a.player.ID != "snake_1" {
		t.Errorf("player id = %s, want snake_1", a.player.ID)
	}

	a.Reset()
	if a.player.ID != "snake_1" {
		t.Errorf("player id after reset = %s, want snake_1", a.player.ID)
	}
}

func TestListenerCadence(t *testing.T) {
	rec := &recorder{}
	w := newTestWorld(0, rec)
	place(w, 0, 2000, 1500, 0, 5)

	for i := 0; i < 200; i++ {
		w.Update(10)
	}

	if rec.leaderboards != 2 {
		t.Errorf("leaderboard callbacks = %d, want 2", rec.leaderboards)
	}
	if rec.stats != 10 {
		t.Errorf("stats callbacks = %d, want 10", rec.stats)
	}
	if len(rec.lastBoard) != 1 || !rec.lastBoard[0].IsPlayer || rec.lastBoard[0].Rank != 1 {
		t.Errorf("leaderboard = %+v", rec.lastBoard)
	}
	if w.BestRank() != 1 {
		t.Errorf("BestRank = %d, want 1", w.BestRank())
	}
}

func TestSetPlayerBoost_IgnoredBelowFloor(t *testing.T) {
	w := newTestWorld(0, nil)
	w.clearFood()
	short := place(w, 0, 2000, 1500, 0, 5)

	w.SetPlayerBoost(true)
	w.Update(16)
	if short.IsBoosting {
		t.Error("short player is boosting")
	}

	w.kin.Grow(short, w.cfg.Agent.MinLengthForBoost)
	w.Update(16)
	if !short.IsBoosting {
		t.Error("long player is not boosting")
	}
	if !w.PlayerStats().CanBoost {
		t.Error("PlayerStats.CanBoost = false")
	}
}

func TestSetPlayerDirection(t *testing.T) {
	w := newTestWorld(0, nil)
	w.clearFood()
	p := place(w, 0, 2000, 1500, 0, 5)

	w.SetPlayerDirection(math.Pi / 2)
	for i := 0; i < 60; i++ {
		w.Update(16)
	}
	if math.Abs(p.Direction-math.Pi/2) > 0.05 {
		t.Errorf("Direction = %v, want ~pi/2", p.Direction)
	}
	if p.Head().Y <= 1500 {
		t.Errorf("head did not move toward +Y: %v", p.Head())
	}
}

func TestSameSeedReplaysSameMatch(t *testing.T) {
	a := newTestWorld(6, nil)
	b := newTestWorld(6, nil)

	for i := 0; i < 300; i++ {
		a.Update(16)
		b.Update(16)
	}

	va, vb := a.Agents(), b.Agents()
	if len(va) != len(vb) {
		t.Fatalf("alive counts differ: %d vs %d", len(va), len(vb))
	}
	for i := range va {
		if va[i].ID != vb[i].ID || va[i].Segments[0] != vb[i].Segments[0] {
			t.Errorf("agent %d diverged: %s %v vs %s %v", i, va[i].ID, va[i].Segments[0], vb[i].ID, vb[i].Segments[0])
		}
	}
	if a.FoodCount() != b.FoodCount() {
		t.Errorf("food counts differ: %d vs %d", a.FoodCount(), b.FoodCount())
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", Easy, false},
		{"Medium", Medium, false},
		{" HARD ", Hard, false},
		{"impossible", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDifficulty(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDifficulty) {
					t.Errorf("err = %v, want ErrUnknownDifficulty", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

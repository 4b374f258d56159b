package game

import "github.com/pthm-cable/snakearena/systems"

// notify fires the throttled listener callbacks.
func (w *World) notify() {
	cb := w.cfg.Callbacks

	if w.nowMs-w.lastLeaderboardAt >= cb.LeaderboardMs {
		w.lastLeaderboardAt = w.nowMs
		entries := w.Leaderboard()
		w.trackBestRank()
		w.listener.LeaderboardUpdated(entries)
	}

	if w.player != nil && w.player.Alive && w.nowMs-w.lastStatsAt >= cb.StatsMs {
		w.lastStatsAt = w.nowMs
		w.listener.StatsUpdated(w.PlayerStats())
	}
}

// Leaderboard returns the top alive agents by length.
func (w *World) Leaderboard() []LeaderboardEntry {
	w.rankBuf = systems.RankByLength(w.agents)
	n := min(len(w.rankBuf), w.cfg.Callbacks.LeaderboardSize)

	entries := make([]LeaderboardEntry, n)
	for i := 0; i < n; i++ {
		a := w.agents[w.rankBuf[i]]
		entries[i] = LeaderboardEntry{
			Rank:     i + 1,
			ID:       a.ID,
			Name:     a.Name,
			Length:   a.Length,
			Kills:    a.Kills,
			Score:    a.Score,
			SkinID:   a.SkinID,
			IsPlayer: a.IsPlayer,
		}
	}
	return entries
}

// PlayerRank returns the player's 1-based rank among alive agents, or 0
// when the player is dead.
func (w *World) PlayerRank() int {
	if w.player == nil || !w.player.Alive {
		return 0
	}
	for i, idx := range systems.RankByLength(w.agents) {
		if w.agents[idx] == w.player {
			return i + 1
		}
	}
	return 0
}

// BestRank returns the best rank the player has held so far (999 if none).
func (w *World) BestRank() int {
	return w.bestRank
}

func (w *World) trackBestRank() {
	if r := w.PlayerRank(); r > 0 && r < w.bestRank {
		w.bestRank = r
	}
}

// PlayerStats returns the player's current status.
func (w *World) PlayerStats() PlayerStats {
	p := w.player
	if p == nil {
		return PlayerStats{}
	}
	return PlayerStats{
		Length:   p.Length,
		Kills:    p.Kills,
		Score:    p.Score,
		CanBoost: p.Alive && w.kin.CanBoost(p),
		Stage:    w.kin.Stage(p.EvolutionStage).Name,
		Rank:     w.PlayerRank(),
	}
}

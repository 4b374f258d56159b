package spectate

import (
	"github.com/pthm-cable/snakearena/game"
)

// Frame is one broadcast view of the arena.
type Frame struct {
	Tick        int64                   `json:"tick"`
	NowMs       float64                 `json:"now_ms"`
	Agents      []game.AgentView        `json:"agents"`
	Foods       []game.FoodView         `json:"foods"`
	Leaderboard []game.LeaderboardEntry `json:"leaderboard"`
	Over        bool                    `json:"over"`
}

// FrameOf copies the presentation state of w.
func FrameOf(w *game.World) Frame {
	return Frame{
		Tick:        w.Tick(),
		NowMs:       w.Now(),
		Agents:      w.Agents(),
		Foods:       w.Foods(),
		Leaderboard: w.Leaderboard(),
		Over:        w.Over(),
	}
}

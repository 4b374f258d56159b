package game

// LeaderboardEntry is one row of the live ranking.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Length   int     `json:"length"`
	Kills    int     `json:"kills"`
	Score    float64 `json:"score"`
	SkinID   string  `json:"skin_id"`
	IsPlayer bool    `json:"is_player"`
}

// PlayerStats is the throttled player status.
type PlayerStats struct {
	Length   int     `json:"length"`
	Kills    int     `json:"kills"`
	Score    float64 `json:"score"`
	CanBoost bool    `json:"can_boost"`
	Stage    string  `json:"stage"`
	Rank     int     `json:"rank"`
}

// Result is the summary emitted once when the player dies.
type Result struct {
	Length       int     `json:"length"`
	Kills        int     `json:"kills"`
	Score        float64 `json:"score"`
	SurvivalTime int     `json:"survival_time"` // whole seconds
	BestRank     int     `json:"best_rank"`
}

// Listener receives notifications from the world. All calls happen on the
// goroutine that calls Update.
type Listener interface {
	LeaderboardUpdated(entries []LeaderboardEntry)
	StatsUpdated(stats PlayerStats)
	GameOver(result Result)
	Killed(victimName string)
}

// NopListener ignores every notification. Embed it to implement only the
// methods you care about.
type NopListener struct{}

func (NopListener) LeaderboardUpdated([]LeaderboardEntry) {}
func (NopListener) StatsUpdated(PlayerStats)              {}
func (NopListener) GameOver(Result)                       {}
func (NopListener) Killed(string)                         {}

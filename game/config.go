package game

// Default match settings
const (
	DefaultAICount  = 8
	DefaultNickname = "Player"
	DefaultSkin     = "cyan"
)

// GameConfig holds the per-match settings chosen at start.
type GameConfig struct {
	SkinID     string
	Nickname   string
	AICount    int
	Difficulty Difficulty

	// Spectator runs keep simulating after the player dies.
	Spectator bool
}

// DefaultGameConfig returns the default match settings.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		SkinID:     DefaultSkin,
		Nickname:   DefaultNickname,
		AICount:    DefaultAICount,
		Difficulty: Medium,
	}
}

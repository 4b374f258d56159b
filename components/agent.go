package components

// Buffs holds the timed status effects of an agent.
// Expiries are absolute simulated milliseconds.
type Buffs struct {
	SpeedMultiplier float64 `json:"speed_multiplier"`
	SpeedUntil      float64 `json:"speed_until"`
	ScoreMultiplier float64 `json:"score_multiplier"`
	ScoreUntil      float64 `json:"score_until"`
	Magnet          bool    `json:"magnet"`
	MagnetUntil     float64 `json:"magnet_until"`
}

// NeutralBuffs returns buffs with every multiplier at 1 and nothing active.
func NeutralBuffs() Buffs {
	return Buffs{SpeedMultiplier: 1, ScoreMultiplier: 1}
}

// StallState is the anti-circling window of an agent.
type StallState struct {
	WindowStart float64 `json:"window_start"` // ms
	Origin      Point   `json:"origin"`       // head position at window start
	Distance    float64 `json:"distance"`     // path length this window
	Turn        float64 `json:"turn"`         // cumulative turn this window
	Value       float64 `json:"value"`        // [0,1]
	Stalling    bool    `json:"stalling"`     // verdict of the last closed window
}

// Agent is one snake. Segments[0] is the head.
type Agent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsPlayer bool   `json:"is_player"`
	SkinID   string `json:"skin_id"`

	Segments        []Point `json:"segments"`
	Direction       float64 `json:"direction"`
	TargetDirection float64 `json:"target_direction"`
	Length          int     `json:"length"`

	Kills int     `json:"kills"`
	Score float64 `json:"score"`

	Alive           bool    `json:"alive"`
	InvincibleUntil float64 `json:"invincible_until"`
	SpawnedAt       float64 `json:"spawned_at"`

	IsBoosting bool    `json:"is_boosting"`
	BoostDebt  float64 `json:"boost_debt"` // fractional segments owed to boosting

	EvolutionStage int        `json:"evolution_stage"`
	Buffs          Buffs      `json:"buffs"`
	Stall          StallState `json:"stall"`

	HasFed    bool    `json:"has_fed"`
	LastFedAt float64 `json:"last_fed_at"`

	// Per-life counters
	FoodEaten  int `json:"food_eaten"`
	PeakLength int `json:"peak_length"`
}

// Head returns the head position.
func (a *Agent) Head() Point {
	return a.Segments[0]
}

// Tail returns the last segment.
func (a *Agent) Tail() Point {
	return a.Segments[len(a.Segments)-1]
}

// Invincible reports whether the spawn grace window is active.
func (a *Agent) Invincible(nowMs float64) bool {
	return nowMs < a.InvincibleUntil
}

// FedWithin reports whether the agent ate within the last windowMs.
func (a *Agent) FedWithin(nowMs, windowMs float64) bool {
	return a.HasFed && nowMs-a.LastFedAt < windowMs
}

// Clone returns a deep copy.
func (a *Agent) Clone() *Agent {
	c := *a
	c.Segments = append([]Point(nil), a.Segments...)
	return &c
}

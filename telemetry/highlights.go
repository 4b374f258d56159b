package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/snakearena/config"
)

// HighlightType identifies the kind of highlight.
type HighlightType string

const (
	HighlightLeadChange      HighlightType = "lead_change"
	HighlightLongLead        HighlightType = "long_lead"
	HighlightKillStreak      HighlightType = "kill_streak"
	HighlightPopulationCrash HighlightType = "population_crash"
	HighlightPlayerTop       HighlightType = "player_top_rank"
)

// Highlight is a notable moment detected at a window boundary.
type Highlight struct {
	Type        HighlightType `csv:"type" json:"type"`
	Tick        int64         `csv:"tick" json:"tick"`
	SimTimeSec  float64       `csv:"sim_time" json:"sim_time"`
	Description string        `csv:"description" json:"description"`
}

// LogHighlight logs the highlight using slog.
func (h Highlight) LogHighlight() {
	slog.Info("highlight",
		"type", string(h.Type),
		"tick", h.Tick,
		"sim_time", h.SimTimeSec,
		"description", h.Description,
	)
}

// HighlightDetector watches consecutive windows for interesting moments.
type HighlightDetector struct {
	cfg config.HighlightsConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	leader       string
	leadWindows  int
	playerWasTop bool
}

// NewHighlightDetector creates a detector with the given history size.
func NewHighlightDetector(cfg config.HighlightsConfig, historySize int) *HighlightDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &HighlightDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered highlights.
func (hd *HighlightDetector) Check(stats WindowStats) []Highlight {
	var out []Highlight
	add := func(t HighlightType, format string, args ...any) {
		out = append(out, Highlight{
			Type:        t,
			Tick:        stats.WindowEndTick,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf(format, args...),
		})
	}

	// Leadership
	switch {
	case stats.LeaderID == "":
		hd.leadWindows = 0
	case stats.LeaderID == hd.leader:
		hd.leadWindows++
		if hd.leadWindows == hd.cfg.LongLeadWindows {
			add(HighlightLongLead, "%s has led for %d windows at length %d", stats.LeaderID, hd.leadWindows, stats.LeaderLength)
		}
	default:
		if hd.leader != "" {
			add(HighlightLeadChange, "%s took the lead from %s at length %d", stats.LeaderID, hd.leader, stats.LeaderLength)
		}
		hd.leadWindows = 1
	}
	hd.leader = stats.LeaderID

	if hd.cfg.KillStreak > 0 && stats.TopKillerKills >= hd.cfg.KillStreak {
		add(HighlightKillStreak, "%s made %d kills in one window", stats.TopKillerID, stats.TopKillerKills)
	}

	if peak := hd.peakAlive(); peak > 0 {
		drop := 1 - float64(stats.Alive)/float64(peak)
		if drop > hd.cfg.CrashDropPct && stats.Alive <= peak-hd.cfg.CrashMinDrop {
			add(HighlightPopulationCrash, "alive agents fell %.0f%% from %d to %d", drop*100, peak, stats.Alive)
			// Forget the old peak so one crash reports once
			for i := range hd.history {
				hd.history[i].Alive = 0
			}
		}
	}

	top := stats.PlayerAlive && stats.PlayerRank == 1
	if top && !hd.playerWasTop {
		add(HighlightPlayerTop, "player took first place at length %d", stats.PlayerLength)
	}
	hd.playerWasTop = top

	hd.addToHistory(stats)
	return out
}

func (hd *HighlightDetector) addToHistory(stats WindowStats) {
	hd.history[hd.historyIdx] = stats
	hd.historyIdx = (hd.historyIdx + 1) % hd.historySize
	if hd.historyIdx == 0 {
		hd.historyFull = true
	}
}

func (hd *HighlightDetector) getHistory() []WindowStats {
	if hd.historyFull {
		return hd.history
	}
	return hd.history[:hd.historyIdx]
}

func (hd *HighlightDetector) peakAlive() int {
	peak := 0
	for _, h := range hd.getHistory() {
		peak = max(peak, h.Alive)
	}
	return peak
}

package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snakearena/game"
	"github.com/pthm-cable/snakearena/telemetry"
)

// Action is a button press reported by the HUD.
type Action int

const (
	ActionNone Action = iota
	ActionPause
	ActionRestart
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Leaderboard []game.LeaderboardEntry
	Stats       game.PlayerStats
	Result      *game.Result // non-nil once the match is over
	Best        telemetry.Best
	NewBest     bool

	Alive   int
	Tick    int64
	FPS     int32
	Paused  bool
	Legend  string
	Perf    *telemetry.PerfStats // nil hides the perf panel
	ScreenW int32
	ScreenH int32
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD and returns the button pressed this frame, if any.
func (h *HUD) Draw(d HUDData) Action {
	action := ActionNone

	h.drawStats(d)
	h.drawLeaderboard(d)
	if d.Perf != nil {
		h.drawPerf(*d.Perf, d.ScreenH)
	}

	label := "Pause"
	if d.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(d.ScreenW/2 - 50), Y: 10, Width: 100, Height: 26}, label) {
		action = ActionPause
	}

	if d.Result != nil {
		if h.drawGameOver(d) {
			action = ActionRestart
		}
	} else if d.Paused {
		text := "PAUSED"
		w := rl.MeasureText(text, 40)
		rl.DrawText(text, d.ScreenW/2-w/2, d.ScreenH/2-20, 40, rl.Yellow)
	}

	rl.DrawText(
		fmt.Sprintf("Tick %d | Alive %d | FPS %d | %s", d.Tick, d.Alive, d.FPS, d.Legend),
		10, d.ScreenH-22, 14, rl.Gray,
	)
	return action
}

func (h *HUD) drawStats(d HUDData) {
	r := h.renderer
	x, y, w := int32(10), int32(10), int32(220)
	r.DrawPanel(x, y, w, 150)

	x += r.Theme.Padding
	y += r.Theme.Padding
	y = r.DrawSectionHeader(x, y, d.Stats.Stage)
	y = r.DrawLabelValue(x, y, "Length", fmt.Sprintf("%d", d.Stats.Length))
	y = r.DrawLabelValue(x, y, "Kills", fmt.Sprintf("%d", d.Stats.Kills))
	y = r.DrawLabelValue(x, y, "Score", fmt.Sprintf("%.0f", d.Stats.Score))
	rank := "-"
	if d.Stats.Rank > 0 {
		rank = fmt.Sprintf("#%d", d.Stats.Rank)
	}
	y = r.DrawLabelValue(x, y, "Rank", rank)

	boost := "too short"
	if d.Stats.CanBoost {
		boost = "ready"
	}
	r.DrawLabelValue(x, y, "Boost", boost)
}

func (h *HUD) drawLeaderboard(d HUDData) {
	r := h.renderer
	w := int32(230)
	x := d.ScreenW - w - 10
	y := int32(10)
	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(d.Leaderboard)+1) + 4
	r.DrawPanel(x, y, w, height)

	x += r.Theme.Padding
	y += r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Leaderboard")
	for _, e := range d.Leaderboard {
		color := r.Theme.LabelColor
		if e.IsPlayer {
			color = r.Theme.Highlight
		}
		rl.DrawText(fmt.Sprintf("%2d. %s", e.Rank, e.Name), x, y, r.Theme.FontSize, color)
		length := fmt.Sprintf("%d", e.Length)
		lw := rl.MeasureText(length, r.Theme.FontSize)
		rl.DrawText(length, x+w-2*r.Theme.Padding-lw, y, r.Theme.FontSize, color)
		y += r.Theme.LineHeight
	}
}

// drawGameOver draws the result panel. Returns true when restart is pressed.
func (h *HUD) drawGameOver(d HUDData) bool {
	r := h.renderer
	res := d.Result
	w, ht := int32(320), int32(230)
	x := d.ScreenW/2 - w/2
	y := d.ScreenH/2 - ht/2
	r.DrawPanel(x, y, w, ht)

	px := x + r.Theme.Padding*2
	py := y + r.Theme.Padding
	rl.DrawText("GAME OVER", px, py, 28, rl.Red)
	py += 38

	best := fmt.Sprintf("#%d", res.BestRank)
	if res.BestRank >= 999 {
		best = "-"
	}
	py = r.DrawLabelValue(px, py, "Length", fmt.Sprintf("%d", res.Length))
	py = r.DrawLabelValue(px, py, "Kills", fmt.Sprintf("%d", res.Kills))
	py = r.DrawLabelValue(px, py, "Score", fmt.Sprintf("%.0f", res.Score))
	py = r.DrawLabelValue(px, py, "Survived", fmt.Sprintf("%ds", res.SurvivalTime))
	py = r.DrawLabelValue(px, py, "Best rank", best)

	record := fmt.Sprintf("best length %d", d.Best.Length)
	if d.NewBest {
		record = "new best length!"
	}
	rl.DrawText(record, px, py+2, r.Theme.FontSize, rl.Gold)

	return gui.Button(rl.Rectangle{X: float32(x + w - 120), Y: float32(y + ht - 40), Width: 100, Height: 28}, "Restart (R)")
}

func (h *HUD) drawPerf(p telemetry.PerfStats, screenH int32) {
	r := h.renderer
	w := int32(220)
	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(telemetry.Phases)+3)
	x := int32(10)
	y := screenH - height - 30
	r.DrawPanel(x, y, w, height)

	x += r.Theme.Padding
	y += r.Theme.Padding
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Tick %.2fms", float64(p.AvgTickDuration.Microseconds())/1000))
	y = r.DrawLabelValue(x, y, "Per agent", fmt.Sprintf("%dus", p.PerAgent.Microseconds()))
	for _, ph := range telemetry.Phases {
		y = r.DrawBar(x, y, ph.String(), float32(p.PhasePct[ph]/100), 0, w-2*r.Theme.Padding)
	}
}

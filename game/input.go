package game

// SetPlayerDirection sets the player's desired heading in radians.
// It takes effect on the next Update.
func (w *World) SetPlayerDirection(angle float64) {
	w.input.direction = angle
	w.input.hasDirection = true
}

// SetPlayerBoost sets whether the player wants to boost. The request is
// ignored while the player is too short to boost.
func (w *World) SetPlayerBoost(on bool) {
	w.input.boost = on
}

// applyInput hands the buffered player input to the player agent.
func (w *World) applyInput() {
	p := w.player
	if p == nil || !p.Alive {
		return
	}
	if w.input.hasDirection {
		w.kin.SetTargetDirection(p, w.input.direction)
		w.input.hasDirection = false
	}
	w.kin.SetBoost(p, w.input.boost)
}

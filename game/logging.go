package game

import "log/slog"

// logEvent writes a structured log line for the events worth following
// in a long run. Eat events are too frequent to log.
func logEvent(e Event) {
	switch e.Kind {
	case EventDeath:
		slog.Info("agent_died",
			"agent", e.Agent,
			"killer", e.Other,
			"cause", string(e.Cause),
			"x", e.At.X,
			"y", e.At.Y,
			"at_ms", e.AtMs,
		)
	case EventKill:
		slog.Info("agent_kill", "killer", e.Agent, "victim", e.Other, "cause", string(e.Cause), "at_ms", e.AtMs)
	case EventRespawn:
		slog.Info("agent_respawned", "agent", e.Agent, "x", e.At.X, "y", e.At.Y, "at_ms", e.AtMs)
	case EventEvolve:
		slog.Info("agent_evolved", "agent", e.Agent, "stage", e.Stage, "at_ms", e.AtMs)
	}
}

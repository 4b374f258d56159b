package game

import "fmt"

// IDGen hands out agent and food ids for one world.
// It is not safe for concurrent use; the world only calls it inside Update and Init.
type IDGen struct {
	agents uint64
	foods  uint64
}

// AgentID returns the next agent id, "snake_1", "snake_2", ...
func (g *IDGen) AgentID() string {
	g.agents++
	return fmt.Sprintf("snake_%d", g.agents)
}

// FoodID returns the next food id, starting at 1.
func (g *IDGen) FoodID() uint64 {
	g.foods++
	return g.foods
}

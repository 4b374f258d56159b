package systems

import (
	"sort"

	"github.com/pthm-cable/snakearena/components"
)

// RankByLength returns the indices of alive agents ordered by length,
// longest first. Ties keep slice order.
func RankByLength(agents []*components.Agent) []int {
	idx := make([]int, 0, len(agents))
	for i, a := range agents {
		if a.Alive {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return agents[idx[i]].Length > agents[idx[j]].Length
	})
	return idx
}

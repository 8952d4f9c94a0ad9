package ids

import (
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/mathx"
)

// Generator hands out unit IDs for one team. Both teams start from the same
// non-zero, seed-derived base and step by two, Red on even and Blue on odd IDs,
// so their sequences never meet.
type Generator struct {
	Team geom.Team   `json:"team"`
	Next geom.UnitID `json:"next"`
}

const baseSpan = 1 << 12

func NewGenerator(team geom.Team, seed uint64) Generator {
	base := geom.UnitID(mathx.Mix64(seed)%baseSpan+1) * 2
	return Generator{Team: team, Next: base + geom.UnitID(team)}
}

func (g *Generator) NextID() geom.UnitID {
	id := g.Next
	g.Next += 2
	return id
}

// Owner recovers the team from an ID's parity.
func Owner(id geom.UnitID) geom.Team {
	return geom.Team(id % 2)
}

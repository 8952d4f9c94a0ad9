package world

import (
	"sort"

	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/world/io/snapshotcodec"
	"battlecode.ai/internal/sim/world/logic/ids"
	"battlecode.ai/internal/sim/world/logic/research"
)

// PlanetInfo is a planet's static map plus the karbonite currently on it.
type PlanetInfo struct {
	Map       gamemap.PlanetMap
	Karbonite [][]int
}

func newPlanetInfo(m gamemap.PlanetMap) *PlanetInfo {
	return &PlanetInfo{Map: m, Karbonite: snapshotcodec.CopyGrid(m.InitialKarbonite)}
}

func (p *PlanetInfo) karboniteAt(l geom.MapLocation) int {
	return p.Karbonite[l.Y-p.Map.Origin.Y][l.X-p.Map.Origin.X]
}

func (p *PlanetInfo) addKarbonite(l geom.MapLocation, delta int) {
	p.Karbonite[l.Y-p.Map.Origin.Y][l.X-p.Map.Origin.X] += delta
}

func (p *PlanetInfo) clone() *PlanetInfo {
	return &PlanetInfo{Map: p.Map, Karbonite: snapshotcodec.CopyGrid(p.Karbonite)}
}

type TeamInfo struct {
	Team      geom.Team
	IDs       ids.Generator
	Research  research.Info
	Karbonite int
	Arrays    [2]*TeamArray
}

func newTeamInfo(team geom.Team, seed uint64, t *tuning.Tuning) *TeamInfo {
	ti := &TeamInfo{
		Team:      team,
		IDs:       ids.NewGenerator(team, seed),
		Research:  research.NewInfo(),
		Karbonite: t.Game.StartingKarbonite,
	}
	for p := range ti.Arrays {
		ti.Arrays[p] = &TeamArray{}
	}
	return ti
}

func (ti *TeamInfo) clone() *TeamInfo {
	c := *ti
	c.Research = ti.Research.Clone()
	for p, a := range ti.Arrays {
		c.Arrays[p] = a.clone()
	}
	return &c
}

// TeamArray is one planet's communication array with every revision kept, so
// the other planet can read it as it stood some rounds ago.
type TeamArray struct {
	History []ArrayRevision
}

// ArrayRevision is the array's content at the end of Round.
type ArrayRevision struct {
	Round  int
	Values []int
}

func (a *TeamArray) clone() *TeamArray {
	c := &TeamArray{History: make([]ArrayRevision, len(a.History))}
	for i, r := range a.History {
		c.History[i] = ArrayRevision{Round: r.Round, Values: append([]int(nil), r.Values...)}
	}
	return c
}

func (a *TeamArray) write(round, length, index, value int) {
	n := len(a.History)
	if n == 0 || a.History[n-1].Round != round {
		next := make([]int, length)
		if n > 0 {
			copy(next, a.History[n-1].Values)
		}
		a.History = append(a.History, ArrayRevision{Round: round, Values: next})
		n++
	}
	a.History[n-1].Values[index] = value
}

// at returns the array as of round, or zeros before the first write.
func (a *TeamArray) at(round, length int) []int {
	i := sort.Search(len(a.History), func(i int) bool { return a.History[i].Round > round })
	out := make([]int, length)
	if i > 0 {
		copy(out, a.History[i-1].Values)
	}
	return out
}

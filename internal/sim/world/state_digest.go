package world

import (
	"encoding/hex"
	"sort"

	"lukechampine.com/blake3"

	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/world/io/digestcodec"
	"battlecode.ai/internal/sim/world/io/snapshotcodec"
)

// Digest hashes the logical state. Two worlds with equal digests behave the
// same for every future action sequence.
func (w *World) Digest() string {
	h := blake3.New(32, nil)
	e := digestcodec.NewEncoder(h)

	w.digestHeader(e)
	w.digestUnits(e)
	w.digestInfos(e)
	w.digestLandings(e)
	w.digestPlanets(e)
	w.digestTeams(e)

	return hex.EncodeToString(h.Sum(nil))
}

func (w *World) digestHeader(e *digestcodec.Encoder) {
	e.U64(w.seed)
	e.Int(w.round)
	e.Int(int(w.player.Team))
	e.Int(int(w.player.Planet))
	e.Bool(w.IsFiltered())
	vis := make([]geom.MapLocation, 0, len(w.visible))
	for l := range w.visible {
		vis = append(vis, l)
	}
	sortLocations(vis)
	e.Int(len(vis))
	for _, l := range vis {
		digestMapLocation(e, l)
	}
}

func (w *World) digestUnits(e *digestcodec.Encoder) {
	ids := w.sortedIDs()
	e.Int(len(ids))
	for _, id := range ids {
		u := w.units[id]
		e.U64(uint64(u.ID))
		e.Int(int(u.Team))
		e.Int(int(u.Type))
		e.Int(u.Level)
		e.Int(u.Health)
		digestLocation(e, u.Location)
		digestStats(e, u.Stats)
		e.Bool(u.Unlocked)
		e.Ints([]int{u.MovementHeat, u.AttackHeat, u.AbilityHeat})
		e.Bool(u.Worker != nil && u.Worker.HasActed)
		if s := u.Structure; s != nil {
			e.Bool(true)
			e.Bool(s.Built)
			e.Bool(s.Used)
			e.Int(len(s.Garrison))
			for _, g := range s.Garrison {
				e.U64(uint64(g))
			}
			if p := s.Production; p != nil {
				e.Ints([]int{1, int(p.Type), p.RoundsLeft})
			} else {
				e.Ints([]int{0})
			}
		} else {
			e.Bool(false)
		}
	}
}

func (w *World) digestInfos(e *digestcodec.Encoder) {
	ids := snapshotcodec.SortedKeys(w.infos)
	e.Int(len(ids))
	for _, id := range ids {
		i := w.infos[id]
		e.U64(uint64(i.ID))
		e.Ints([]int{int(i.Team), int(i.Type), i.Level, i.Health, i.MaxHealth})
		digestLocation(e, i.Location)
		e.Bool(i.Built)
	}
}

func (w *World) digestLandings(e *digestcodec.Encoder) {
	rounds := snapshotcodec.SortedKeys(w.landings)
	e.Int(len(rounds))
	for _, r := range rounds {
		e.Int(r)
		e.Int(len(w.landings[r]))
		for _, l := range w.landings[r] {
			e.U64(uint64(l.Rocket))
			digestMapLocation(e, l.Destination)
		}
	}
}

func (w *World) digestPlanets(e *digestcodec.Encoder) {
	for _, p := range w.planets {
		e.Int(int(p.Map.Planet))
		for _, row := range p.Karbonite {
			e.Ints(row)
		}
	}
}

func (w *World) digestTeams(e *digestcodec.Encoder) {
	teams := sortedTeams(w.teams)
	e.Int(len(teams))
	for _, team := range teams {
		ti := w.teams[team]
		e.Int(int(team))
		e.U64(uint64(ti.IDs.Next))
		e.Int(ti.Karbonite)
		digestcodec.WriteSortedIntMap(e, ti.Research.Levels, func(t unit.Type) uint64 { return uint64(t) })
		queue := make([]int, len(ti.Research.Queue))
		for i, q := range ti.Research.Queue {
			queue[i] = int(q)
		}
		e.Ints(queue)
		e.Int(ti.Research.RoundsLeft)
		for _, a := range ti.Arrays {
			e.Int(len(a.History))
			for _, rev := range a.History {
				e.Int(rev.Round)
				e.Ints(rev.Values)
			}
		}
	}
}

func digestLocation(e *digestcodec.Encoder, l geom.Location) {
	e.Int(int(l.Kind))
	switch l.Kind {
	case geom.OnMap:
		digestMapLocation(e, l.Map)
	case geom.InGarrison:
		e.U64(uint64(l.Structure))
	}
}

func digestMapLocation(e *digestcodec.Encoder, l geom.MapLocation) {
	e.Ints([]int{int(l.Planet), l.X, l.Y})
}

func digestStats(e *digestcodec.Encoder, s tuning.UnitStats) {
	e.Ints([]int{
		s.Cost, s.ReplicateCost, s.MaxHealth, s.VisionRange, s.Damage, s.AttackRange,
		s.MinAttackRange, s.MovementCooldown, s.AttackCooldown, s.AbilityCooldown,
		s.AbilityRange, s.Defense, s.HarvestAmount, s.BuildHealth, s.RepairHealth,
		s.HealAmount, s.Capacity, s.TravelTimeDecrease,
	})
}

func sortLocations(ls []geom.MapLocation) {
	sort.Slice(ls, func(i, j int) bool {
		a, b := ls[i], ls[j]
		if a.Planet != b.Planet {
			return a.Planet < b.Planet
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

package world

import (
	"fmt"

	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/world/io/snapshotcodec"
)

// ImportSnapshot rebuilds a world from ExportSnapshot output. A filtered
// snapshot yields a filtered world.
func ImportSnapshot(s snapshot.GameV1, t *tuning.Tuning) (*World, error) {
	if t == nil {
		def := tuning.Defaults()
		t = &def
	}
	if len(s.Planets) != 2 {
		return nil, gameerr.New(gameerr.CodeInternalEngine, "snapshot has %d planets", len(s.Planets))
	}
	w := &World{
		tuning:   t,
		seed:     s.Seed,
		round:    s.Round,
		player:   s.Player,
		weather:  s.Weather,
		units:    make(map[geom.UnitID]*unit.Unit, len(s.Units)),
		byLoc:    map[geom.MapLocation]geom.UnitID{},
		landings: map[int][]Landing{},
		teams:    map[geom.Team]*TeamInfo{},
	}
	if s.Filtered {
		w.infos = make(map[geom.UnitID]unit.Info, len(s.Infos))
		w.visible = make(map[geom.MapLocation]bool, len(s.Visible))
		for _, l := range s.Visible {
			w.visible[l] = true
		}
		for _, i := range s.Infos {
			w.infos[i.ID] = i
		}
	}

	for _, p := range s.Planets {
		if p.Map.Planet > geom.Mars || w.planets[p.Map.Planet] != nil {
			return nil, gameerr.New(gameerr.CodeInternalEngine, "snapshot planet %s repeated", p.Map.Planet)
		}
		w.planets[p.Map.Planet] = &PlanetInfo{Map: p.Map, Karbonite: snapshotcodec.CopyGrid(p.Karbonite)}
	}

	for _, u := range s.Units {
		c := u.Clone()
		if c.Type == unit.Worker && c.Worker == nil {
			c.Worker = &unit.WorkerState{}
		}
		if c.Type.IsStructure() {
			if c.Structure == nil {
				c.Structure = &unit.StructureState{}
			}
			if c.Structure.Garrison == nil {
				c.Structure.Garrison = []geom.UnitID{}
			}
		}
		w.units[c.ID] = &c
		if l, ok := c.MapLocation(); ok {
			if other, taken := w.byLoc[l]; taken {
				return nil, gameerr.New(gameerr.CodeInternalEngine, "units %d and %d share %s", other, c.ID, l)
			}
			w.byLoc[l] = c.ID
		}
	}

	for _, l := range s.Landings {
		w.landings[l.Round] = append(w.landings[l.Round], Landing{Rocket: l.Rocket, Destination: l.Destination})
	}

	for _, tv := range s.Teams {
		ti := &TeamInfo{
			Team:      tv.Team,
			IDs:       tv.IDs,
			Research:  tv.Research.Clone(),
			Karbonite: tv.Karbonite,
		}
		for p := range ti.Arrays {
			ti.Arrays[p] = &TeamArray{}
		}
		for _, av := range tv.Arrays {
			if av.Planet > geom.Mars {
				return nil, gameerr.New(gameerr.CodeInternalEngine, "team array for planet %d", av.Planet)
			}
			a := ti.Arrays[av.Planet]
			for _, e := range av.History {
				a.History = append(a.History, ArrayRevision{Round: e.Round, Values: append([]int(nil), e.Values...)})
			}
		}
		w.teams[tv.Team] = ti
	}
	if _, ok := w.teams[w.Team()]; !ok {
		return nil, gameerr.New(gameerr.CodeInternalEngine, "snapshot lacks team %s", w.Team())
	}

	if err := w.CheckIndex(); err != nil {
		return nil, fmt.Errorf("snapshot index: %w", err)
	}
	w.startTurnSight()
	return w, nil
}

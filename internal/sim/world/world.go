package world

import (
	"fmt"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/weather"
)

// World is the game state. An authoritative world sees everything; a filtered
// world is one player's view of it, produced by Filter.
//
// A World is not safe for concurrent use. The match runner is its only writer.
type World struct {
	tuning *tuning.Tuning

	seed   uint64
	round  int
	player geom.Player

	weather weather.WeatherPattern

	units map[geom.UnitID]*unit.Unit
	byLoc map[geom.MapLocation]geom.UnitID

	// infos holds the opponent's units seen by a filtered world. It is nil in
	// the authoritative world, where every info derives from units.
	infos     map[geom.UnitID]unit.Info
	// visible is nil when the world is omniscient.
	visible   map[geom.MapLocation]bool
	// turnSight is what the player to move saw when its turn began. It is
	// derived state and never digested or exported.
	turnSight map[geom.MapLocation]bool
	sightFor  geom.Player

	landings map[int][]Landing

	planets [2]*PlanetInfo
	teams   map[geom.Team]*TeamInfo
}

// Landing is a rocket in flight and the square it will come down on.
type Landing struct {
	Rocket      geom.UnitID      `json:"rocket"`
	Destination geom.MapLocation `json:"destination"`
}

// New validates m and builds the authoritative world at round 1 with the
// map's initial units placed. No world is returned when the map is invalid.
func New(m gamemap.GameMap, t *tuning.Tuning) (*World, error) {
	if t == nil {
		def := tuning.Defaults()
		t = &def
	}
	if err := m.Validate(t); err != nil {
		return nil, err
	}

	w := &World{
		tuning:   t,
		seed:     m.Seed,
		round:    1,
		player:   geom.Player{Team: geom.Red, Planet: geom.Earth},
		weather:  m.Weather,
		units:    map[geom.UnitID]*unit.Unit{},
		byLoc:    map[geom.MapLocation]geom.UnitID{},
		landings: map[int][]Landing{},
		teams:    map[geom.Team]*TeamInfo{},
	}
	for _, p := range []geom.Planet{geom.Earth, geom.Mars} {
		w.planets[p] = newPlanetInfo(*m.Planet(p))
	}
	for _, team := range []geom.Team{geom.Red, geom.Blue} {
		w.teams[team] = newTeamInfo(team, m.Seed, t)
	}

	for _, p := range []geom.Planet{geom.Earth, geom.Mars} {
		for _, iu := range m.Planet(p).InitialUnits {
			if _, err := w.createUnit(iu.Team, geom.At(iu.Location), iu.Type); err != nil {
				return nil, fmt.Errorf("initial unit at %s: %w", iu.Location, err)
			}
		}
	}
	w.startTurnSight()
	return w, nil
}

func (w *World) Tuning() *tuning.Tuning { return w.tuning }

func (w *World) Round() int { return w.round }

func (w *World) Player() geom.Player { return w.player }

func (w *World) Team() geom.Team { return w.player.Team }

func (w *World) Planet() geom.Planet { return w.player.Planet }

func (w *World) Seed() uint64 { return w.seed }

// IsFiltered reports whether the world is a player's view rather than the
// authoritative state.
func (w *World) IsFiltered() bool { return w.visible != nil }

func (w *World) StartingMap(p geom.Planet) *gamemap.PlanetMap {
	return &w.planets[p].Map
}

func (w *World) Weather() weather.WeatherPattern { return w.weather }

// Karbonite is the current team's pool.
func (w *World) Karbonite() int {
	return w.teams[w.Team()].Karbonite
}

// TeamKarbonite is visible only for the viewing team of a filtered world.
func (w *World) TeamKarbonite(team geom.Team) (int, bool) {
	ti, ok := w.teams[team]
	if !ok {
		return 0, false
	}
	return ti.Karbonite, true
}

func (w *World) planetOf(l geom.MapLocation) *PlanetInfo {
	if l.Planet > geom.Mars {
		return nil
	}
	return w.planets[l.Planet]
}

func (w *World) onMap(l geom.MapLocation) bool {
	p := w.planetOf(l)
	return p != nil && p.Map.OnMap(l)
}

func (w *World) team() *TeamInfo {
	ti := w.teams[w.Team()]
	if ti == nil {
		panic(gameerr.New(gameerr.CodeInternalEngine, "no team info for %s", w.Team()))
	}
	return ti
}

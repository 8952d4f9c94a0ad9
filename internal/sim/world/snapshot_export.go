package world

import (
	"sort"

	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/sim/world/io/snapshotcodec"
)

// ExportSnapshot copies the logical state into its serialized form. Slices are
// sorted so equal worlds export equal snapshots.
func (w *World) ExportSnapshot() snapshot.GameV1 {
	s := snapshot.GameV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			Round:   w.round,
			Player:  w.player,
		},
		Seed:     w.seed,
		Round:    w.round,
		Player:   w.player,
		Filtered: w.IsFiltered(),
		Weather:  w.weather,
	}

	if w.visible != nil {
		for l := range w.visible {
			s.Visible = append(s.Visible, l)
		}
		sortLocations(s.Visible)
	}

	for _, id := range w.sortedIDs() {
		s.Units = append(s.Units, w.units[id].Clone())
	}
	for _, id := range snapshotcodec.SortedKeys(w.infos) {
		s.Infos = append(s.Infos, w.infos[id])
	}

	for _, r := range snapshotcodec.SortedKeys(w.landings) {
		for _, l := range w.landings[r] {
			s.Landings = append(s.Landings, snapshot.LandingV1{Round: r, Rocket: l.Rocket, Destination: l.Destination})
		}
	}

	for _, p := range w.planets {
		s.Planets = append(s.Planets, snapshot.PlanetV1{Map: p.Map, Karbonite: snapshotcodec.CopyGrid(p.Karbonite)})
	}

	for _, team := range sortedTeams(w.teams) {
		ti := w.teams[team]
		tv := snapshot.TeamV1{
			Team:      team,
			IDs:       ti.IDs,
			Research:  ti.Research.Clone(),
			Karbonite: ti.Karbonite,
		}
		for p, a := range ti.Arrays {
			av := snapshot.TeamArrayV1{Planet: w.planets[p].Map.Planet}
			for _, rev := range a.History {
				av.History = append(av.History, snapshot.ArrayEntryV1{Round: rev.Round, Values: append([]int(nil), rev.Values...)})
			}
			tv.Arrays = append(tv.Arrays, av)
		}
		s.Teams = append(s.Teams, tv)
	}
	sort.SliceStable(s.Teams, func(i, j int) bool { return s.Teams[i].Team < s.Teams[j].Team })
	return s
}

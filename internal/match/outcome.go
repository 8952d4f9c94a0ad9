package match

import (
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/world"
)

const (
	ReasonElimination = "elimination"
	ReasonRoundLimit  = "round limit"
	ReasonCanceled    = "canceled"
)

// Outcome is how a match ended. Winner is meaningful only when Draw is false.
type Outcome struct {
	MatchID string    `json:"match_id"`
	Round   int       `json:"round"`
	Winner  geom.Team `json:"winner"`
	Draw    bool      `json:"draw"`
	Reason  string    `json:"reason"`
	Digest  string    `json:"digest"`
}

// WinnerName is the winning team's name, or "" for a draw.
func (o Outcome) WinnerName() string {
	if o.Draw {
		return ""
	}
	return o.Winner.String()
}

type standing struct {
	units     int
	karbonite int
}

func standings(w *world.World) map[geom.Team]standing {
	out := map[geom.Team]standing{}
	for _, team := range []geom.Team{geom.Red, geom.Blue} {
		k, _ := w.TeamKarbonite(team)
		out[team] = standing{karbonite: k}
	}
	for _, info := range w.Units() {
		s := out[info.Team]
		s.units++
		out[info.Team] = s
	}
	return out
}

// eliminated reports whether some team has no units left. When both are gone
// the match is a draw.
func eliminated(w *world.World) (Outcome, bool) {
	s := standings(w)
	red, blue := s[geom.Red].units, s[geom.Blue].units
	switch {
	case red > 0 && blue > 0:
		return Outcome{}, false
	case red == 0 && blue == 0:
		return Outcome{Draw: true, Reason: ReasonElimination}, true
	case red == 0:
		return Outcome{Winner: geom.Blue, Reason: ReasonElimination}, true
	}
	return Outcome{Winner: geom.Red, Reason: ReasonElimination}, true
}

// atRoundLimit ranks the teams by unit count, then karbonite.
func atRoundLimit(w *world.World) Outcome {
	s := standings(w)
	red, blue := s[geom.Red], s[geom.Blue]
	o := Outcome{Reason: ReasonRoundLimit}
	switch {
	case red.units != blue.units:
		o.Winner = geom.Red
		if blue.units > red.units {
			o.Winner = geom.Blue
		}
	case red.karbonite != blue.karbonite:
		o.Winner = geom.Red
		if blue.karbonite > red.karbonite {
			o.Winner = geom.Blue
		}
	default:
		o.Draw = true
	}
	return o
}

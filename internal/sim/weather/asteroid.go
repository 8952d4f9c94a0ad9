package weather

import (
	"sort"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/mathx"
	"battlecode.ai/internal/sim/tuning"
)

type AsteroidStrike struct {
	Karbonite int              `json:"karbonite"`
	Location  geom.MapLocation `json:"location"`
}

// AsteroidPattern maps a round number to the strike that lands on Mars in that round.
type AsteroidPattern struct {
	Strikes map[int]AsteroidStrike `json:"strikes"`
}

func NewAsteroidPattern(strikes map[int]AsteroidStrike) AsteroidPattern {
	cp := make(map[int]AsteroidStrike, len(strikes))
	for r, s := range strikes {
		cp[r] = s
	}
	return AsteroidPattern{Strikes: cp}
}

// RandomAsteroidPattern draws a strike schedule covering the whole game. For every
// strike the draw order is gap, karbonite, x, y; changing it changes every schedule.
func RandomAsteroidPattern(seed uint64, mars geom.Rect, w tuning.WeatherBounds, roundLimit int) AsteroidPattern {
	rng := mathx.NewRand(seed)
	strikes := map[int]AsteroidStrike{}
	round := 0
	for {
		round += rng.Range(w.AsteroidRoundMin, w.AsteroidRoundMax)
		if round >= roundLimit {
			break
		}
		k := rng.Range(w.AsteroidKarboniteMin, w.AsteroidKarboniteMax)
		x := rng.Range(mars.MinX, mars.MaxX-1)
		y := rng.Range(mars.MinY, mars.MaxY-1)
		strikes[round] = AsteroidStrike{Karbonite: k, Location: geom.NewMapLocation(geom.Mars, x, y)}
	}
	return AsteroidPattern{Strikes: strikes}
}

// Rounds returns the strike rounds in ascending order.
func (p AsteroidPattern) Rounds() []int {
	out := make([]int, 0, len(p.Strikes))
	for r := range p.Strikes {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

func (p AsteroidPattern) Asteroid(round int) (AsteroidStrike, bool) {
	s, ok := p.Strikes[round]
	return s, ok
}

// Validate checks every strike and the spacing between them. The leading gap
// (first round minus one) and trailing gap (round limit minus last round) are only
// bounded above, since a schedule may start or stop at any point inside a band.
func (p AsteroidPattern) Validate(w tuning.WeatherBounds, roundLimit int, mars geom.Rect) error {
	rounds := p.Rounds()
	if len(rounds) == 0 {
		return gameerr.New(gameerr.CodeInvalidMapObject, "asteroid pattern is empty")
	}
	for _, r := range rounds {
		s := p.Strikes[r]
		if r < 1 || r > roundLimit {
			return gameerr.New(gameerr.CodeInvalidMapObject, "asteroid round %d outside [1,%d]", r, roundLimit)
		}
		if s.Karbonite < w.AsteroidKarboniteMin || s.Karbonite > w.AsteroidKarboniteMax {
			return gameerr.New(gameerr.CodeInvalidMapObject, "asteroid karbonite %d at round %d out of band", s.Karbonite, r)
		}
		if s.Location.Planet != geom.Mars {
			return gameerr.New(gameerr.CodeInvalidMapObject, "asteroid at round %d not on Mars", r)
		}
		if !mars.Contains(s.Location.X, s.Location.Y) {
			return gameerr.New(gameerr.CodeInvalidMapObject, "asteroid at round %d off the Mars map", r)
		}
	}
	if rounds[0]-1 > w.AsteroidRoundMax {
		return gameerr.New(gameerr.CodeInvalidMapObject, "first asteroid at round %d is too late", rounds[0])
	}
	if roundLimit-rounds[len(rounds)-1] > w.AsteroidRoundMax {
		return gameerr.New(gameerr.CodeInvalidMapObject, "last asteroid at round %d is too early", rounds[len(rounds)-1])
	}
	for i := 0; i+1 < len(rounds); i++ {
		d := rounds[i+1] - rounds[i]
		if d < w.AsteroidRoundMin || d > w.AsteroidRoundMax {
			return gameerr.New(gameerr.CodeInvalidMapObject, "asteroid gap %d between rounds %d and %d", d, rounds[i], rounds[i+1])
		}
	}
	return nil
}

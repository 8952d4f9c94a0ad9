package gamemap

import (
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/mathx"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/weather"
)

type GenOptions struct {
	Seed           uint64
	Width          int
	Height         int
	Symmetry       Symmetry
	// Deposits and Obstacles count square pairs, not squares.
	Deposits       int
	Obstacles      int
	// WorkersPerTeam defaults to 1.
	WorkersPerTeam int
}

// Generate builds a symmetric Earth and a blank Mars from opts. The result
// depends only on opts and t.
func Generate(opts GenOptions, t *tuning.Tuning) GameMap {
	if opts.Width == 0 {
		opts.Width = t.Map.WidthMin
	}
	if opts.Height == 0 {
		opts.Height = t.Map.HeightMin
	}
	if opts.WorkersPerTeam <= 0 {
		opts.WorkersPerTeam = 1
	}
	rng := mathx.NewRand(opts.Seed)
	earth := BlankPlanet(geom.Earth, opts.Width, opts.Height)
	mars := BlankPlanet(geom.Mars, opts.Width, opts.Height)
	sym := opts.Symmetry

	// Workers first so terrain never lands on a start square.
	reserved := map[[2]int]bool{}
	for i := 0; i < opts.WorkersPerTeam; i++ {
		x, y := freeSquare(rng, opts.Width, opts.Height, sym, reserved)
		if x < 0 {
			break
		}
		px, py := sym.Apply(x, y, opts.Width, opts.Height)
		reserved[[2]int{x, y}] = true
		reserved[[2]int{px, py}] = true
		earth.InitialUnits = append(earth.InitialUnits,
			InitialUnit{Team: geom.Red, Type: unit.Worker, Location: geom.NewMapLocation(geom.Earth, x, y)},
			InitialUnit{Team: geom.Blue, Type: unit.Worker, Location: geom.NewMapLocation(geom.Earth, px, py)},
		)
	}

	for i := 0; i < opts.Obstacles; i++ {
		x, y := freeSquare(rng, opts.Width, opts.Height, sym, reserved)
		if x < 0 {
			break
		}
		px, py := sym.Apply(x, y, opts.Width, opts.Height)
		earth.Passable[y][x] = false
		earth.Passable[py][px] = false
		reserved[[2]int{x, y}] = true
		reserved[[2]int{px, py}] = true
	}
	lo, hi := max(t.Map.KarboniteMin, 1), t.Map.KarboniteMax
	for i := 0; i < opts.Deposits && hi >= lo; i++ {
		x, y := rng.Intn(opts.Width), rng.Intn(opts.Height)
		px, py := sym.Apply(x, y, opts.Width, opts.Height)
		k := rng.Range(lo, hi)
		earth.InitialKarbonite[y][x] = k
		earth.InitialKarbonite[py][px] = k
	}

	return GameMap{
		Seed:  opts.Seed,
		Earth: earth,
		Mars:  mars,
		Weather: weather.WeatherPattern{
			Asteroids: weather.RandomAsteroidPattern(opts.Seed, mars.Bounds(), t.Weather, t.Game.RoundLimit),
			Orbit:     defaultOrbit(t.Weather),
		},
	}
}

// freeSquare draws a square whose partner is distinct and neither is reserved.
// It gives up with (-1, -1) after a bounded number of draws.
func freeSquare(rng *mathx.Rand, width, height int, sym Symmetry, reserved map[[2]int]bool) (int, int) {
	for tries := 0; tries < 64; tries++ {
		x, y := rng.Intn(width), rng.Intn(height)
		px, py := sym.Apply(x, y, width, height)
		if (px == x && py == y) || reserved[[2]int{x, y}] || reserved[[2]int{px, py}] {
			continue
		}
		return x, y
	}
	return -1, -1
}

// defaultOrbit is the widest orbit inside the tuning's flight bounds with a
// 200 round period.
func defaultOrbit(w tuning.WeatherBounds) weather.OrbitPattern {
	center := (w.OrbitFlightMin + w.OrbitFlightMax) / 2
	return weather.NewOrbitPattern(center-w.OrbitFlightMin, 200, center)
}

package weather

import (
	"math"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/mathx"
	"battlecode.ai/internal/sim/tuning"
)

// OrbitPattern gives the flight duration for a rocket launched in a given round:
// amplitude*sin(2*pi*round/period) + center, rounded half away from zero.
type OrbitPattern struct {
	Amplitude int `json:"amplitude"`
	Period    int `json:"period"`
	Center    int `json:"center"`
}

func NewOrbitPattern(amplitude, period, center int) OrbitPattern {
	return OrbitPattern{Amplitude: amplitude, Period: period, Center: center}
}

func (o OrbitPattern) Validate(w tuning.WeatherBounds) error {
	if o.Period <= 0 {
		return gameerr.New(gameerr.CodeInvalidMapObject, "orbit period %d must be positive", o.Period)
	}
	if o.Amplitude < 0 {
		return gameerr.New(gameerr.CodeInvalidMapObject, "orbit amplitude %d must be non-negative", o.Amplitude)
	}
	if o.Center-o.Amplitude < w.OrbitFlightMin {
		return gameerr.New(gameerr.CodeInvalidMapObject, "shortest flight %d below %d", o.Center-o.Amplitude, w.OrbitFlightMin)
	}
	if o.Center+o.Amplitude > w.OrbitFlightMax {
		return gameerr.New(gameerr.CodeInvalidMapObject, "longest flight %d above %d", o.Center+o.Amplitude, w.OrbitFlightMax)
	}
	return nil
}

// Duration reduces round modulo the period before evaluating, so the result is
// exactly periodic.
func (o OrbitPattern) Duration(round int) int {
	if o.Period <= 0 {
		return o.Center
	}
	phase := float64(mathx.Mod(round, o.Period)) / float64(o.Period)
	return mathx.Round(float64(o.Amplitude)*math.Sin(2*math.Pi*phase)) + o.Center
}

type WeatherPattern struct {
	Asteroids AsteroidPattern `json:"asteroids"`
	Orbit     OrbitPattern    `json:"orbit"`
}

func (p WeatherPattern) Validate(t *tuning.Tuning, mars geom.Rect) error {
	if err := p.Asteroids.Validate(t.Weather, t.Game.RoundLimit, mars); err != nil {
		return err
	}
	return p.Orbit.Validate(t.Weather)
}

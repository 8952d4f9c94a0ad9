package geom

import (
	"encoding/json"
	"fmt"
)

type MapLocation struct {
	Planet Planet `json:"planet"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func NewMapLocation(p Planet, x, y int) MapLocation {
	return MapLocation{Planet: p, X: x, Y: y}
}

func (l MapLocation) Add(d Direction) MapLocation {
	return MapLocation{Planet: l.Planet, X: l.X + d.DX(), Y: l.Y + d.DY()}
}

func (l MapLocation) Translate(dx, dy int) MapLocation {
	return MapLocation{Planet: l.Planet, X: l.X + dx, Y: l.Y + dy}
}

// DistanceSquaredTo is undefined across planets; callers check the planet first.
func (l MapLocation) DistanceSquaredTo(o MapLocation) int {
	dx := l.X - o.X
	dy := l.Y - o.Y
	return dx*dx + dy*dy
}

func (l MapLocation) IsAdjacentTo(o MapLocation) bool {
	return l.Planet == o.Planet && l != o && l.DistanceSquaredTo(o) <= 2
}

func (l MapLocation) IsWithinRange(rangeSq int, o MapLocation) bool {
	return l.Planet == o.Planet && l.DistanceSquaredTo(o) <= rangeSq
}

// DirectionTo returns the compass direction from l to an adjacent or equal o.
func (l MapLocation) DirectionTo(o MapLocation) (Direction, bool) {
	if l.Planet != o.Planet {
		return 0, false
	}
	dx, dy := sign(o.X-l.X), sign(o.Y-l.Y)
	for i, d := range dirDeltas {
		if d[0] == dx && d[1] == dy {
			return Direction(i), true
		}
	}
	return 0, false
}

// Neighbors returns the eight surrounding squares clockwise from North. The
// result may include squares off the map.
func (l MapLocation) Neighbors() []MapLocation {
	out := make([]MapLocation, 0, 8)
	for _, d := range Directions() {
		out = append(out, l.Add(d))
	}
	return out
}

// LocationsWithin returns every location within rangeSq of l that lies in bounds,
// in row-major order.
func (l MapLocation) LocationsWithin(rangeSq int, bounds Rect) []MapLocation {
	if rangeSq < 0 {
		return nil
	}
	r := isqrt(rangeSq)
	var out []MapLocation
	for y := l.Y - r; y <= l.Y+r; y++ {
		for x := l.X - r; x <= l.X+r; x++ {
			c := MapLocation{Planet: l.Planet, X: x, Y: y}
			if !bounds.Contains(x, y) || l.DistanceSquaredTo(c) > rangeSq {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func (l MapLocation) String() string {
	return fmt.Sprintf("%s(%d,%d)", l.Planet, l.X, l.Y)
}

// Rect is a half-open box: MinX <= x < MaxX, MinY <= y < MaxY.
type Rect struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

func (r Rect) Width() int  { return r.MaxX - r.MinX }
func (r Rect) Height() int { return r.MaxY - r.MinY }

type LocationKind uint8

const (
	OnMap LocationKind = iota
	InSpace
	InGarrison
)

func (k LocationKind) String() string {
	switch k {
	case OnMap:
		return "OnMap"
	case InSpace:
		return "InSpace"
	case InGarrison:
		return "InGarrison"
	}
	return fmt.Sprintf("LocationKind(%d)", uint8(k))
}

// Location says where a unit physically is. Map is meaningful only for OnMap and
// Structure only for InGarrison.
type Location struct {
	Kind      LocationKind
	Map       MapLocation
	Structure UnitID
}

func At(l MapLocation) Location { return Location{Kind: OnMap, Map: l} }

func Space() Location { return Location{Kind: InSpace} }

func Garrisoned(structure UnitID) Location { return Location{Kind: InGarrison, Structure: structure} }

func (l Location) IsOnMap() bool { return l.Kind == OnMap }

func (l Location) IsOnPlanet(p Planet) bool { return l.Kind == OnMap && l.Map.Planet == p }

func (l Location) String() string {
	switch l.Kind {
	case OnMap:
		return l.Map.String()
	case InGarrison:
		return fmt.Sprintf("InGarrison(%d)", l.Structure)
	}
	return l.Kind.String()
}

type locationJSON struct {
	Kind      string       `json:"kind"`
	Map       *MapLocation `json:"map,omitempty"`
	Structure UnitID       `json:"structure,omitempty"`
}

func (l Location) MarshalJSON() ([]byte, error) {
	j := locationJSON{Kind: l.Kind.String()}
	switch l.Kind {
	case OnMap:
		m := l.Map
		j.Map = &m
	case InGarrison:
		j.Structure = l.Structure
	}
	return json.Marshal(j)
}

func (l *Location) UnmarshalJSON(b []byte) error {
	var j locationJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	switch j.Kind {
	case "OnMap":
		if j.Map == nil {
			return fmt.Errorf("location: OnMap without map coordinates")
		}
		*l = At(*j.Map)
	case "InSpace":
		*l = Space()
	case "InGarrison":
		*l = Garrisoned(j.Structure)
	default:
		return fmt.Errorf("location: unknown kind %q", j.Kind)
	}
	return nil
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

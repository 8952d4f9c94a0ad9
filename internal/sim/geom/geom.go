// Package geom holds the planet-qualified coordinate model shared by the map,
// weather, and world packages. Every type here is a plain value.
package geom

import "fmt"

type Planet uint8

const (
	Earth Planet = iota
	Mars
)

func (p Planet) Other() Planet {
	if p == Earth {
		return Mars
	}
	return Earth
}

func (p Planet) String() string {
	switch p {
	case Earth:
		return "Earth"
	case Mars:
		return "Mars"
	}
	return fmt.Sprintf("Planet(%d)", uint8(p))
}

func ParsePlanet(s string) (Planet, bool) {
	switch s {
	case "Earth", "earth", "EARTH":
		return Earth, true
	case "Mars", "mars", "MARS":
		return Mars, true
	}
	return 0, false
}

type Team uint8

const (
	Red Team = iota
	Blue
)

func (t Team) Other() Team {
	if t == Red {
		return Blue
	}
	return Red
}

func (t Team) String() string {
	switch t {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	}
	return fmt.Sprintf("Team(%d)", uint8(t))
}

func ParseTeam(s string) (Team, bool) {
	switch s {
	case "Red", "red", "RED":
		return Red, true
	case "Blue", "blue", "BLUE":
		return Blue, true
	}
	return 0, false
}

// Player is one seat: a team acting on one planet.
type Player struct {
	Team   Team   `json:"team"`
	Planet Planet `json:"planet"`
}

func (p Player) String() string { return p.Team.String() + "/" + p.Planet.String() }

// Players lists the four seats in turn order.
func Players() [4]Player {
	return [4]Player{
		{Team: Red, Planet: Earth},
		{Team: Blue, Planet: Earth},
		{Team: Red, Planet: Mars},
		{Team: Blue, Planet: Mars},
	}
}

// Next returns the seat after p and whether the cycle wrapped to a new round.
func (p Player) Next() (Player, bool) {
	switch {
	case p.Team == Red && p.Planet == Earth:
		return Player{Team: Blue, Planet: Earth}, false
	case p.Team == Blue && p.Planet == Earth:
		return Player{Team: Red, Planet: Mars}, false
	case p.Team == Red && p.Planet == Mars:
		return Player{Team: Blue, Planet: Mars}, false
	}
	return Player{Team: Red, Planet: Earth}, true
}

// UnitID identifies a unit for the whole game. IDs are never reused.
type UnitID uint32

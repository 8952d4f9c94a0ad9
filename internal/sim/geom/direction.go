package geom

import "fmt"

type Direction uint8

const (
	North Direction = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
	Center
)

var dirNames = [...]string{"North", "Northeast", "East", "Southeast", "South", "Southwest", "West", "Northwest", "Center"}

var dirDeltas = [...][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 0},
}

// Directions returns the eight compass directions, clockwise from North.
func Directions() []Direction {
	return []Direction{North, Northeast, East, Southeast, South, Southwest, West, Northwest}
}

func (d Direction) Valid() bool { return d <= Center }

func (d Direction) DX() int { return dirDeltas[d][0] }
func (d Direction) DY() int { return dirDeltas[d][1] }

func (d Direction) IsDiagonal() bool { return d.Valid() && d != Center && d%2 == 1 }

func (d Direction) Opposite() Direction {
	if d == Center {
		return Center
	}
	return (d + 4) % 8
}

func (d Direction) RotateRight() Direction {
	if d == Center {
		return Center
	}
	return (d + 1) % 8
}

func (d Direction) RotateLeft() Direction {
	if d == Center {
		return Center
	}
	return (d + 7) % 8
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return dirNames[d]
}

func ParseDirection(s string) (Direction, bool) {
	for i, n := range dirNames {
		if n == s {
			return Direction(i), true
		}
	}
	return 0, false
}

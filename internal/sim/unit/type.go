package unit

import "fmt"

type Type uint8

const (
	Worker Type = iota
	Knight
	Ranger
	Mage
	Healer
	Factory
	Rocket
)

var typeNames = [...]string{"Worker", "Knight", "Ranger", "Mage", "Healer", "Factory", "Rocket"}

func Types() []Type {
	return []Type{Worker, Knight, Ranger, Mage, Healer, Factory, Rocket}
}

func (t Type) Valid() bool { return t <= Rocket }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return typeNames[t]
}

func ParseType(s string) (Type, bool) {
	for i, n := range typeNames {
		if n == s {
			return Type(i), true
		}
	}
	return 0, false
}

func (t Type) IsRobot() bool     { return t.Valid() && t < Factory }
func (t Type) IsStructure() bool { return t == Factory || t == Rocket }

// CanAttack reports whether the type has a regular attack. Healers "attack" by
// healing and are handled separately.
func (t Type) CanAttack() bool { return t == Knight || t == Ranger || t == Mage }

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unit: invalid type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, ok := ParseType(string(b))
	if !ok {
		return fmt.Errorf("unit: unknown type %q", string(b))
	}
	*t = v
	return nil
}

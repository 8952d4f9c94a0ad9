package geom

import "fmt"

func (p Planet) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Planet) UnmarshalText(b []byte) error {
	v, ok := ParsePlanet(string(b))
	if !ok {
		return fmt.Errorf("geom: unknown planet %q", string(b))
	}
	*p = v
	return nil
}

func (t Team) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Team) UnmarshalText(b []byte) error {
	v, ok := ParseTeam(string(b))
	if !ok {
		return fmt.Errorf("geom: unknown team %q", string(b))
	}
	*t = v
	return nil
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("geom: invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, ok := ParseDirection(string(b))
	if !ok {
		return fmt.Errorf("geom: unknown direction %q", string(b))
	}
	*d = v
	return nil
}

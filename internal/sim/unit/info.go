package unit

import "battlecode.ai/internal/sim/geom"

// Info is the public projection of a unit that the other team may see.
type Info struct {
	ID        geom.UnitID   `json:"id"`
	Team      geom.Team     `json:"team"`
	Type      Type          `json:"type"`
	Level     int           `json:"level"`
	Health    int           `json:"health"`
	MaxHealth int           `json:"max_health"`
	Location  geom.Location `json:"location"`
	Built     bool          `json:"built"`
}

func (u *Unit) Info() Info {
	return Info{
		ID:        u.ID,
		Team:      u.Team,
		Type:      u.Type,
		Level:     u.Level,
		Health:    u.Health,
		MaxHealth: u.Stats.MaxHealth,
		Location:  u.Location,
		Built:     u.IsBuilt(),
	}
}

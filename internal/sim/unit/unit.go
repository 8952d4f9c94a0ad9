// Package unit is the entity model for robots and structures. A Unit is one
// tagged value: Type selects which of the optional payloads is present.
package unit

import (
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
)

type Unit struct {
	ID       geom.UnitID      `json:"id"`
	Team     geom.Team        `json:"team"`
	Type     Type             `json:"type"`
	Level    int              `json:"level"`
	Health   int              `json:"health"`
	Location geom.Location    `json:"location"`
	Stats    tuning.UnitStats `json:"stats"`
	Unlocked bool             `json:"unlocked,omitempty"`

	MovementHeat int `json:"movement_heat"`
	AttackHeat   int `json:"attack_heat"`
	AbilityHeat  int `json:"ability_heat"`

	Worker    *WorkerState    `json:"worker,omitempty"`
	Structure *StructureState `json:"structure,omitempty"`
}

type WorkerState struct {
	HasActed bool `json:"has_acted"`
}

type StructureState struct {
	Built      bool          `json:"built"`
	Garrison   []geom.UnitID `json:"garrison"`
	Used       bool          `json:"used,omitempty"`
	Production *Production   `json:"production,omitempty"`
}

type Production struct {
	Type       Type `json:"type"`
	RoundsLeft int  `json:"rounds_left"`
}

// New builds a finished unit of typ at the given research level.
func New(id geom.UnitID, team geom.Team, typ Type, loc geom.Location, level int, t *tuning.Tuning) Unit {
	base, _ := t.Units.ByName(typ.String())
	u := Unit{
		ID:       id,
		Team:     team,
		Type:     typ,
		Location: loc,
		Stats:    base,
	}
	switch {
	case typ == Worker:
		u.Worker = &WorkerState{}
	case typ.IsStructure():
		u.Structure = &StructureState{Built: true, Garrison: []geom.UnitID{}}
	}
	ladder := t.Research.ByName(typ.String())
	for i := 0; i < level && i < len(ladder); i++ {
		u.applyLevel(ladder[i])
	}
	u.Health = u.Stats.MaxHealth
	return u
}

// Clone deep-copies payloads so a filtered world never aliases the authoritative one.
func (u Unit) Clone() Unit {
	if u.Worker != nil {
		w := *u.Worker
		u.Worker = &w
	}
	if u.Structure != nil {
		s := *u.Structure
		s.Garrison = append([]geom.UnitID{}, u.Structure.Garrison...)
		if u.Structure.Production != nil {
			p := *u.Structure.Production
			s.Production = &p
		}
		u.Structure = &s
	}
	return u
}

func (u *Unit) MaxHealth() int { return u.Stats.MaxHealth }

func (u *Unit) MapLocation() (geom.MapLocation, bool) {
	if u.Location.Kind != geom.OnMap {
		return geom.MapLocation{}, false
	}
	return u.Location.Map, true
}

func (u *Unit) IsBuilt() bool {
	return u.Structure == nil || u.Structure.Built
}

func (u *Unit) IsMoveReady(limit int) bool {
	return u.Type.IsRobot() && u.MovementHeat < limit
}

func (u *Unit) IsAttackReady(limit int) bool {
	return u.AttackHeat < limit
}

func (u *Unit) IsAbilityReady(limit int) bool {
	return u.AbilityHeat < limit
}

func (u *Unit) UseMove()    { u.MovementHeat += u.Stats.MovementCooldown }
func (u *Unit) UseAttack()  { u.AttackHeat += u.Stats.AttackCooldown }
func (u *Unit) UseAbility() { u.AbilityHeat += u.Stats.AbilityCooldown }

// TakeDamage subtracts amount from health and reports whether the unit died.
func (u *Unit) TakeDamage(amount int) bool {
	u.Health -= amount
	return u.Health <= 0
}

// Heal raises health up to the current maximum.
func (u *Unit) Heal(amount int) {
	u.Health += amount
	if u.Health > u.Stats.MaxHealth {
		u.Health = u.Stats.MaxHealth
	}
}

// NextRound cools every heat counter and clears the worker's per-round action.
func (u *Unit) NextRound(heatLoss int) {
	u.MovementHeat = cool(u.MovementHeat, heatLoss)
	u.AttackHeat = cool(u.AttackHeat, heatLoss)
	u.AbilityHeat = cool(u.AbilityHeat, heatLoss)
	if u.Worker != nil {
		u.Worker.HasActed = false
	}
}

// TickProduction advances a factory's queued robot. It reports the finished type
// once the countdown reaches zero; the caller clears Production after placing it.
func (u *Unit) TickProduction() (Type, bool) {
	if u.Structure == nil || u.Structure.Production == nil {
		return 0, false
	}
	p := u.Structure.Production
	if p.RoundsLeft > 0 {
		p.RoundsLeft--
	}
	return p.Type, p.RoundsLeft == 0
}

// ResearchUp applies the next rung of the type's ladder. It is a no-op at the top.
func (u *Unit) ResearchUp(t *tuning.Tuning) {
	ladder := t.Research.ByName(u.Type.String())
	if u.Level >= len(ladder) {
		return
	}
	before := u.Stats.MaxHealth
	u.applyLevel(ladder[u.Level])
	if gain := u.Stats.MaxHealth - before; gain > 0 {
		u.Health += gain
	}
}

func (u *Unit) applyLevel(l tuning.ResearchLevel) {
	u.Level++
	u.Stats = addStats(u.Stats, l.Delta)
	if l.Unlock {
		u.Unlocked = true
	}
}

// Garrison helpers. Callers check Structure != nil first.

func (u *Unit) GarrisonFull() bool {
	return len(u.Structure.Garrison) >= u.Stats.Capacity
}

func (u *Unit) PushGarrison(id geom.UnitID) {
	u.Structure.Garrison = append(u.Structure.Garrison, id)
}

func (u *Unit) PopGarrison() (geom.UnitID, bool) {
	g := u.Structure.Garrison
	if len(g) == 0 {
		return 0, false
	}
	id := g[0]
	u.Structure.Garrison = append(g[:0:0], g[1:]...)
	return id, true
}

func (u *Unit) FrontOfGarrison() (geom.UnitID, bool) {
	if u.Structure == nil || len(u.Structure.Garrison) == 0 {
		return 0, false
	}
	return u.Structure.Garrison[0], true
}

func cool(heat, loss int) int {
	heat -= loss
	if heat < 0 {
		return 0
	}
	return heat
}

func addStats(a, d tuning.UnitStats) tuning.UnitStats {
	a.Cost += d.Cost
	a.ReplicateCost += d.ReplicateCost
	a.MaxHealth += d.MaxHealth
	a.VisionRange += d.VisionRange
	a.Damage += d.Damage
	a.AttackRange += d.AttackRange
	a.MinAttackRange += d.MinAttackRange
	a.MovementCooldown += d.MovementCooldown
	a.AttackCooldown += d.AttackCooldown
	a.AbilityCooldown += d.AbilityCooldown
	a.AbilityRange += d.AbilityRange
	a.Defense += d.Defense
	a.HarvestAmount += d.HarvestAmount
	a.BuildHealth += d.BuildHealth
	a.RepairHealth += d.RepairHealth
	a.HealAmount += d.HealAmount
	a.Capacity += d.Capacity
	a.TravelTimeDecrease += d.TravelTimeDecrease
	return a
}

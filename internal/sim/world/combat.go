package world

import (
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/world/logic/combat"
)

// statsAt recomputes a type's stats at a research level, for units the world
// only knows by info.
func (w *World) statsAt(typ unit.Type, level int) tuning.UnitStats {
	return unit.New(0, geom.Red, typ, geom.Space(), level, w.tuning).Stats
}

// strike deals an attack of the given strength to the unit on l, reduced by a
// knight's defense.
func (w *World) strike(l geom.MapLocation, attack int) {
	id, ok := w.occupant(l)
	if !ok {
		return
	}
	var typ unit.Type
	var defense int
	if u, mine := w.units[id]; mine {
		typ, defense = u.Type, u.Stats.Defense
	} else {
		info := w.infos[id]
		typ, defense = info.Type, w.statsAt(info.Type, info.Level).Defense
	}
	w.damageUnit(id, combat.Damage(attack, typ, defense))
}

// target resolves a sensed unit standing on the attacker's planet.
func (w *World) target(from geom.MapLocation, id geom.UnitID) (unit.Info, error) {
	info, ok := w.known(id)
	if !ok {
		return unit.Info{}, gameerr.New(gameerr.CodeNoSuchUnit, "unit %d", id)
	}
	if !info.Location.IsOnMap() || info.Location.Map.Planet != from.Planet {
		return unit.Info{}, gameerr.New(gameerr.CodeInvalidLocation, "unit %d is not on %s", id, from.Planet)
	}
	return info, nil
}

func (w *World) CanAttack(id, target geom.UnitID) bool {
	_, _, err := w.checkAttack(id, target)
	return err == nil
}

func (w *World) IsAttackReady(id geom.UnitID) bool {
	u, err := w.owned(id)
	return err == nil && u.IsAttackReady(w.tuning.Game.HeatLimit)
}

// Attack fires a knight, ranger or mage at a unit in range. A mage's shot
// splashes onto the squares around the target, friendly ones included.
func (w *World) Attack(id, target geom.UnitID) error {
	u, t, err := w.checkAttack(id, target)
	if err != nil {
		return err
	}
	u.UseAttack()
	at := t.Location.Map
	if u.Type != unit.Mage {
		w.strike(at, u.Stats.Damage)
		return nil
	}
	bounds := w.planetOf(at).Map.Bounds()
	for _, l := range combat.Splash(at, w.tuning.Game.MageSplashRadiusSq, bounds) {
		w.strike(l, u.Stats.Damage)
	}
	return nil
}

func (w *World) checkAttack(id, target geom.UnitID) (*unit.Unit, unit.Info, error) {
	u, l, err := w.ownedOnMap(id)
	if err != nil {
		return nil, unit.Info{}, err
	}
	if !u.Type.CanAttack() {
		return nil, unit.Info{}, gameerr.New(gameerr.CodeInappropriateUnit, "%s cannot attack", u.Type)
	}
	t, err := w.target(l, target)
	if err != nil {
		return nil, unit.Info{}, err
	}
	if !combat.InRange(l, t.Location.Map, u.Stats.MinAttackRange, u.Stats.AttackRange) {
		return nil, unit.Info{}, gameerr.New(gameerr.CodeInvalidAction, "unit %d out of range", target)
	}
	if !u.IsAttackReady(w.tuning.Game.HeatLimit) {
		return nil, unit.Info{}, gameerr.New(gameerr.CodeInvalidAction, "unit %d attack heat %d", id, u.AttackHeat)
	}
	return u, t, nil
}

// ability checks the shared preconditions of research-gated abilities.
func (w *World) ability(id geom.UnitID, typ unit.Type) (*unit.Unit, geom.MapLocation, error) {
	u, l, err := w.ownedOnMap(id)
	if err != nil {
		return nil, l, err
	}
	if u.Type != typ {
		return nil, l, gameerr.New(gameerr.CodeInappropriateUnit, "%s is not a %s", u.Type, typ)
	}
	if !u.Unlocked {
		return nil, l, gameerr.New(gameerr.CodeInvalidResearchLevel, "%s ability not researched", typ)
	}
	if !u.IsAbilityReady(w.tuning.Game.HeatLimit) {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "unit %d ability heat %d", id, u.AbilityHeat)
	}
	return u, l, nil
}

func (w *World) CanJavelin(id, target geom.UnitID) bool {
	_, _, err := w.checkJavelin(id, target)
	return err == nil
}

func (w *World) Javelin(id, target geom.UnitID) error {
	u, t, err := w.checkJavelin(id, target)
	if err != nil {
		return err
	}
	u.UseAbility()
	w.strike(t.Location.Map, u.Stats.Damage)
	return nil
}

func (w *World) checkJavelin(id, target geom.UnitID) (*unit.Unit, unit.Info, error) {
	u, l, err := w.ability(id, unit.Knight)
	if err != nil {
		return nil, unit.Info{}, err
	}
	t, err := w.target(l, target)
	if err != nil {
		return nil, unit.Info{}, err
	}
	if !l.IsWithinRange(u.Stats.AbilityRange, t.Location.Map) {
		return nil, unit.Info{}, gameerr.New(gameerr.CodeInvalidAction, "unit %d out of javelin range", target)
	}
	return u, t, nil
}

func (w *World) CanBlink(id geom.UnitID, dest geom.MapLocation) bool {
	_, err := w.checkBlink(id, dest)
	return err == nil
}

// Blink teleports a mage without using movement heat.
func (w *World) Blink(id geom.UnitID, dest geom.MapLocation) error {
	u, err := w.checkBlink(id, dest)
	if err != nil {
		return err
	}
	w.moveTo(u, geom.At(dest))
	u.UseAbility()
	return nil
}

func (w *World) checkBlink(id geom.UnitID, dest geom.MapLocation) (*unit.Unit, error) {
	u, l, err := w.ability(id, unit.Mage)
	if err != nil {
		return nil, err
	}
	if !l.IsWithinRange(u.Stats.AbilityRange, dest) {
		return nil, gameerr.New(gameerr.CodeInvalidLocation, "%s out of blink range", dest)
	}
	if !w.occupiable(dest) {
		return nil, gameerr.New(gameerr.CodeInvalidAction, "%s is not occupiable", dest)
	}
	return u, nil
}

func (w *World) CanHeal(id, target geom.UnitID) bool {
	_, _, err := w.checkHeal(id, target)
	return err == nil
}

// Heal restores health to a friendly robot in range. It uses attack heat.
func (w *World) Heal(id, target geom.UnitID) error {
	u, t, err := w.checkHeal(id, target)
	if err != nil {
		return err
	}
	u.UseAttack()
	t.Heal(u.Stats.HealAmount)
	return nil
}

func (w *World) checkHeal(id, target geom.UnitID) (*unit.Unit, *unit.Unit, error) {
	u, l, err := w.ownedOnMap(id)
	if err != nil {
		return nil, nil, err
	}
	if u.Type != unit.Healer {
		return nil, nil, gameerr.New(gameerr.CodeInappropriateUnit, "%s cannot heal", u.Type)
	}
	t, tl, err := w.friendlyRobot(target)
	if err != nil {
		return nil, nil, err
	}
	if !l.IsWithinRange(u.Stats.AttackRange, tl) {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "unit %d out of heal range", target)
	}
	if !u.IsAttackReady(w.tuning.Game.HeatLimit) {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "unit %d attack heat %d", id, u.AttackHeat)
	}
	return u, t, nil
}

func (w *World) CanOvercharge(id, target geom.UnitID) bool {
	_, _, err := w.checkOvercharge(id, target)
	return err == nil
}

// Overcharge clears every heat counter of a friendly robot in range.
func (w *World) Overcharge(id, target geom.UnitID) error {
	u, t, err := w.checkOvercharge(id, target)
	if err != nil {
		return err
	}
	u.UseAbility()
	t.MovementHeat, t.AttackHeat, t.AbilityHeat = 0, 0, 0
	return nil
}

func (w *World) checkOvercharge(id, target geom.UnitID) (*unit.Unit, *unit.Unit, error) {
	u, l, err := w.ability(id, unit.Healer)
	if err != nil {
		return nil, nil, err
	}
	if target == id {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "healer cannot overcharge itself")
	}
	t, tl, err := w.friendlyRobot(target)
	if err != nil {
		return nil, nil, err
	}
	if !l.IsWithinRange(u.Stats.AbilityRange, tl) {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "unit %d out of overcharge range", target)
	}
	return u, t, nil
}

func (w *World) friendlyRobot(id geom.UnitID) (*unit.Unit, geom.MapLocation, error) {
	t, tl, err := w.ownedOnMap(id)
	if err != nil {
		return nil, tl, err
	}
	if !t.Type.IsRobot() {
		return nil, tl, gameerr.New(gameerr.CodeInappropriateUnit, "%s is not a robot", t.Type)
	}
	return t, tl, nil
}

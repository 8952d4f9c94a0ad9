package tuning

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_tuning.yaml
var defaultYAML []byte

// Tuning holds every game constant the engine consults. The sim never reads
// package-level constants; a Tuning value is threaded through world construction.
type Tuning struct {
	Map      MapBounds     `yaml:"map"`
	Weather  WeatherBounds `yaml:"weather"`
	Game     GameRules     `yaml:"game"`
	Units    UnitTable     `yaml:"units"`
	Research ResearchTable `yaml:"research"`
}

type MapBounds struct {
	WidthMin        int `yaml:"width_min"`
	WidthMax        int `yaml:"width_max"`
	HeightMin       int `yaml:"height_min"`
	HeightMax       int `yaml:"height_max"`
	CoordinateMin   int `yaml:"coordinate_min"`
	CoordinateMax   int `yaml:"coordinate_max"`
	KarboniteMin    int `yaml:"karbonite_min"`
	KarboniteMax    int `yaml:"karbonite_max"`
	InitialUnitsMin int `yaml:"initial_units_min"`
	InitialUnitsMax int `yaml:"initial_units_max"`
}

type WeatherBounds struct {
	AsteroidRoundMin     int `yaml:"asteroid_round_min"`
	AsteroidRoundMax     int `yaml:"asteroid_round_max"`
	AsteroidKarboniteMin int `yaml:"asteroid_karbonite_min"`
	AsteroidKarboniteMax int `yaml:"asteroid_karbonite_max"`
	OrbitFlightMin       int `yaml:"orbit_flight_min"`
	OrbitFlightMax       int `yaml:"orbit_flight_max"`
}

type GameRules struct {
	RoundLimit              int `yaml:"round_limit"`
	StartingKarbonite       int `yaml:"starting_karbonite"`
	HeatLimit               int `yaml:"heat_limit"`
	HeatLossPerRound        int `yaml:"heat_loss_per_round"`
	RocketBlastDamage       int `yaml:"rocket_blast_damage"`
	FactoryProductionRounds int `yaml:"factory_production_rounds"`
	BlueprintHealthPercent  int `yaml:"blueprint_health_percent"`
	TeamArrayLength         int `yaml:"team_array_length"`
	TeamArrayDelay          int `yaml:"team_array_delay"`
	MageSplashRadiusSq      int `yaml:"mage_splash_radius_sq"`
}

// UnitStats are the base numbers for one unit type before research.
type UnitStats struct {
	Cost               int `yaml:"cost"`
	ReplicateCost      int `yaml:"replicate_cost"`
	MaxHealth          int `yaml:"max_health"`
	VisionRange        int `yaml:"vision_range"`
	Damage             int `yaml:"damage"`
	AttackRange        int `yaml:"attack_range"`
	MinAttackRange     int `yaml:"min_attack_range"`
	MovementCooldown   int `yaml:"movement_cooldown"`
	AttackCooldown     int `yaml:"attack_cooldown"`
	AbilityCooldown    int `yaml:"ability_cooldown"`
	AbilityRange       int `yaml:"ability_range"`
	Defense            int `yaml:"defense"`
	HarvestAmount      int `yaml:"harvest_amount"`
	BuildHealth        int `yaml:"build_health"`
	RepairHealth       int `yaml:"repair_health"`
	HealAmount         int `yaml:"heal_amount"`
	Capacity           int `yaml:"capacity"`
	TravelTimeDecrease int `yaml:"travel_time_decrease"`
}

type UnitTable struct {
	Worker  UnitStats `yaml:"worker"`
	Knight  UnitStats `yaml:"knight"`
	Ranger  UnitStats `yaml:"ranger"`
	Mage    UnitStats `yaml:"mage"`
	Healer  UnitStats `yaml:"healer"`
	Factory UnitStats `yaml:"factory"`
	Rocket  UnitStats `yaml:"rocket"`
}

// ByName looks up stats by the lower-case unit type name.
func (u *UnitTable) ByName(name string) (UnitStats, bool) {
	switch strings.ToLower(name) {
	case "worker":
		return u.Worker, true
	case "knight":
		return u.Knight, true
	case "ranger":
		return u.Ranger, true
	case "mage":
		return u.Mage, true
	case "healer":
		return u.Healer, true
	case "factory":
		return u.Factory, true
	case "rocket":
		return u.Rocket, true
	}
	return UnitStats{}, false
}

// ResearchLevel is one rung of a branch. Deltas are added to the unit's stats
// when the level completes. Unlock enables the branch's special ability.
type ResearchLevel struct {
	Rounds int       `yaml:"rounds"`
	Delta  UnitStats `yaml:"delta"`
	Unlock bool      `yaml:"unlock"`
}

type ResearchTable struct {
	Worker  []ResearchLevel `yaml:"worker"`
	Knight  []ResearchLevel `yaml:"knight"`
	Ranger  []ResearchLevel `yaml:"ranger"`
	Mage    []ResearchLevel `yaml:"mage"`
	Healer  []ResearchLevel `yaml:"healer"`
	Factory []ResearchLevel `yaml:"factory"`
	Rocket  []ResearchLevel `yaml:"rocket"`
}

func (r *ResearchTable) ByName(name string) []ResearchLevel {
	switch strings.ToLower(name) {
	case "worker":
		return r.Worker
	case "knight":
		return r.Knight
	case "ranger":
		return r.Ranger
	case "mage":
		return r.Mage
	case "healer":
		return r.Healer
	case "factory":
		return r.Factory
	case "rocket":
		return r.Rocket
	}
	return nil
}

// Defaults returns the embedded tuning. It panics if the embedded file is broken,
// which is a build defect rather than a runtime condition.
func Defaults() Tuning {
	var t Tuning
	if err := yaml.Unmarshal(defaultYAML, &t); err != nil {
		panic(fmt.Sprintf("default_tuning.yaml: %v", err))
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("default_tuning.yaml: %v", err))
	}
	return t
}

// Load overlays the YAML file at path onto the defaults. An empty path yields
// the defaults unchanged.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (Tuning, error) {
	t := Defaults()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) Normalize() {
	if t.Game.HeatLimit <= 0 {
		t.Game.HeatLimit = 10
	}
	if t.Game.HeatLossPerRound < 0 {
		t.Game.HeatLossPerRound = 0
	}
	if t.Game.BlueprintHealthPercent <= 0 || t.Game.BlueprintHealthPercent > 100 {
		t.Game.BlueprintHealthPercent = 25
	}
	if t.Game.TeamArrayDelay < 0 {
		t.Game.TeamArrayDelay = 0
	}
	if t.Map.CoordinateMin > t.Map.CoordinateMax {
		t.Map.CoordinateMin, t.Map.CoordinateMax = t.Map.CoordinateMax, t.Map.CoordinateMin
	}
}

func (t *Tuning) Validate() error {
	m := t.Map
	if m.WidthMin <= 0 || m.WidthMin > m.WidthMax {
		return fmt.Errorf("map width band [%d,%d] invalid", m.WidthMin, m.WidthMax)
	}
	if m.HeightMin <= 0 || m.HeightMin > m.HeightMax {
		return fmt.Errorf("map height band [%d,%d] invalid", m.HeightMin, m.HeightMax)
	}
	if m.KarboniteMin < 0 || m.KarboniteMin > m.KarboniteMax {
		return fmt.Errorf("map karbonite band [%d,%d] invalid", m.KarboniteMin, m.KarboniteMax)
	}
	if m.InitialUnitsMin < 0 || m.InitialUnitsMin > m.InitialUnitsMax {
		return fmt.Errorf("initial units band [%d,%d] invalid", m.InitialUnitsMin, m.InitialUnitsMax)
	}
	w := t.Weather
	if w.AsteroidRoundMin <= 0 || w.AsteroidRoundMin > w.AsteroidRoundMax {
		return fmt.Errorf("asteroid round band [%d,%d] invalid", w.AsteroidRoundMin, w.AsteroidRoundMax)
	}
	if w.AsteroidKarboniteMin <= 0 || w.AsteroidKarboniteMin > w.AsteroidKarboniteMax {
		return fmt.Errorf("asteroid karbonite band [%d,%d] invalid", w.AsteroidKarboniteMin, w.AsteroidKarboniteMax)
	}
	if w.OrbitFlightMin <= 0 || w.OrbitFlightMin > w.OrbitFlightMax {
		return fmt.Errorf("orbit flight band [%d,%d] invalid", w.OrbitFlightMin, w.OrbitFlightMax)
	}
	g := t.Game
	if g.RoundLimit <= 1 {
		return fmt.Errorf("round_limit must be > 1")
	}
	if g.StartingKarbonite < 0 {
		return fmt.Errorf("starting_karbonite must be >= 0")
	}
	if g.RocketBlastDamage < 0 {
		return fmt.Errorf("rocket_blast_damage must be >= 0")
	}
	if g.FactoryProductionRounds <= 0 {
		return fmt.Errorf("factory_production_rounds must be > 0")
	}
	if g.TeamArrayLength <= 0 {
		return fmt.Errorf("team_array_length must be > 0")
	}
	for _, name := range []string{"worker", "knight", "ranger", "mage", "healer", "factory", "rocket"} {
		s, _ := t.Units.ByName(name)
		if s.MaxHealth <= 0 {
			return fmt.Errorf("units.%s.max_health must be > 0", name)
		}
		if s.Cost < 0 {
			return fmt.Errorf("units.%s.cost must be >= 0", name)
		}
		for i, lvl := range t.Research.ByName(name) {
			if lvl.Rounds <= 0 {
				return fmt.Errorf("research.%s[%d].rounds must be > 0", name, i)
			}
		}
	}
	if t.Units.Factory.Capacity <= 0 || t.Units.Rocket.Capacity <= 0 {
		return fmt.Errorf("structure capacity must be > 0")
	}
	return nil
}

/*
Package game
File: state.go
Description:
    Loads the universe catalogs (ship templates, tier tables, minerals, plans,
    captains) from 'universe.yaml' and fills any table the file leaves out
    with the built-in defaults below.

    The loaded *Universe is read-only after loading. Hot reload swaps the
    whole pointer instead of mutating it in place.
*/

package game

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names the engine falls back to when a catalog does not say otherwise.
const (
	DefaultFallbackTemplate = "Viper-class Fighter"
	DefaultStarterTemplate  = "Sparrow-class Light Freighter"
	DefaultStartingHub      = "planet_prime"
)

// LoadUniverse reads a universe file from disk.
func LoadUniverse(path string) (*Universe, error) {
	// 1. Read the YAML file
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe %s: %w", path, err)
	}

	// 2. Unmarshal into the Universe struct
	return ParseUniverse(f)
}

// Default percentages. These are seeded before decoding so an explicit 0 in
// the file switches the mechanic off.
const (
	DefaultSurrenderPenalty = 25
	DefaultPlanDropChance   = 10
)

// ParseUniverse decodes a universe document and applies defaults.
func ParseUniverse(data []byte) (*Universe, error) {
	u := Universe{BalanceConfig: GameBalance{
		SurrenderPenalty: DefaultSurrenderPenalty,
		PlanDropChance:   DefaultPlanDropChance,
	}}
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	u.applyDefaults()
	if err := u.validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// DefaultUniverse returns the built-in catalog.
func DefaultUniverse() *Universe {
	u := &Universe{BalanceConfig: GameBalance{
		SurrenderPenalty: DefaultSurrenderPenalty,
		PlanDropChance:   DefaultPlanDropChance,
	}}
	u.applyDefaults()
	return u
}

func (u *Universe) applyDefaults() {
	b := &u.BalanceConfig
	if b.StartingCredits == 0 {
		b.StartingCredits = 5000
	}
	if b.StarterTemplate == "" {
		b.StarterTemplate = DefaultStarterTemplate
	}
	if b.FallbackTemplate == "" {
		b.FallbackTemplate = DefaultFallbackTemplate
	}
	if b.StartingHub == "" {
		b.StartingHub = DefaultStartingHub
	}
	if b.RepairCostPerHull == 0 {
		b.RepairCostPerHull = 10
	}
	if len(u.ShipTemplates) == 0 {
		u.ShipTemplates = defaultTemplates()
	}
	if len(u.TierShips) == 0 {
		u.TierShips = defaultTierShips()
	}
	if len(u.TierMultipliers) == 0 {
		u.TierMultipliers = map[int]float64{1: 1.0, 2: 1.15, 3: 1.3, 4: 1.45, 5: 1.6}
	}
	if len(u.Minerals) == 0 {
		u.Minerals = defaultMinerals()
	}
	if len(u.Plans) == 0 {
		u.Plans = defaultPlans()
	}
	if len(u.Captains) == 0 {
		u.Captains = defaultCaptains()
	}
}

// validate rejects catalogs that the engine cannot run with.
func (u *Universe) validate() error {
	b := u.BalanceConfig
	if b.SurrenderPenalty < 0 || b.SurrenderPenalty > 100 {
		return fmt.Errorf("universe: surrender_penalty_chance %d outside 0..100", b.SurrenderPenalty)
	}
	if b.PlanDropChance < 0 || b.PlanDropChance > 100 {
		return fmt.Errorf("universe: plan_drop_chance %d outside 0..100", b.PlanDropChance)
	}
	seen := make(map[string]bool, len(u.ShipTemplates))
	for _, t := range u.ShipTemplates {
		if t.Name == "" {
			return fmt.Errorf("universe: ship template without a name")
		}
		if seen[t.Name] {
			return fmt.Errorf("universe: duplicate ship template %q", t.Name)
		}
		seen[t.Name] = true
		if t.HullStrength <= 0 {
			return fmt.Errorf("universe: template %q needs a positive hull_strength", t.Name)
		}
	}
	for tier, pool := range u.TierShips {
		for _, ws := range pool {
			if ws.Weight < 0 {
				return fmt.Errorf("universe: tier %d weight for %q is negative", tier, ws.Template)
			}
		}
	}
	return nil
}

// GetTemplate retrieves a ShipTemplate by name. Returns nil if not found.
func (u *Universe) GetTemplate(name string) *ShipTemplate {
	for i := range u.ShipTemplates {
		if u.ShipTemplates[i].Name == name {
			return &u.ShipTemplates[i]
		}
	}
	return nil
}

// GetMineral retrieves a Mineral by key.
func (u *Universe) GetMineral(key string) *Mineral {
	for i := range u.Minerals {
		if u.Minerals[i].Key == key {
			return &u.Minerals[i]
		}
	}
	return nil
}

// GetPlan retrieves a Plan by key.
func (u *Universe) GetPlan(key string) *Plan {
	for i := range u.Plans {
		if u.Plans[i].Key == key {
			return &u.Plans[i]
		}
	}
	return nil
}

// GetCaptain retrieves a Captain by key.
func (u *Universe) GetCaptain(key string) *Captain {
	for i := range u.Captains {
		if u.Captains[i].Key == key {
			return &u.Captains[i]
		}
	}
	return nil
}

// FallbackTemplate resolves the template used when nothing else does.
// A catalog that lacks even the configured fallback gets the built-in Viper.
func (u *Universe) FallbackTemplate() ShipTemplate {
	if t := u.GetTemplate(u.BalanceConfig.FallbackTemplate); t != nil {
		return *t
	}
	for _, t := range defaultTemplates() {
		if t.Name == DefaultFallbackTemplate {
			return t
		}
	}
	return ShipTemplate{Name: DefaultFallbackTemplate, Class: "fighter", HullStrength: 100, CargoCapacity: 20, Speed: 180}
}

func defaultTemplates() []ShipTemplate {
	return []ShipTemplate{
		{Name: "Sparrow-class Light Freighter", Class: "starter", Price: 10000, HullStrength: 80, CargoCapacity: 50, Speed: 100,
			Attributes: ShipAttributes{MaxFuel: 100, StartingWeapons: 15, StartingSensors: 1, StartingWarpDrive: 1}},
		{Name: "Viper-class Fighter", Class: "fighter", Price: 45000, HullStrength: 100, CargoCapacity: 20, Speed: 180,
			Attributes: ShipAttributes{MaxFuel: 80, StartingWeapons: 40, StartingSensors: 1, StartingWarpDrive: 1}},
		{Name: "Interdictor-class Corvette", Class: "corvette", Price: 80000, HullStrength: 150, CargoCapacity: 30, Speed: 150,
			Attributes: ShipAttributes{MaxFuel: 120, StartingWeapons: 50, StartingSensors: 2, StartingWarpDrive: 2}},
		{Name: "Phantom-class Scout", Class: "scout", Price: 60000, HullStrength: 70, CargoCapacity: 15, Speed: 220,
			Attributes: ShipAttributes{MaxFuel: 150, StartingWeapons: 25, StartingSensors: 3, StartingWarpDrive: 3}},
		{Name: "Corsair-class Gunship", Class: "gunship", Price: 140000, HullStrength: 220, CargoCapacity: 40, Speed: 120,
			Attributes: ShipAttributes{MaxFuel: 140, StartingWeapons: 70, StartingSensors: 2, StartingWarpDrive: 2}},
		{Name: "Leviathan-class Battleship", Class: "battleship", Price: 300000, HullStrength: 400, CargoCapacity: 60, Speed: 80,
			Attributes: ShipAttributes{MaxFuel: 200, StartingWeapons: 110, StartingSensors: 3, StartingWarpDrive: 2}},
		{Name: "Leviathan-class Dreadnought", Class: "dreadnought", Price: 250000, HullStrength: 350, CargoCapacity: 80, Speed: 70,
			Attributes: ShipAttributes{MaxFuel: 180, StartingWeapons: 100, StartingSensors: 3, StartingWarpDrive: 1}},
	}
}

func defaultTierShips() map[int][]WeightedShip {
	return map[int][]WeightedShip{
		1: {{"Sparrow-class Light Freighter", 40}, {"Viper-class Fighter", 40}, {"Interdictor-class Corvette", 20}},
		2: {{"Viper-class Fighter", 50}, {"Interdictor-class Corvette", 30}, {"Phantom-class Scout", 20}},
		3: {{"Interdictor-class Corvette", 40}, {"Corsair-class Gunship", 30}, {"Viper-class Fighter", 30}},
		4: {{"Corsair-class Gunship", 50}, {"Interdictor-class Corvette", 30}, {"Leviathan-class Battleship", 20}},
		5: {{"Corsair-class Gunship", 40}, {"Leviathan-class Battleship", 40}, {"Interdictor-class Corvette", 20}},
	}
}

func defaultMinerals() []Mineral {
	return []Mineral{
		{"water_ice", "Water Ice", "H2O", 10},
		{"carbon", "Carbon", "C", 8},
		{"iron_ore", "Iron Ore", "Fe", 25},
		{"silicates", "Silicates", "SiO2", 30},
		{"nickel", "Nickel", "Ni", 35},
		{"titanium", "Titanium", "Ti", 75},
		{"copper", "Copper", "Cu", 60},
		{"aluminum", "Aluminum", "Al", 55},
		{"lithium", "Lithium", "Li", 80},
		{"platinum", "Platinum", "Pt", 200},
		{"gold", "Gold", "Au", 250},
		{"palladium", "Palladium", "Pd", 220},
		{"cobalt", "Cobalt", "Co", 180},
		{"rhodium", "Rhodium", "Rh", 500},
		{"iridium", "Iridium", "Ir", 450},
	}
}

func defaultPlans() []Plan {
	var plans []Plan
	tiers := []struct {
		label  string
		levels int
		price  int
	}{{"Basic", 10, 5000}, {"Advanced", 20, 15000}, {"Experimental", 30, 40000}}
	components := []struct{ key, label string }{
		{"max_fuel", "Fuel Tank"}, {"max_hull", "Hull Plating"}, {"weapons", "Weapons"},
	}
	for _, c := range components {
		for _, t := range tiers {
			plans = append(plans, Plan{
				Key:              fmt.Sprintf("plan_%s_%s", c.key, strings.ToLower(t.label)),
				Name:             fmt.Sprintf("%s %s Plans", t.label, c.label),
				Component:        c.key,
				AdditionalLevels: t.levels,
				Price:            t.price,
			})
		}
	}
	return plans
}

func defaultCaptains() []Captain {
	return []Captain{
		{"vex_blackthorne", "Vex", "Blackthorne", "Captain", "Crimson Syndicate", 55},
		{"kira_steelclaw", "Kira", "Steelclaw", "Commander", "Void Reavers", 62},
		{"drax_ironfist", "Drax", "Ironfist", "Warlord", "Iron Armada", 78},
		{"zara_darkwater", "Zara", "Darkwater", "Commodore", "Black Tide", 70},
		{"thane_shadowbane", "Thane", "Shadowbane", "Dread Lord", "Shadow Fleet", 90},
		{"nyx_ashveil", "Nyx", "Ashveil", "Marauder", "Ghost Cartel", 45},
	}
}

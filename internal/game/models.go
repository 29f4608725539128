/*
Package game
File: models.go
Description:
    Defines all data structures (Structs) used by the pirate encounter engine.
    This file serves as the "schema" for the application, mapping directly to
    the 'universe.yaml' catalogs, the JSON API responses and the store rows.

    Behavior on these types is kept to small state helpers (damage, cargo
    stacking, plan ownership). The resolvers live in internal/encounter.
*/

package game

import "time"

// Status values shared by hostile Combatants and the player's ship.
const (
	StatusActive    = "active"
	StatusDestroyed = "destroyed"
)

// GameBalance stores global tuning variables loaded from 'universe.yaml'.
type GameBalance struct {
	StartingCredits   int    `yaml:"starting_credits" json:"starting_credits"`          // Credits given to a new player
	StarterTemplate   string `yaml:"starter_template" json:"starter_template"`          // Ship template a new player spawns with
	FallbackTemplate  string `yaml:"fallback_template" json:"fallback_template"`        // Template used when a tier pool resolves nothing
	StartingHub       string `yaml:"starting_hub" json:"starting_hub"`                  // Trading hub a new player (and a respawn) starts at
	SurrenderPenalty  int    `yaml:"surrender_penalty_chance" json:"surrender_penalty"` // Percent chance pirates strip plans and components
	PlanDropChance    int    `yaml:"plan_drop_chance" json:"plan_drop_chance"`          // Percent chance a hostile carries one plan
	RepairCostPerHull int    `yaml:"repair_cost_per_hull" json:"repair_cost_per_hull"`  // Credits per hull point restored
}

// ShipAttributes are the template "starting" stats. They double as the floor
// a surrender downgrade can never go below.
type ShipAttributes struct {
	MaxFuel           int `yaml:"max_fuel" json:"max_fuel"`
	StartingWeapons   int `yaml:"starting_weapons" json:"starting_weapons"`
	StartingSensors   int `yaml:"starting_sensors" json:"starting_sensors"`
	StartingWarpDrive int `yaml:"starting_warp_drive" json:"starting_warp_drive"`
}

// ShipTemplate is an immutable blueprint from the ship catalog.
type ShipTemplate struct {
	Name          string         `yaml:"name" json:"name"`                     // Unique ID and display name (e.g., "Viper-class Fighter")
	Class         string         `yaml:"class" json:"class"`                   // "starter", "fighter", "gunship"...
	Price         int            `yaml:"price" json:"price"`                   // Shipyard price, used for loss estimates
	HullStrength  int            `yaml:"hull_strength" json:"hull_strength"`   // Base hull before tier scaling
	CargoCapacity int            `yaml:"cargo_capacity" json:"cargo_capacity"` // Units of cargo
	Speed         int            `yaml:"speed" json:"speed"`                   // Sub-light speed, compared on escape
	Attributes    ShipAttributes `yaml:"attributes" json:"attributes"`
}

// BaseWeapons returns the template's starting weapons, defaulting to 10.
func (t ShipTemplate) BaseWeapons() int {
	if t.Attributes.StartingWeapons <= 0 {
		return 10
	}
	return t.Attributes.StartingWeapons
}

// BaseSensors returns the template's starting sensors, defaulting to 1.
func (t ShipTemplate) BaseSensors() int {
	if t.Attributes.StartingSensors <= 0 {
		return 1
	}
	return t.Attributes.StartingSensors
}

// BaseWarpDrive returns the template's starting warp drive, defaulting to 1.
func (t ShipTemplate) BaseWarpDrive() int {
	if t.Attributes.StartingWarpDrive <= 0 {
		return 1
	}
	return t.Attributes.StartingWarpDrive
}

// WeightedShip is one entry in a tier's ship preference table.
type WeightedShip struct {
	Template string `yaml:"template" json:"template"`
	Weight   int    `yaml:"weight" json:"weight"`
}

// Mineral represents a raw resource that can sit in a cargo hold.
type Mineral struct {
	Key       string `yaml:"key" json:"key"`               // Unique ID (e.g., "iron_ore")
	Name      string `yaml:"name" json:"name"`             // Display Name
	Symbol    string `yaml:"symbol" json:"symbol"`         // Chemical symbol (e.g., "Fe")
	BaseValue int    `yaml:"base_value" json:"base_value"` // Credits per unit before market effects
}

// Plan is an upgrade blueprint. Owning one raises a component's upgrade ceiling.
type Plan struct {
	Key              string `yaml:"key" json:"key"`                             // Unique ID (e.g., "plan_weapons_basic")
	Name             string `yaml:"name" json:"name"`                           // Display Name
	Component        string `yaml:"component" json:"component"`                 // "weapons", "max_hull", "max_fuel"...
	AdditionalLevels int    `yaml:"additional_levels" json:"additional_levels"` // Extra upgrade levels granted
	Price            int    `yaml:"price" json:"price"`
}

// Captain is a pirate leader that fronts an encounter.
type Captain struct {
	Key         string `yaml:"key" json:"key"`
	FirstName   string `yaml:"first_name" json:"first_name"`
	LastName    string `yaml:"last_name" json:"last_name"`
	Title       string `yaml:"title" json:"title"`               // "Captain", "Warlord", "Dread Lord"...
	Faction     string `yaml:"faction" json:"faction"`           // Faction display name
	CombatSkill int    `yaml:"combat_skill" json:"combat_skill"` // 40-90
}

// FullName is the captain's display name with title.
func (c Captain) FullName() string {
	return c.Title + " " + c.FirstName + " " + c.LastName
}

// Universe is the root configuration struct, mapping to the entire 'universe.yaml' file.
type Universe struct {
	BalanceConfig   GameBalance            `yaml:"game_balance"`
	ShipTemplates   []ShipTemplate         `yaml:"ship_templates"`
	TierShips       map[int][]WeightedShip `yaml:"tier_ships"`       // Tier -> weighted template names
	TierMultipliers map[int]float64        `yaml:"tier_multipliers"` // Tier -> hull/weapons multiplier
	Minerals        []Mineral              `yaml:"minerals"`
	Plans           []Plan                 `yaml:"plans"`
	Captains        []Captain              `yaml:"captains"`
}

// CargoItem holds either a mineral stack or a single plan, never both.
type CargoItem struct {
	MineralKey string `json:"mineral_key,omitempty"`
	PlanKey    string `json:"plan_key,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Combatant is a hostile ship instance spawned for one encounter.
type Combatant struct {
	UUID          string      `json:"uuid"`
	CaptainKey    string      `json:"captain_key"`
	TemplateName  string      `json:"template"`
	Class         string      `json:"class"`
	Name          string      `json:"name"` // "The Crimson Fang"
	Hull          int         `json:"hull"`
	MaxHull       int         `json:"max_hull"`
	Weapons       int         `json:"weapons"`
	Speed         int         `json:"speed"`
	WarpDrive     int         `json:"warp_drive"`
	CargoCapacity int         `json:"cargo_capacity"`
	Status        string      `json:"status"` // "active" until hull hits 0, then "destroyed"
	Cargo         []CargoItem `json:"cargo"`
}

// PlayerShip is the player's active vessel. It persists across encounters.
type PlayerShip struct {
	ID           int64  `json:"id"`
	TemplateName string `json:"template"`
	Class        string `json:"class"`
	Name         string `json:"name"`
	Status       string `json:"status"`

	// Combat Stats
	Hull      int `json:"hull"`
	MaxHull   int `json:"max_hull"`
	Weapons   int `json:"weapons"`
	Sensors   int `json:"sensors"`
	WarpDrive int `json:"warp_drive"`
	Speed     int `json:"speed"`

	// Capacity Stats
	CargoHold    int         `json:"cargo_hold"`    // Max units of cargo allowed
	CurrentCargo int         `json:"current_cargo"` // Units currently aboard
	Cargo        []CargoItem `json:"cargo"`         // Mineral stacks, one per mineral
}

// OwnedPlan records a plan in the player's possession.
type OwnedPlan struct {
	Key        string    `json:"key"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Player is the aggregate the encounter engine reads and writes.
type Player struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Credits    int         `json:"credits"`
	Experience int         `json:"experience"`
	Level      int         `json:"level"`
	LastHub    string      `json:"last_hub"` // Last trading hub visited; respawn point
	Plans      []OwnedPlan `json:"plans"`
	Ship       *PlayerShip `json:"ship"`
}

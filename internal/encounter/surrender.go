/*
Package encounter
File: surrender.go
Description:
    Consequences of yielding to pirates without a fight.

    1. The hold is always emptied.
    2. With the configured penalty chance, every owned plan is taken and
       1-2 ship components are stripped by 1-3 points each, never below the
       ship template's starting value.
*/

package encounter

import (
	"fmt"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

// Components pirates can strip.
const (
	ComponentWeapons   = "weapons"
	ComponentSensors   = "sensors"
	ComponentWarpDrive = "warp_drive"
	ComponentMaxHull   = "max_hull"
)

var strippable = []string{ComponentWeapons, ComponentSensors, ComponentWarpDrive, ComponentMaxHull}

// ComponentChange records one downgrade. Delta is 0 when the component was
// already at its floor.
type ComponentChange struct {
	Component string `json:"component"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	Delta     int    `json:"delta"`
}

// SurrenderResult describes what the pirates took.
type SurrenderResult struct {
	Captain        string            `json:"captain"`
	CargoItemsLost int               `json:"cargo_items_lost"`
	CargoLost      []game.CargoItem  `json:"cargo_lost"`
	PenaltyApplied bool              `json:"penalty_applied"`
	PlansStolen    int               `json:"plans_stolen"`
	Downgrades     []ComponentChange `json:"downgrades"`
	Events         EventLog          `json:"events"`
}

// VisibleDowngrades drops changes that did not move the stat.
func (r SurrenderResult) VisibleDowngrades() []ComponentChange {
	var out []ComponentChange
	for _, d := range r.Downgrades {
		if d.Delta > 0 {
			out = append(out, d)
		}
	}
	return out
}

// ProcessSurrender strips the player per the rules above. tpl supplies the
// floors; a nil tpl means the current values are the floors.
func ProcessSurrender(src rng.Source, player *game.Player, tpl *game.ShipTemplate, captain string, penaltyChance int) SurrenderResult {
	ship := player.Ship
	res := SurrenderResult{Captain: captain}

	// 1. Empty the hold
	res.CargoLost = append(res.CargoLost, ship.Cargo...)
	res.CargoItemsLost = ship.ClearCargo()

	// 2. Roll for the boarding party
	if rng.Chance(src, penaltyChance) {
		res.PenaltyApplied = true
		res.PlansStolen = player.RevokePlans()

		floors := floorsFor(ship, tpl)
		count := rng.Between(src, 1, 2)
		picked := sampleIndexes(src, len(strippable), count)
		for _, idx := range picked {
			component := strippable[idx]
			change, err := DowngradeComponent(ship, floors, component, rng.Between(src, 1, 3))
			if err != nil {
				// strippable only lists known components
				continue
			}
			res.Downgrades = append(res.Downgrades, change)
		}
	}

	res.Events = surrenderLog(res)
	return res
}

// Floors are the minimum values a downgrade may reach.
type Floors struct {
	Weapons   int
	Sensors   int
	WarpDrive int
	MaxHull   int
}

func floorsFor(ship *game.PlayerShip, tpl *game.ShipTemplate) Floors {
	if tpl == nil {
		return Floors{Weapons: ship.Weapons, Sensors: ship.Sensors, WarpDrive: ship.WarpDrive, MaxHull: ship.MaxHull}
	}
	return Floors{
		Weapons:   tpl.BaseWeapons(),
		Sensors:   tpl.BaseSensors(),
		WarpDrive: tpl.BaseWarpDrive(),
		MaxHull:   tpl.HullStrength,
	}
}

// TemplateFloors exposes a template's downgrade floors.
func TemplateFloors(tpl game.ShipTemplate) Floors {
	return floorsFor(nil, &tpl)
}

// DowngradeComponent lowers one component by up to amount, stopping at its
// floor. An unknown component name is an error and leaves the ship untouched.
func DowngradeComponent(ship *game.PlayerShip, floors Floors, component string, amount int) (ComponentChange, error) {
	var field *int
	var floor int
	switch component {
	case ComponentWeapons:
		field, floor = &ship.Weapons, floors.Weapons
	case ComponentSensors:
		field, floor = &ship.Sensors, floors.Sensors
	case ComponentWarpDrive:
		field, floor = &ship.WarpDrive, floors.WarpDrive
	case ComponentMaxHull:
		field, floor = &ship.MaxHull, floors.MaxHull
	default:
		return ComponentChange{}, fmt.Errorf("unknown component %q", component)
	}
	if amount < 0 {
		return ComponentChange{}, fmt.Errorf("negative downgrade amount %d", amount)
	}

	before := *field
	after := max(before-amount, floor)
	if after > before {
		// Already below the floor (e.g. a template rebalanced upward); leave it.
		after = before
	}
	*field = after
	delta := before - after

	if component == ComponentMaxHull && delta > 0 {
		ship.Hull = max(ship.Hull-delta, 1)
		ship.Hull = min(ship.Hull, ship.MaxHull)
	}
	return ComponentChange{Component: component, Before: before, After: after, Delta: delta}, nil
}

func surrenderLog(r SurrenderResult) EventLog {
	var log EventLog
	log.add(0, EventHeader, "You surrender to %s.", r.Captain)
	log.add(0, EventInfo, "Your cargo bay is emptied (%d items jettisoned).", r.CargoItemsLost)
	if !r.PenaltyApplied {
		log.add(0, EventInfo, "The pirates let you go with a warning...this time.")
		return log
	}
	log.add(0, EventInfo, "The pirates board your ship and strip valuable components!")
	if r.PlansStolen > 0 {
		log.add(0, EventInfo, "  - %d upgrade plans stolen", r.PlansStolen)
	}
	for _, d := range r.VisibleDowngrades() {
		log.add(0, EventInfo, "  - %s: %d → %d (-%d)", componentLabel(d.Component), d.Before, d.After, d.Delta)
	}
	return log
}

func componentLabel(c string) string {
	switch c {
	case ComponentWeapons:
		return "Weapons"
	case ComponentSensors:
		return "Sensors"
	case ComponentWarpDrive:
		return "Warp Drive"
	case ComponentMaxHull:
		return "Max Hull"
	}
	return c
}

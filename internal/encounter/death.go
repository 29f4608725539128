/*
Package encounter
File: death.go
Description:
    What happens when the player's ship is destroyed in combat.

    Losses are tallied (cargo, plans, hull value), the wreck's cargo and the
    player's plans are gone, and a fresh starter ship waits at the last
    trading hub. Credits and experience are kept.
*/

package encounter

import (
	"fmt"
	"log"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

// DeathReport is the payload attached to a Defeat outcome.
type DeathReport struct {
	ShipName            string `json:"ship_name"`
	ShipClass           string `json:"ship_class"`
	CargoItemsLost      int    `json:"cargo_items_lost"`
	EstimatedCargoValue int    `json:"estimated_cargo_value"`
	PlansLost           int    `json:"upgrade_plans_lost"`
	ShipValue           int    `json:"ship_value"`
	CreditsRetained     int    `json:"credits_retained"`
	ExperienceRetained  int    `json:"experience_retained"`
	RespawnHub          string `json:"respawn_hub"`
	NewShip             string `json:"new_ship"`
	Message             string `json:"message"`
}

// ProcessDeath records the losses and replaces the destroyed ship with the
// catalog's starter ship.
func ProcessDeath(u *game.Universe, player *game.Player) DeathReport {
	ship := player.Ship

	// 1. Tally what is about to be lost
	r := DeathReport{
		ShipName:            ship.Name,
		ShipClass:           ship.Class,
		CargoItemsLost:      len(ship.Cargo),
		EstimatedCargoValue: u.CargoValue(ship.Cargo),
		PlansLost:           len(player.Plans),
		ShipValue:           u.ShipValue(ship),
		CreditsRetained:     player.Credits,
		ExperienceRetained:  player.Experience,
	}

	// 2. Strip the wreck
	ship.ClearCargo()
	ship.Hull = 0
	ship.Status = game.StatusDestroyed
	player.RevokePlans()

	// 3. Respawn
	hub := player.LastHub
	if hub == "" {
		hub = u.BalanceConfig.StartingHub
	}
	r.RespawnHub = hub

	tpl := u.GetTemplate(u.BalanceConfig.StarterTemplate)
	if tpl == nil {
		log.Printf("ENCOUNTER: starter template %q missing, respawning in fallback", u.BalanceConfig.StarterTemplate)
		fb := u.FallbackTemplate()
		tpl = &fb
	}
	fresh := game.NewShipFromTemplate(*tpl, ship.Name)
	fresh.ID = ship.ID
	player.Ship = fresh
	player.LastHub = hub
	r.NewShip = tpl.Name

	r.Message = fmt.Sprintf("Your ship %s was destroyed. You lost %d cargo items worth ~%d credits and %d upgrade plans. "+
		"You wake up at %s aboard a %s. Your %d credits and %d XP are intact.",
		r.ShipName, r.CargoItemsLost, r.EstimatedCargoValue, r.PlansLost, hub, r.NewShip, r.CreditsRetained, r.ExperienceRetained)
	return r
}

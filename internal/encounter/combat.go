/*
Package encounter
File: combat.go
Description:
    Turn-based combat between the player's ship and a hostile fleet.

    Each round:
    1. The player fires on the weakest living hostile.
    2. Every hostile that was alive when the phase began fires back, in
       fleet order, until the player's hull is gone.
    The loop ends on Victory (fleet wiped), Defeat (hull 0) or Draw
    (MaxRounds played with both sides still flying).
*/

package encounter

import (
	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

// MaxRounds is the safety ceiling on a single fight.
const MaxRounds = 100

// CombatState is the terminal state of a fight.
type CombatState string

const (
	StateVictory CombatState = "victory"
	StateDefeat  CombatState = "defeat"
	StateDraw    CombatState = "draw"
)

// CombatResult is what the resolver hands back. The player's ship and the
// fleet passed in have already been updated in place.
type CombatResult struct {
	State         CombatState `json:"state"`
	Victory       bool        `json:"victory"`
	HullRemaining int         `json:"hull_remaining"`
	Rounds        int         `json:"rounds"`
	Destroyed     int         `json:"destroyed"` // Hostiles destroyed this fight
	Events        EventLog    `json:"events"`
}

// RollDamage draws uniformly from the weapon's damage band.
func RollDamage(src rng.Source, power int) int {
	lo, hi := game.DamageBand(power)
	return rng.Between(src, lo, hi)
}

// ResolveCombat runs the round loop to a terminal state.
func ResolveCombat(src rng.Source, ship *game.PlayerShip, fleet []game.Combatant) CombatResult {
	var log EventLog

	// 1. Header block
	log.add(0, EventHeader, "COMBAT INITIATED")
	log.add(0, EventInfo, "Your Ship: %s (Hull: %d/%d)", ship.Name, ship.Hull, ship.MaxHull)
	for _, h := range fleet {
		log.add(0, EventInfo, "Enemy: %s (Hull: %d/%d, Weapons: %d)", h.Name, h.Hull, h.MaxHull, h.Weapons)
	}
	log.divider(0)

	// 2. Round loop
	rounds, destroyed := 0, 0
	draw := false
	for ship.Hull > 0 && anyAlive(fleet) {
		if rounds == MaxRounds {
			draw = true
			log.add(rounds, EventError, "Combat timeout - draw!")
			break
		}
		rounds++
		log.add(rounds, EventRound, "ROUND %d", rounds)

		// Player phase
		target := weakest(fleet)
		dmg := RollDamage(src, ship.Weapons)
		killed := target.TakeDamage(dmg)
		log.add(rounds, EventPlayerAttack, "You fire on %s for %d damage! (Hull: %d/%d)", target.Name, dmg, target.Hull, target.MaxHull)
		if killed {
			destroyed++
			log.add(rounds, EventEnemyDestroyed, "%s DESTROYED!", target.Name)
		}

		// Hostile phase
		for i := range fleet {
			h := &fleet[i]
			if !h.Alive() {
				continue
			}
			dmg := RollDamage(src, h.Weapons)
			dead := ship.TakeDamage(dmg)
			log.add(rounds, EventEnemyAttack, "%s fires for %d damage! (Your Hull: %d/%d)", h.Name, dmg, ship.Hull, ship.MaxHull)
			if dead {
				log.add(rounds, EventPlayerDestroyed, "YOUR SHIP HAS BEEN DESTROYED!")
				break
			}
		}
	}

	// 3. Summary
	state := StateDefeat
	switch {
	case draw:
		state = StateDraw
	case ship.Hull > 0:
		state = StateVictory
	}
	log.divider(rounds)
	switch state {
	case StateVictory:
		log.add(rounds, EventVictory, "VICTORY! All enemy ships destroyed!")
		log.add(rounds, EventInfo, "Your remaining hull: %d/%d", ship.Hull, ship.MaxHull)
	case StateDefeat:
		log.add(rounds, EventDefeat, "DEFEAT - Your ship has been destroyed...")
	case StateDraw:
		log.add(rounds, EventInfo, "The pirates break off the engagement. Your remaining hull: %d/%d", ship.Hull, ship.MaxHull)
	}

	return CombatResult{
		State:         state,
		Victory:       state == StateVictory,
		HullRemaining: ship.Hull,
		Rounds:        rounds,
		Destroyed:     destroyed,
		Events:        log,
	}
}

func anyAlive(fleet []game.Combatant) bool {
	for i := range fleet {
		if fleet[i].Alive() {
			return true
		}
	}
	return false
}

// weakest returns the living hostile with the lowest hull. Ties go to the
// earliest in fleet order.
func weakest(fleet []game.Combatant) *game.Combatant {
	var target *game.Combatant
	for i := range fleet {
		h := &fleet[i]
		if !h.Alive() {
			continue
		}
		if target == nil || h.Hull < target.Hull {
			target = h
		}
	}
	return target
}

// CombatPreview is the pre-fight difficulty estimate.
type CombatPreview struct {
	Difficulty   string `json:"difficulty"`
	WinChance    int    `json:"win_chance"`
	YourWeapons  int    `json:"your_weapons"`
	EnemyWeapons int    `json:"enemy_weapons"` // Summed across the fleet
	EnemyCount   int    `json:"enemy_count"`
	YourRating   int    `json:"your_rating"`
	EnemyRating  int    `json:"enemy_rating"` // Summed across the fleet
}

// Preview buckets the weapons advantage into five difficulty tiers.
func Preview(ship *game.PlayerShip, fleet []game.Combatant) CombatPreview {
	p := CombatPreview{
		YourWeapons: ship.Weapons,
		EnemyCount:  len(fleet),
		YourRating:  game.CombatRating(ship.Hull, ship.Weapons),
	}
	total := 0
	for _, h := range fleet {
		total += h.Weapons
		p.EnemyRating += game.CombatRating(h.Hull, h.Weapons)
	}
	p.EnemyWeapons = total
	avg := 0.0
	if len(fleet) > 0 {
		avg = float64(total) / float64(len(fleet))
	}

	advantage := float64(ship.Weapons) - avg
	switch {
	case advantage > 20:
		p.Difficulty, p.WinChance = "Easy", 90
	case advantage > 0:
		p.Difficulty, p.WinChance = "Moderate", 70
	case advantage > -20:
		p.Difficulty, p.WinChance = "Challenging", 50
	case advantage > -40:
		p.Difficulty, p.WinChance = "Dangerous", 30
	default:
		p.Difficulty, p.WinChance = "Deadly", 10
	}
	return p
}

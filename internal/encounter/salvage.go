/*
Package encounter
File: salvage.go
Description:
    Loot from destroyed hostiles.

    CollectSalvage pulls cargo off the wrecks, OrganizeSalvage groups it for
    display, and TransferSalvage moves the player's picks into their hold
    without ever overfilling it.
*/

package encounter

import (
	"fmt"
	"strings"
	"time"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

// CollectSalvage concatenates the cargo of every destroyed ship. Ships still
// flying contribute nothing.
func CollectSalvage(fleet []game.Combatant) []game.CargoItem {
	var items []game.CargoItem
	for _, c := range fleet {
		if c.Alive() {
			continue
		}
		items = append(items, c.Cargo...)
	}
	return items
}

// MineralSalvage is one grouped mineral line.
type MineralSalvage struct {
	MineralKey string `json:"mineral_key" msgpack:"mineral_key"`
	Name       string `json:"name" msgpack:"name"`
	Symbol     string `json:"symbol" msgpack:"symbol"`
	Quantity   int    `json:"quantity" msgpack:"quantity"`
	Value      int    `json:"value" msgpack:"value"` // Quantity * base value
}

// PlanSalvage is one plan found in the wreckage.
type PlanSalvage struct {
	PlanKey   string `json:"plan_key" msgpack:"plan_key"`
	Name      string `json:"name" msgpack:"name"`
	Component string `json:"component" msgpack:"component"`
}

// SalvageSummary is the loot offered to the player.
type SalvageSummary struct {
	Minerals []MineralSalvage `json:"minerals" msgpack:"minerals"`
	Plans    []PlanSalvage    `json:"plans" msgpack:"plans"`
}

// Empty reports whether there is nothing to take.
func (s *SalvageSummary) Empty() bool {
	return s == nil || (len(s.Minerals) == 0 && len(s.Plans) == 0)
}

// OrganizeSalvage groups minerals by key (first-seen order) and passes plans
// through one entry per item.
func OrganizeSalvage(u *game.Universe, items []game.CargoItem) SalvageSummary {
	var s SalvageSummary
	index := make(map[string]int)
	for _, it := range items {
		if it.IsPlan() {
			ps := PlanSalvage{PlanKey: it.PlanKey, Name: it.PlanKey}
			if p := u.GetPlan(it.PlanKey); p != nil {
				ps.Name, ps.Component = p.Name, p.Component
			}
			s.Plans = append(s.Plans, ps)
			continue
		}
		i, ok := index[it.MineralKey]
		if !ok {
			ms := MineralSalvage{MineralKey: it.MineralKey, Name: it.MineralKey}
			if m := u.GetMineral(it.MineralKey); m != nil {
				ms.Name, ms.Symbol = m.Name, m.Symbol
			}
			s.Minerals = append(s.Minerals, ms)
			i = len(s.Minerals) - 1
			index[it.MineralKey] = i
		}
		s.Minerals[i].Quantity += it.Quantity
		if m := u.GetMineral(it.MineralKey); m != nil {
			s.Minerals[i].Value += it.Quantity * m.BaseValue
		}
	}
	return s
}

// MineralPick is one requested (or granted) mineral transfer.
type MineralPick struct {
	MineralKey string `json:"mineral_key"`
	Quantity   int    `json:"quantity"`
}

// Selection is the player's salvage request.
type Selection struct {
	Minerals []MineralPick `json:"minerals"`
	PlanKeys []string      `json:"plan_ids"`
}

// Validate checks the payload shape. It says nothing about availability.
func (sel Selection) Validate() error {
	for i, m := range sel.Minerals {
		if strings.TrimSpace(m.MineralKey) == "" {
			return fmt.Errorf("mineral selection %d has no mineral", i)
		}
		if m.Quantity <= 0 {
			return fmt.Errorf("mineral %q needs a positive quantity, got %d", m.MineralKey, m.Quantity)
		}
	}
	for i, key := range sel.PlanKeys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("plan selection %d is empty", i)
		}
	}
	return nil
}

// SpaceCheck compares requested mineral units with free hold space.
// Success is false when the check could not run at all.
type SpaceCheck struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Needed    int    `json:"space_needed"`
	Available int    `json:"space_available"`
	Valid     bool   `json:"valid"`
}

// CheckSpace reports whether the whole mineral selection fits.
func CheckSpace(ship *game.PlayerShip, sel Selection) SpaceCheck {
	needed := 0
	for _, m := range sel.Minerals {
		needed += m.Quantity
	}
	free := ship.FreeCargo()
	return SpaceCheck{Success: true, Needed: needed, Available: free, Valid: needed <= free}
}

// TransferResult reports what actually moved.
type TransferResult struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message,omitempty"`
	MineralsAdded  []MineralPick `json:"minerals_added"`
	PlansAdded     []string      `json:"plans_added"`
	Notes          []string      `json:"notes"`
	CargoUsed      int           `json:"cargo_used"`
	CargoHold      int           `json:"cargo_hold"`
	SpaceRemaining int           `json:"space_remaining"`
}

// TransferSalvage moves minerals in request order, truncating at free space,
// then grants plans the player does not already own. A malformed selection
// fails before anything changes.
func TransferSalvage(player *game.Player, sel Selection, now time.Time) TransferResult {
	if err := sel.Validate(); err != nil {
		return TransferResult{Success: false, Message: err.Error()}
	}
	ship := player.Ship
	res := TransferResult{Success: true}

	// 1. Minerals, capped by free space
	for _, pick := range sel.Minerals {
		free := ship.FreeCargo()
		if free <= 0 {
			res.Notes = append(res.Notes, "Cargo hold full - couldn't take more minerals")
			break
		}
		qty := pick.Quantity
		if qty > free {
			qty = free
			res.Notes = append(res.Notes, fmt.Sprintf("Cargo hold full - only took %d units", qty))
		}
		ship.AddMineral(pick.MineralKey, qty)
		res.MineralsAdded = append(res.MineralsAdded, MineralPick{MineralKey: pick.MineralKey, Quantity: qty})
	}

	// 2. Plans, unlimited by space
	for _, key := range sel.PlanKeys {
		if !player.GrantPlan(key, now) {
			res.Notes = append(res.Notes, "You already have this upgrade plan")
			continue
		}
		res.PlansAdded = append(res.PlansAdded, key)
	}

	res.CargoUsed = ship.CurrentCargo
	res.CargoHold = ship.CargoHold
	res.SpaceRemaining = ship.FreeCargo()
	return res
}

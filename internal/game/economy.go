/*
Package game
File: economy.go
Description:
    Handles the credit side of encounters.
    This includes:
    1. Estimating the value of cargo and ships lost to pirates.
    2. Pricing hull repairs after a fight.
*/

package game

// CargoValue estimates the worth of a set of cargo items at mineral base
// values. Plans count at their catalog price.
func (u *Universe) CargoValue(items []CargoItem) int {
	total := 0
	for _, it := range items {
		if it.IsPlan() {
			if p := u.GetPlan(it.PlanKey); p != nil {
				total += p.Price
			}
			continue
		}
		if m := u.GetMineral(it.MineralKey); m != nil {
			total += m.BaseValue * it.Quantity
		}
	}
	return total
}

// ShipValue is the shipyard price of the ship's template, 0 if unknown.
func (u *Universe) ShipValue(s *PlayerShip) int {
	if s == nil {
		return 0
	}
	if t := u.GetTemplate(s.TemplateName); t != nil {
		return t.Price
	}
	return 0
}

// RepairQuote prices restoring the ship to full hull.
// Formula: missing hull * repair_cost_per_hull.
func (u *Universe) RepairQuote(s *PlayerShip) (missing, cost int) {
	missing = s.MaxHull - s.Hull
	if missing < 0 {
		missing = 0
	}
	return missing, missing * u.BalanceConfig.RepairCostPerHull
}

// Repair adds hull, clamped to max hull, and returns the hull actually restored.
func (s *PlayerShip) Repair(amount int) int {
	before := s.Hull
	s.Hull = ClampHull(s.Hull+amount, s.MaxHull)
	return s.Hull - before
}

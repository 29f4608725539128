/*
Package game
File: mechanics.go
Description:
    Contains the combat "physics" and progression helpers.
    This includes tier normalization, the damage band, hull clamping,
    combat XP, player level and combat rating. It also carries the small
    state helpers on Combatant, PlayerShip and Player that keep the hull,
    cargo and plan invariants in one place.
*/

package game

import (
	"fmt"
	"math"
	"time"
)

// Tier bounds for difficulty.
const (
	MinTier = 1
	MaxTier = 5
)

// NormalizeTier lifts tiers below 1 to tier 1. Higher tiers keep their value:
// they scale cargo as usual, multiply stats by 1.0 unless the catalog lists
// them, and borrow tier 1's template pool.
func NormalizeTier(tier int) int {
	if tier < MinTier {
		return MinTier
	}
	return tier
}

// Multiplier returns the stat multiplier for a tier. Unknown tiers scale by 1.0.
func (u *Universe) Multiplier(tier int) float64 {
	if m, ok := u.TierMultipliers[tier]; ok && m > 0 {
		return m
	}
	return 1.0
}

// TierPool returns the weighted template preferences for a tier.
// A tier missing from the table uses tier 1's pool.
func (u *Universe) TierPool(tier int) []WeightedShip {
	if pool, ok := u.TierShips[tier]; ok {
		return pool
	}
	return u.TierShips[MinTier]
}

// DamageBand returns the inclusive [min, max] damage for a weapons rating.
// Equal to floor(p - 0.2p) and ceil(p + 0.2p), computed in integers so the
// band never drifts on float rounding.
func DamageBand(power int) (lo, hi int) {
	if power <= 0 {
		return 0, 0
	}
	lo = (4 * power) / 5
	hi = (6*power + 4) / 5
	return lo, hi
}

// ClampHull keeps a hull value inside [0, maxHull].
func ClampHull(hull, maxHull int) int {
	if hull < 0 {
		return 0
	}
	if hull > maxHull {
		return maxHull
	}
	return hull
}

// CombatXP is the experience for destroying a fleet.
// Formula: 50 per ship + half the average hostile weapons + 25 per extra ship, minimum 25.
func CombatXP(fleet []Combatant) int {
	count := len(fleet)
	if count == 0 {
		return 25
	}
	totalWeapons := 0
	for _, c := range fleet {
		totalWeapons += c.Weapons
	}
	avg := float64(totalWeapons) / float64(count)
	xp := 50*count + int(avg/2) + (count-1)*25
	if xp < 25 {
		return 25
	}
	return xp
}

// LevelForXP is floor(sqrt(xp/100)) + 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// CombatRating is a rough strength score: hull/10 + weapons.
func CombatRating(hull, weapons int) int {
	return hull/10 + weapons
}

// MineralCargo builds a mineral stack.
func MineralCargo(key string, qty int) CargoItem {
	return CargoItem{MineralKey: key, Quantity: qty}
}

// PlanCargo builds a plan item. Plans always have quantity 1.
func PlanCargo(key string) CargoItem {
	return CargoItem{PlanKey: key, Quantity: 1}
}

// IsPlan reports whether the item carries a plan.
func (c CargoItem) IsPlan() bool { return c.PlanKey != "" }

// Validate enforces the mineral/plan exclusivity.
func (c CargoItem) Validate() error {
	switch {
	case c.MineralKey != "" && c.PlanKey != "":
		return fmt.Errorf("cargo item holds both mineral %q and plan %q", c.MineralKey, c.PlanKey)
	case c.MineralKey == "" && c.PlanKey == "":
		return fmt.Errorf("cargo item holds neither a mineral nor a plan")
	case c.IsPlan() && c.Quantity != 1:
		return fmt.Errorf("plan %q must have quantity 1, got %d", c.PlanKey, c.Quantity)
	case !c.IsPlan() && c.Quantity <= 0:
		return fmt.Errorf("mineral %q needs a positive quantity, got %d", c.MineralKey, c.Quantity)
	}
	return nil
}

// Alive reports whether the hostile still has hull.
func (c *Combatant) Alive() bool { return c.Hull > 0 }

// TakeDamage lowers hull, clamped at 0. It returns true only on the hit that
// destroys the ship; the destroyed status never reverts.
func (c *Combatant) TakeDamage(dmg int) bool {
	if !c.Alive() {
		return false
	}
	c.Hull = ClampHull(c.Hull-dmg, c.MaxHull)
	if c.Hull == 0 {
		c.Status = StatusDestroyed
		return true
	}
	return false
}

// TakeDamage lowers the player's hull, clamped at 0. Returns true when the ship dies.
func (s *PlayerShip) TakeDamage(dmg int) bool {
	if s.Hull <= 0 {
		return false
	}
	s.Hull = ClampHull(s.Hull-dmg, s.MaxHull)
	return s.Hull == 0
}

// FreeCargo is the remaining hold space, never negative.
func (s *PlayerShip) FreeCargo() int {
	free := s.CargoHold - s.CurrentCargo
	if free < 0 {
		return 0
	}
	return free
}

// AddMineral merges qty into an existing stack or opens a new one.
func (s *PlayerShip) AddMineral(key string, qty int) {
	for i := range s.Cargo {
		if s.Cargo[i].MineralKey == key {
			s.Cargo[i].Quantity += qty
			s.CurrentCargo += qty
			return
		}
	}
	s.Cargo = append(s.Cargo, MineralCargo(key, qty))
	s.CurrentCargo += qty
}

// ClearCargo empties the hold and returns how many stacks were removed.
func (s *PlayerShip) ClearCargo() int {
	n := len(s.Cargo)
	s.Cargo = nil
	s.CurrentCargo = 0
	return n
}

// NewShipFromTemplate builds a fresh player ship at full hull.
func NewShipFromTemplate(t ShipTemplate, name string) *PlayerShip {
	return &PlayerShip{
		TemplateName: t.Name,
		Class:        t.Class,
		Name:         name,
		Status:       StatusActive,
		Hull:         t.HullStrength,
		MaxHull:      t.HullStrength,
		Weapons:      t.BaseWeapons(),
		Sensors:      t.BaseSensors(),
		WarpDrive:    t.BaseWarpDrive(),
		Speed:        t.Speed,
		CargoHold:    t.CargoCapacity,
	}
}

// HasPlan reports plan ownership.
func (p *Player) HasPlan(key string) bool {
	for _, op := range p.Plans {
		if op.Key == key {
			return true
		}
	}
	return false
}

// GrantPlan attaches a plan. It returns false if the player already owns it.
func (p *Player) GrantPlan(key string, at time.Time) bool {
	if p.HasPlan(key) {
		return false
	}
	p.Plans = append(p.Plans, OwnedPlan{Key: key, AcquiredAt: at})
	return true
}

// RevokePlans detaches every owned plan and returns how many were taken.
func (p *Player) RevokePlans() int {
	n := len(p.Plans)
	p.Plans = nil
	return n
}

// AddExperience adds xp and recomputes the level. It returns the new level
// and whether it went up.
func (p *Player) AddExperience(xp int) (level int, leveledUp bool) {
	before := p.Level
	if before == 0 {
		before = LevelForXP(p.Experience)
	}
	p.Experience += xp
	p.Level = LevelForXP(p.Experience)
	return p.Level, p.Level > before
}

// DeductCredits removes credits if the player can afford them.
func (p *Player) DeductCredits(amount int) error {
	if amount < 0 {
		return fmt.Errorf("deduct credits: negative amount %d", amount)
	}
	if p.Credits < amount {
		return &InsufficientCreditsError{Needed: amount, Available: p.Credits}
	}
	p.Credits -= amount
	return nil
}

// InsufficientCreditsError carries the amounts the caller needs to react.
type InsufficientCreditsError struct {
	Needed    int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d", e.Needed, e.Available)
}

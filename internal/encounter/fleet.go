/*
Package encounter
File: fleet.go
Description:
    Procedural hostile fleet generation.

    For each ship the generator:
    1. Picks a template from the tier's weighted preference table.
    2. Scales hull and weapons by the tier multiplier.
    3. Rolls a "The {Prefix} {Suffix}" name.
    4. Seeds the hold with 1-3 distinct minerals and, rarely, one plan.
*/

package encounter

import (
	"log"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

var namePrefixes = [16]string{
	"Crimson", "Shadow", "Dark", "Blood", "Iron", "Steel", "Void", "Ghost",
	"Phantom", "Vengeful", "Savage", "Black", "Red", "Death", "Hell", "Doom",
}

var nameSuffixes = [16]string{
	"Dagger", "Talon", "Reaver", "Serpent", "Fang", "Claw", "Terror", "Raider",
	"Marauder", "Scourge", "Fury", "Vengeance", "Blade", "Edge", "Storm", "Wraith",
}

// FleetGenerator builds hostile fleets from a universe catalog.
type FleetGenerator struct {
	universe *game.Universe
}

// NewFleetGenerator binds a generator to a catalog.
func NewFleetGenerator(u *game.Universe) *FleetGenerator {
	return &FleetGenerator{universe: u}
}

// Generate returns exactly size combatants, each at full hull and active.
// A negative size is treated as 0.
func (g *FleetGenerator) Generate(src rng.Source, tier int, captainKey string, size int) []game.Combatant {
	if size < 0 {
		size = 0
	}
	tier = game.NormalizeTier(tier)
	table := g.buildTable(tier)
	mult := g.universe.Multiplier(tier)

	fleet := make([]game.Combatant, 0, size)
	for i := 0; i < size; i++ {
		tpl := table.pick(src)
		fleet = append(fleet, g.spawn(src, tpl, tier, mult, captainKey))
	}
	return fleet
}

func (g *FleetGenerator) spawn(src rng.Source, tpl game.ShipTemplate, tier int, mult float64, captainKey string) game.Combatant {
	hull := int(math.Round(float64(tpl.HullStrength) * mult))
	if hull < 1 {
		hull = 1
	}
	return game.Combatant{
		UUID:          uuid.NewString(),
		CaptainKey:    captainKey,
		TemplateName:  tpl.Name,
		Class:         tpl.Class,
		Name:          ShipName(src),
		Hull:          hull,
		MaxHull:       hull,
		Weapons:       int(math.Round(float64(tpl.BaseWeapons()) * mult)),
		Speed:         tpl.Speed,
		WarpDrive:     tpl.BaseWarpDrive(),
		CargoCapacity: tpl.CargoCapacity,
		Status:        game.StatusActive,
		Cargo:         g.seedCargo(src, tier),
	}
}

// ShipName rolls one of 256 pirate ship names.
func ShipName(src rng.Source) string {
	return "The " + namePrefixes[src.IntN(len(namePrefixes))] + " " + nameSuffixes[src.IntN(len(nameSuffixes))]
}

// seedCargo picks 1-3 distinct minerals with quantities in [10*tier, 50*tier]
// and rolls the plan drop.
func (g *FleetGenerator) seedCargo(src rng.Source, tier int) []game.CargoItem {
	var cargo []game.CargoItem

	minerals := g.universe.Minerals
	if len(minerals) == 0 {
		log.Println("ENCOUNTER: mineral catalog is empty, hostiles carry no ore")
	} else {
		want := rng.Between(src, 1, 3)
		for _, idx := range sampleIndexes(src, len(minerals), want) {
			qty := rng.Between(src, 10*tier, 50*tier)
			cargo = append(cargo, game.MineralCargo(minerals[idx].Key, qty))
		}
	}

	plans := g.universe.Plans
	if len(plans) > 0 && rng.Chance(src, g.universe.BalanceConfig.PlanDropChance) {
		cargo = append(cargo, game.PlanCargo(plans[src.IntN(len(plans))].Key))
	}
	return cargo
}

// sampleIndexes draws k distinct indexes from [0, n) with a partial
// Fisher-Yates shuffle.
func sampleIndexes(src rng.Source, n, k int) []int {
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + src.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// templateTable is a cumulative-weight distribution over templates.
type templateTable struct {
	templates  []game.ShipTemplate
	cumulative []int // cumulative[i] = sum of weights[0..i]
	fallback   game.ShipTemplate
}

// buildTable resolves the tier pool against the catalog. Unknown template
// names and non-positive weights are dropped.
func (g *FleetGenerator) buildTable(tier int) templateTable {
	t := templateTable{fallback: g.universe.FallbackTemplate()}
	total := 0
	for _, ws := range g.universe.TierPool(tier) {
		if ws.Weight <= 0 {
			continue
		}
		tpl := g.universe.GetTemplate(ws.Template)
		if tpl == nil {
			log.Printf("ENCOUNTER: tier %d references unknown template %q, skipping", tier, ws.Template)
			continue
		}
		total += ws.Weight
		t.templates = append(t.templates, *tpl)
		t.cumulative = append(t.cumulative, total)
	}
	if total == 0 {
		log.Printf("ENCOUNTER: tier %d has no usable templates, using %q", tier, t.fallback.Name)
	}
	return t
}

// pick draws once from the distribution. An empty table yields the fallback.
func (t templateTable) pick(src rng.Source) game.ShipTemplate {
	if len(t.cumulative) == 0 {
		return t.fallback
	}
	r := src.IntN(t.cumulative[len(t.cumulative)-1])
	// First bucket whose cumulative weight exceeds r.
	i := sort.SearchInts(t.cumulative, r+1)
	return t.templates[i]
}

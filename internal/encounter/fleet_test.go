package encounter

import (
	"strings"
	"testing"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

func TestGenerateFleetShape(t *testing.T) {
	u := game.DefaultUniverse()
	gen := NewFleetGenerator(u)
	src := rng.New(1)
	for _, tier := range []int{0, 1, 2, 3, 4, 5, 9} {
		for size := 0; size <= 6; size++ {
			fleet := gen.Generate(src, tier, "vex_blackthorne", size)
			if len(fleet) != size {
				t.Fatalf("tier %d: expected %d ships, got %d", tier, size, len(fleet))
			}
			norm := game.NormalizeTier(tier)
			for _, c := range fleet {
				if c.Hull <= 0 || c.Hull != c.MaxHull {
					t.Errorf("tier %d: expected full positive hull, got %d/%d", tier, c.Hull, c.MaxHull)
				}
				if c.Status != game.StatusActive {
					t.Errorf("expected active status, got %s", c.Status)
				}
				if c.UUID == "" || c.CaptainKey != "vex_blackthorne" {
					t.Errorf("expected uuid and captain, got %q %q", c.UUID, c.CaptainKey)
				}
				if !strings.HasPrefix(c.Name, "The ") {
					t.Errorf("expected generated name, got %q", c.Name)
				}
				checkCargo(t, c.Cargo, norm)
			}
		}
	}
}

func TestGenerateUnknownTierKeepsCargoScale(t *testing.T) {
	u := game.DefaultUniverse()
	gen := NewFleetGenerator(u)
	pool := map[string]bool{}
	for _, ws := range u.TierPool(game.MinTier) {
		pool[ws.Template] = true
	}
	fleet := gen.Generate(rng.New(3), 9, "vex_blackthorne", 6)
	for _, c := range fleet {
		if !pool[c.TemplateName] {
			t.Errorf("expected a tier 1 template, got %q", c.TemplateName)
		}
		tpl := u.GetTemplate(c.TemplateName)
		if tpl == nil || c.MaxHull != tpl.HullStrength {
			t.Errorf("expected unscaled hull for %q, got %d", c.TemplateName, c.MaxHull)
		}
		// Quantities follow the requested tier, not tier 1.
		checkCargo(t, c.Cargo, 9)
	}
}

func checkCargo(t *testing.T, cargo []game.CargoItem, tier int) {
	t.Helper()
	seen := map[string]bool{}
	minerals, plans := 0, 0
	for _, it := range cargo {
		if err := it.Validate(); err != nil {
			t.Errorf("invalid cargo item: %v", err)
		}
		if it.IsPlan() {
			plans++
			continue
		}
		minerals++
		if seen[it.MineralKey] {
			t.Errorf("mineral %s repeated in one hold", it.MineralKey)
		}
		seen[it.MineralKey] = true
		if it.Quantity < 10*tier || it.Quantity > 50*tier {
			t.Errorf("tier %d: quantity %d outside [%d,%d]", tier, it.Quantity, 10*tier, 50*tier)
		}
	}
	if minerals < 1 || minerals > 3 {
		t.Errorf("expected 1-3 minerals, got %d", minerals)
	}
	if plans > 1 {
		t.Errorf("expected at most one plan, got %d", plans)
	}
}

func TestGenerateFleetMidpoint(t *testing.T) {
	gen := NewFleetGenerator(game.DefaultUniverse())
	fleet := gen.Generate(rng.Midpoint{}, 1, "", 1)
	c := fleet[0]
	// Draw 50 of 100 lands in the Viper bucket (40..79).
	if c.TemplateName != "Viper-class Fighter" {
		t.Fatalf("expected Viper-class Fighter, got %s", c.TemplateName)
	}
	if c.Hull != 100 || c.Weapons != 40 || c.Speed != 180 || c.WarpDrive != 1 {
		t.Errorf("expected 100/40/180/1, got %d/%d/%d/%d", c.Hull, c.Weapons, c.Speed, c.WarpDrive)
	}
	if c.Name != "The Phantom Marauder" {
		t.Errorf("expected 'The Phantom Marauder', got %q", c.Name)
	}
	if len(c.Cargo) != 2 {
		t.Fatalf("expected 2 cargo stacks, got %d", len(c.Cargo))
	}
	if c.Cargo[0].MineralKey != "aluminum" || c.Cargo[1].MineralKey != "lithium" {
		t.Errorf("expected aluminum and lithium, got %s and %s", c.Cargo[0].MineralKey, c.Cargo[1].MineralKey)
	}
	if c.Cargo[0].Quantity != 30 {
		t.Errorf("expected quantity 30, got %d", c.Cargo[0].Quantity)
	}
}

func TestGenerateFleetScalesByTier(t *testing.T) {
	gen := NewFleetGenerator(game.DefaultUniverse())
	c := gen.Generate(rng.Midpoint{}, 3, "", 1)[0]
	// Tier 3 midpoint lands on the Corsair (40..69 bucket), multiplier 1.3.
	if c.TemplateName != "Corsair-class Gunship" {
		t.Fatalf("expected Corsair-class Gunship, got %s", c.TemplateName)
	}
	if c.Hull != 286 || c.Weapons != 91 {
		t.Errorf("expected hull 286 weapons 91, got %d/%d", c.Hull, c.Weapons)
	}
	if c.Speed != 120 || c.CargoCapacity != 40 || c.WarpDrive != 2 {
		t.Errorf("expected unscaled speed/cargo/warp 120/40/2, got %d/%d/%d", c.Speed, c.CargoCapacity, c.WarpDrive)
	}
}

func TestWeightedSamplingFollowsWeights(t *testing.T) {
	gen := NewFleetGenerator(game.DefaultUniverse())
	table := gen.buildTable(1)
	src := rng.New(2024)
	counts := map[string]int{}
	const draws = 20000
	for i := 0; i < draws; i++ {
		counts[table.pick(src).Name]++
	}
	want := map[string]float64{
		"Sparrow-class Light Freighter": 0.40,
		"Viper-class Fighter":           0.40,
		"Interdictor-class Corvette":    0.20,
	}
	for name, p := range want {
		got := float64(counts[name]) / draws
		if got < p-0.03 || got > p+0.03 {
			t.Errorf("%s: expected share near %.2f, got %.3f", name, p, got)
		}
	}
}

func TestEmptyPoolUsesFallbackTemplate(t *testing.T) {
	u := game.DefaultUniverse()
	u.TierShips = map[int][]game.WeightedShip{
		1: {{Template: "Ghost Ship", Weight: 50}, {Template: "Viper-class Fighter", Weight: 0}},
	}
	fleet := NewFleetGenerator(u).Generate(rng.New(5), 1, "", 4)
	for _, c := range fleet {
		if c.TemplateName != game.DefaultFallbackTemplate {
			t.Errorf("expected fallback template, got %s", c.TemplateName)
		}
	}

	u.TierShips = nil
	if got := NewFleetGenerator(u).Generate(rng.New(5), 2, "", 3); len(got) != 3 {
		t.Errorf("expected 3 ships from an empty table, got %d", len(got))
	}
}

func TestGenerateWithoutMineralsOrPlans(t *testing.T) {
	u := game.DefaultUniverse()
	u.Minerals = nil
	u.Plans = nil
	for _, c := range NewFleetGenerator(u).Generate(rng.New(3), 2, "", 5) {
		if len(c.Cargo) != 0 {
			t.Errorf("expected empty hold, got %+v", c.Cargo)
		}
	}
}

func TestSampleIndexesDistinct(t *testing.T) {
	src := rng.New(11)
	for i := 0; i < 200; i++ {
		got := sampleIndexes(src, 4, 3)
		seen := map[int]bool{}
		for _, v := range got {
			if v < 0 || v >= 4 || seen[v] {
				t.Fatalf("bad sample %v", got)
			}
			seen[v] = true
		}
	}
	if got := sampleIndexes(src, 2, 5); len(got) != 2 {
		t.Errorf("expected sample capped at population 2, got %d", len(got))
	}
}

package encounter

import (
	"strings"
	"testing"
	"time"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

func surrenderFixture() (*game.Player, *game.ShipTemplate) {
	tpl := game.DefaultUniverse().GetTemplate("Sparrow-class Light Freighter")
	ship := game.NewShipFromTemplate(*tpl, "Lucky")
	ship.Weapons = 17
	ship.MaxHull = 82
	ship.Hull = 60
	ship.AddMineral("gold", 10)
	ship.AddMineral("iron_ore", 15)
	p := &game.Player{ID: 1, Ship: ship}
	p.GrantPlan("plan_weapons_basic", time.Now())
	p.GrantPlan("plan_max_hull_basic", time.Now())
	return p, tpl
}

func TestSurrenderEmptiesHoldOnly(t *testing.T) {
	p, tpl := surrenderFixture()
	// Penalty roll of 100 misses the 25% chance.
	res := ProcessSurrender(&rng.Sequence{Ints: []int{99}}, p, tpl, "Captain Vex Blackthorne", 25)

	if p.Ship.CurrentCargo != 0 || len(p.Ship.Cargo) != 0 {
		t.Errorf("expected empty hold, got %d units in %d stacks", p.Ship.CurrentCargo, len(p.Ship.Cargo))
	}
	if res.CargoItemsLost != 2 || len(res.CargoLost) != 2 {
		t.Errorf("expected 2 stacks lost, got %d", res.CargoItemsLost)
	}
	if res.PenaltyApplied || len(p.Plans) != 2 || p.Ship.Weapons != 17 {
		t.Errorf("expected no boarding penalty, got %+v", res)
	}
	if res.Events[0].Message != "You surrender to Captain Vex Blackthorne." {
		t.Errorf("unexpected opening line %q", res.Events[0].Message)
	}
	if !strings.Contains(res.Events[1].Message, "(2 items jettisoned)") {
		t.Errorf("unexpected cargo line %q", res.Events[1].Message)
	}
	if len(res.Events) != 3 || res.Events[2].Message != "The pirates let you go with a warning...this time." {
		t.Errorf("expected the warning as the closing line, got %+v", res.Events)
	}
}

func TestSurrenderPenaltyWithNothingVisible(t *testing.T) {
	// Stock ship at its floors and no plans: the boarding still happens.
	tpl := game.DefaultUniverse().GetTemplate("Sparrow-class Light Freighter")
	p := &game.Player{ID: 1, Ship: game.NewShipFromTemplate(*tpl, "Bare")}
	res := ProcessSurrender(&rng.Sequence{Ints: []int{0, 0, 0, 0}}, p, tpl, "the pirates", 25)

	if !res.PenaltyApplied || len(res.VisibleDowngrades()) != 0 || res.PlansStolen != 0 {
		t.Fatalf("expected an applied penalty with no visible loss, got %+v", res)
	}
	var text []string
	for _, ev := range res.Events {
		text = append(text, ev.Message)
	}
	joined := strings.Join(text, "\n")
	if !strings.Contains(joined, "The pirates board your ship and strip valuable components!") {
		t.Errorf("expected the boarding line:\n%s", joined)
	}
	if strings.Contains(joined, "let you go with a warning") {
		t.Errorf("expected no warning line after a boarding:\n%s", joined)
	}
}

func TestSurrenderBoardingPenalty(t *testing.T) {
	p, tpl := surrenderFixture()
	// roll 1 (penalty), two components, picks weapons then sensors, amounts 3 and 3.
	src := &rng.Sequence{Ints: []int{0, 1, 0, 0, 2, 2}}
	res := ProcessSurrender(src, p, tpl, "the pirates", 25)

	if !res.PenaltyApplied {
		t.Fatal("expected penalty")
	}
	if res.PlansStolen != 2 || len(p.Plans) != 0 {
		t.Errorf("expected both plans stolen, got %d (left %d)", res.PlansStolen, len(p.Plans))
	}
	if len(res.Downgrades) != 2 {
		t.Fatalf("expected 2 downgrades, got %d", len(res.Downgrades))
	}
	w := res.Downgrades[0]
	if w.Component != ComponentWeapons || w.Before != 17 || w.After != 15 || w.Delta != 2 {
		t.Errorf("expected weapons 17 -> 15 at floor, got %+v", w)
	}
	s := res.Downgrades[1]
	if s.Component != ComponentSensors || s.Delta != 0 {
		t.Errorf("expected sensors already at floor, got %+v", s)
	}
	if v := res.VisibleDowngrades(); len(v) != 1 || v[0].Component != ComponentWeapons {
		t.Errorf("expected only weapons in the visible summary, got %+v", v)
	}

	var text []string
	for _, ev := range res.Events {
		text = append(text, ev.Message)
	}
	joined := strings.Join(text, "\n")
	if !strings.Contains(joined, "  - 2 upgrade plans stolen") || !strings.Contains(joined, "  - Weapons: 17 → 15 (-2)") {
		t.Errorf("unexpected surrender log:\n%s", joined)
	}
	if strings.Contains(joined, "Sensors") {
		t.Errorf("expected zero-delta sensors to stay out of the log:\n%s", joined)
	}
	if strings.Contains(joined, "let you go with a warning") {
		t.Errorf("expected no warning line after a boarding:\n%s", joined)
	}
}

func TestDowngradeMaxHullDragsHull(t *testing.T) {
	ship := &game.PlayerShip{Hull: 5, MaxHull: 103}
	floors := Floors{MaxHull: 100}
	c, err := DowngradeComponent(ship, floors, ComponentMaxHull, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Delta != 3 || ship.MaxHull != 100 || ship.Hull != 2 {
		t.Errorf("expected max 100 and hull 2, got %d and %d (delta %d)", ship.MaxHull, ship.Hull, c.Delta)
	}

	ship = &game.PlayerShip{Hull: 2, MaxHull: 103}
	DowngradeComponent(ship, floors, ComponentMaxHull, 3)
	if ship.Hull != 1 {
		t.Errorf("expected hull floored at 1, got %d", ship.Hull)
	}
}

func TestDowngradeUnknownComponent(t *testing.T) {
	ship := &game.PlayerShip{Weapons: 20, Sensors: 4, WarpDrive: 2, MaxHull: 90, Hull: 90}
	if _, err := DowngradeComponent(ship, Floors{}, "shields", 2); err == nil {
		t.Error("expected error for unknown component")
	}
	if ship.Weapons != 20 || ship.Sensors != 4 || ship.WarpDrive != 2 || ship.MaxHull != 90 || ship.Hull != 90 {
		t.Errorf("expected ship untouched, got %+v", ship)
	}
}

func TestSurrenderNeverBreaksFloors(t *testing.T) {
	u := game.DefaultUniverse()
	for seed := uint64(1); seed <= 300; seed++ {
		tpl := u.GetTemplate("Viper-class Fighter")
		floors := TemplateFloors(*tpl)
		ship := game.NewShipFromTemplate(*tpl, "Test")
		src := rng.New(seed)
		ship.Weapons += rng.Between(src, 0, 3)
		ship.WarpDrive += rng.Between(src, 0, 2)
		ship.MaxHull += rng.Between(src, 0, 4)
		ship.Hull = ship.MaxHull
		p := &game.Player{Ship: ship}

		ProcessSurrender(src, p, tpl, "x", 100)

		if ship.Weapons < floors.Weapons || ship.Sensors < floors.Sensors ||
			ship.WarpDrive < floors.WarpDrive || ship.MaxHull < floors.MaxHull {
			t.Fatalf("seed %d: stat below floor: %+v vs %+v", seed, ship, floors)
		}
		if ship.Hull < 1 || ship.Hull > ship.MaxHull {
			t.Fatalf("seed %d: hull %d outside [1,%d]", seed, ship.Hull, ship.MaxHull)
		}
		if ship.CurrentCargo != 0 {
			t.Fatalf("seed %d: cargo not cleared", seed)
		}
	}
}

func TestSurrenderWithoutTemplateKeepsStats(t *testing.T) {
	ship := &game.PlayerShip{Weapons: 30, Sensors: 2, WarpDrive: 2, Hull: 50, MaxHull: 50}
	p := &game.Player{Ship: ship}
	ProcessSurrender(rng.New(4), p, nil, "x", 100)
	if ship.Weapons != 30 || ship.Sensors != 2 || ship.WarpDrive != 2 || ship.MaxHull != 50 {
		t.Errorf("expected current stats to act as floors, got %+v", ship)
	}
}

package encounter

import (
	"testing"
	"time"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

func wreck(cargo ...game.CargoItem) game.Combatant {
	return game.Combatant{Hull: 0, MaxHull: 10, Status: game.StatusDestroyed, Cargo: cargo}
}

func TestCollectSalvageSkipsSurvivors(t *testing.T) {
	alive := game.Combatant{Hull: 5, MaxHull: 10, Status: game.StatusActive, Cargo: []game.CargoItem{game.MineralCargo("gold", 99)}}
	fleet := []game.Combatant{
		wreck(game.MineralCargo("iron_ore", 10)),
		alive,
		wreck(game.MineralCargo("iron_ore", 5), game.PlanCargo("plan_weapons_basic")),
	}
	items := CollectSalvage(fleet)
	if len(items) != 3 {
		t.Fatalf("expected 3 items from wrecks, got %d", len(items))
	}
	for _, it := range items {
		if it.MineralKey == "gold" {
			t.Error("expected cargo of a surviving ship to be excluded")
		}
	}
}

func TestOrganizeSalvageGroupsMinerals(t *testing.T) {
	u := game.DefaultUniverse()
	items := []game.CargoItem{
		game.MineralCargo("iron_ore", 10),
		game.PlanCargo("plan_weapons_basic"),
		game.MineralCargo("gold", 2),
		game.MineralCargo("iron_ore", 5),
		game.PlanCargo("plan_weapons_basic"),
	}
	s := OrganizeSalvage(u, items)
	if len(s.Minerals) != 2 {
		t.Fatalf("expected 2 mineral groups, got %d", len(s.Minerals))
	}
	if s.Minerals[0].MineralKey != "iron_ore" || s.Minerals[0].Quantity != 15 || s.Minerals[0].Value != 375 {
		t.Errorf("expected iron ore 15 worth 375, got %+v", s.Minerals[0])
	}
	if s.Minerals[0].Name != "Iron Ore" || s.Minerals[0].Symbol != "Fe" {
		t.Errorf("expected catalog names, got %+v", s.Minerals[0])
	}
	if len(s.Plans) != 2 {
		t.Errorf("expected plans to pass through ungrouped, got %d", len(s.Plans))
	}
}

func TestTransferTruncatesAtFreeSpace(t *testing.T) {
	ship := &game.PlayerShip{CargoHold: 50, CurrentCargo: 30, Cargo: []game.CargoItem{game.MineralCargo("carbon", 30)}}
	p := &game.Player{Ship: ship}

	res := TransferSalvage(p, Selection{Minerals: []MineralPick{{MineralKey: "M1", Quantity: 30}}}, time.Now())

	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if len(res.MineralsAdded) != 1 || res.MineralsAdded[0] != (MineralPick{MineralKey: "M1", Quantity: 20}) {
		t.Errorf("expected [{M1 20}], got %+v", res.MineralsAdded)
	}
	if len(res.Notes) != 1 || res.Notes[0] != "Cargo hold full - only took 20 units" {
		t.Errorf("expected a cargo hold full note, got %v", res.Notes)
	}
	if ship.CurrentCargo != 50 || res.SpaceRemaining != 0 {
		t.Errorf("expected full hold, got %d (remaining %d)", ship.CurrentCargo, res.SpaceRemaining)
	}
}

func TestTransferSkipsOnceFull(t *testing.T) {
	ship := &game.PlayerShip{CargoHold: 10}
	p := &game.Player{Ship: ship}
	sel := Selection{Minerals: []MineralPick{
		{MineralKey: "gold", Quantity: 10},
		{MineralKey: "iron_ore", Quantity: 4},
		{MineralKey: "nickel", Quantity: 4},
	}}
	res := TransferSalvage(p, sel, time.Now())
	if len(res.MineralsAdded) != 1 || res.MineralsAdded[0].MineralKey != "gold" {
		t.Errorf("expected only gold to fit, got %+v", res.MineralsAdded)
	}
	if len(res.Notes) != 1 || res.Notes[0] != "Cargo hold full - couldn't take more minerals" {
		t.Errorf("expected one cargo-full note, got %v", res.Notes)
	}
}

func TestTransferMergesStacksAndPlans(t *testing.T) {
	ship := &game.PlayerShip{CargoHold: 100, CurrentCargo: 5, Cargo: []game.CargoItem{game.MineralCargo("gold", 5)}}
	p := &game.Player{Ship: ship}
	p.GrantPlan("plan_weapons_basic", time.Now())

	res := TransferSalvage(p, Selection{
		Minerals: []MineralPick{{MineralKey: "gold", Quantity: 7}, {MineralKey: "nickel", Quantity: 3}},
		PlanKeys: []string{"plan_weapons_basic", "plan_max_hull_basic"},
	}, time.Now())

	if len(ship.Cargo) != 2 || ship.Cargo[0].Quantity != 12 || ship.CurrentCargo != 15 {
		t.Errorf("expected gold merged to 12 and 15 units aboard, got %+v (%d)", ship.Cargo, ship.CurrentCargo)
	}
	if len(res.PlansAdded) != 1 || res.PlansAdded[0] != "plan_max_hull_basic" {
		t.Errorf("expected only the new plan granted, got %v", res.PlansAdded)
	}
	if len(res.Notes) != 1 || res.Notes[0] != "You already have this upgrade plan" {
		t.Errorf("expected a duplicate-plan note, got %v", res.Notes)
	}
	if len(p.Plans) != 2 {
		t.Errorf("expected 2 owned plans, got %d", len(p.Plans))
	}
}

func TestTransferRejectsMalformedSelection(t *testing.T) {
	ship := &game.PlayerShip{CargoHold: 100}
	p := &game.Player{Ship: ship}
	res := TransferSalvage(p, Selection{
		Minerals: []MineralPick{{MineralKey: "gold", Quantity: 5}, {MineralKey: "iron_ore", Quantity: 0}},
	}, time.Now())
	if res.Success || res.Message == "" {
		t.Fatalf("expected structured failure, got %+v", res)
	}
	if ship.CurrentCargo != 0 || len(ship.Cargo) != 0 {
		t.Errorf("expected no partial transfer, got %+v", ship.Cargo)
	}
	if res := TransferSalvage(p, Selection{PlanKeys: []string{" "}}, time.Now()); res.Success {
		t.Error("expected blank plan key to fail")
	}
}

func TestTransferNeverOverfills(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		src := rng.New(seed)
		hold := rng.Between(src, 0, 80)
		ship := &game.PlayerShip{CargoHold: hold, CurrentCargo: rng.Between(src, 0, hold)}
		p := &game.Player{Ship: ship}
		var sel Selection
		picks := rng.Between(src, 1, 5)
		for i := 0; i < picks; i++ {
			sel.Minerals = append(sel.Minerals, MineralPick{MineralKey: "gold", Quantity: rng.Between(src, 1, 60)})
		}
		TransferSalvage(p, sel, time.Now())
		if ship.CurrentCargo > ship.CargoHold {
			t.Fatalf("seed %d: cargo %d exceeds hold %d", seed, ship.CurrentCargo, ship.CargoHold)
		}
	}
}

func TestCheckSpace(t *testing.T) {
	ship := &game.PlayerShip{CargoHold: 40, CurrentCargo: 25}
	sc := CheckSpace(ship, Selection{Minerals: []MineralPick{{MineralKey: "a", Quantity: 10}, {MineralKey: "b", Quantity: 8}}})
	if sc.Needed != 18 || sc.Available != 15 || sc.Valid {
		t.Errorf("expected 18 needed vs 15 available and invalid, got %+v", sc)
	}
}

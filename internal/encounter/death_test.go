package encounter

import (
	"strings"
	"testing"
	"time"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

func TestProcessDeathRecordsLossesAndRespawns(t *testing.T) {
	u := game.DefaultUniverse()
	tpl := u.GetTemplate("Viper-class Fighter")
	ship := game.NewShipFromTemplate(*tpl, "Glass Cannon")
	ship.ID = 42
	ship.AddMineral("gold", 4)
	ship.AddMineral("iron_ore", 10)
	p := &game.Player{ID: 7, Credits: 1234, Experience: 450, LastHub: "outpost_vega", Ship: ship}
	p.GrantPlan("plan_weapons_basic", time.Now())

	r := ProcessDeath(u, p)

	if r.ShipName != "Glass Cannon" || r.ShipClass != "fighter" {
		t.Errorf("expected ship identity recorded, got %+v", r)
	}
	if r.CargoItemsLost != 2 || r.EstimatedCargoValue != 4*250+10*25 {
		t.Errorf("expected 2 stacks worth 1250, got %d worth %d", r.CargoItemsLost, r.EstimatedCargoValue)
	}
	if r.PlansLost != 1 || len(p.Plans) != 0 {
		t.Errorf("expected 1 plan lost and none left, got %d (%d left)", r.PlansLost, len(p.Plans))
	}
	if r.ShipValue != 45000 {
		t.Errorf("expected ship value 45000, got %d", r.ShipValue)
	}
	if p.Credits != 1234 || p.Experience != 450 || r.CreditsRetained != 1234 {
		t.Errorf("expected credits and XP kept, got %d / %d", p.Credits, p.Experience)
	}
	if r.RespawnHub != "outpost_vega" {
		t.Errorf("expected respawn at last hub, got %s", r.RespawnHub)
	}
	if p.Ship == ship || p.Ship.ID != 42 || p.Ship.TemplateName != game.DefaultStarterTemplate {
		t.Errorf("expected a fresh starter ship in the same slot, got %+v", p.Ship)
	}
	if p.Ship.Hull != p.Ship.MaxHull || p.Ship.Status != game.StatusActive || p.Ship.CurrentCargo != 0 {
		t.Errorf("expected new ship at full hull with an empty hold, got %+v", p.Ship)
	}
	if !strings.Contains(r.Message, "outpost_vega") {
		t.Errorf("expected respawn hub in message, got %q", r.Message)
	}
}

func TestProcessDeathDefaultsHub(t *testing.T) {
	u := game.DefaultUniverse()
	p := &game.Player{Ship: &game.PlayerShip{Name: "x", TemplateName: "Unknown"}}
	r := ProcessDeath(u, p)
	if r.RespawnHub != game.DefaultStartingHub || p.LastHub != game.DefaultStartingHub {
		t.Errorf("expected starting hub, got %s", r.RespawnHub)
	}
	if r.ShipValue != 0 {
		t.Errorf("expected unknown template to be worth 0, got %d", r.ShipValue)
	}
}

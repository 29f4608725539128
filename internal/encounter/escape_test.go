package encounter

import (
	"testing"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

func TestEscapeBlockedByWarpDrive(t *testing.T) {
	ship := &game.PlayerShip{Speed: 5, WarpDrive: 2}
	fleet := []game.Combatant{{Name: "A", Speed: 3, WarpDrive: 3}}
	res := AttemptEscape(ship, fleet)
	if res.Success {
		t.Fatal("expected escape to fail")
	}
	if res.Interceptor == nil || res.Interceptor.Name != "A" {
		t.Fatalf("expected interceptor A, got %+v", res.Interceptor)
	}
	if res.Reason != ReasonWarpDrive {
		t.Errorf("expected reason %q, got %q", ReasonWarpDrive, res.Reason)
	}
	if res.Message != "A intercepts you! Their superior warp drive prevents your escape." {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestEscapeBlockedBySpeedFirst(t *testing.T) {
	ship := &game.PlayerShip{Speed: 5, WarpDrive: 1}
	fleet := []game.Combatant{{Name: "A", Speed: 5, WarpDrive: 3}}
	if res := AttemptEscape(ship, fleet); res.Reason != ReasonSpeed {
		t.Errorf("expected speed to be cited when both fail, got %q", res.Reason)
	}
}

func TestEscapeNamesFirstBlocker(t *testing.T) {
	ship := &game.PlayerShip{Speed: 10, WarpDrive: 3}
	fleet := []game.Combatant{
		{Name: "Slow", Speed: 2, WarpDrive: 1},
		{Name: "Fast", Speed: 12, WarpDrive: 1},
		{Name: "Warper", Speed: 1, WarpDrive: 4},
	}
	res := AttemptEscape(ship, fleet)
	if res.Success || res.Interceptor.Name != "Fast" || res.Reason != ReasonSpeed {
		t.Errorf("expected Fast to intercept on speed, got %+v", res)
	}
}

func TestEscapeRequiresStrictDominance(t *testing.T) {
	ship := &game.PlayerShip{Speed: 10, WarpDrive: 3}
	if AttemptEscape(ship, []game.Combatant{{Name: "Tie", Speed: 10, WarpDrive: 1}}).Success {
		t.Error("expected equal speed to block escape")
	}
	if !AttemptEscape(ship, []game.Combatant{{Speed: 9, WarpDrive: 2}, {Speed: 1, WarpDrive: 1}}).Success {
		t.Error("expected escape when every hostile is slower on both stats")
	}
}

func TestEscapeEmptyFleet(t *testing.T) {
	res := AttemptEscape(&game.PlayerShip{}, nil)
	if !res.Success || res.Message != "No pirates to escape from." {
		t.Errorf("expected trivial success, got %+v", res)
	}
}

func TestEscapeDoesNotMutate(t *testing.T) {
	ship := &game.PlayerShip{Speed: 1, WarpDrive: 1, Hull: 50}
	fleet := []game.Combatant{{Name: "A", Speed: 3, WarpDrive: 3, Hull: 10}}
	res := AttemptEscape(ship, fleet)
	res.Interceptor.Hull = 0
	if fleet[0].Hull != 10 || ship.Hull != 50 {
		t.Error("expected escape resolution to leave ship and fleet untouched")
	}
}

func TestEscapeChanceAgainstMaxima(t *testing.T) {
	fleet := []game.Combatant{{Speed: 3, WarpDrive: 1}, {Speed: 1, WarpDrive: 2}}
	cases := []struct {
		speed, warp, want int
	}{
		{4, 3, 100},
		{4, 2, 50},
		{3, 3, 50},
		{3, 2, 0},
	}
	for _, c := range cases {
		got := EscapeChance(&game.PlayerShip{Speed: c.speed, WarpDrive: c.warp}, fleet)
		if got != c.want {
			t.Errorf("speed %d warp %d: expected %d, got %d", c.speed, c.warp, c.want, got)
		}
	}
}

func TestAnalyzeEscape(t *testing.T) {
	a := AnalyzeEscape(&game.PlayerShip{Speed: 200, WarpDrive: 2}, []game.Combatant{{Speed: 180, WarpDrive: 1}, {Speed: 150, WarpDrive: 2}})
	if a.TheirMaxSpeed != 180 || a.TheirMaxWarp != 2 {
		t.Errorf("expected maxima 180/2, got %d/%d", a.TheirMaxSpeed, a.TheirMaxWarp)
	}
	if !a.SpeedAdvantage || a.WarpAdvantage || a.CanEscape {
		t.Errorf("expected speed advantage only, got %+v", a)
	}
}

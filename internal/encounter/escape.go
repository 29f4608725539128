/*
Package encounter
File: escape.go
Description:
    Escape resolution. A player gets away only by out-running AND out-warping
    every hostile ship. Nothing here mutates state.
*/

package encounter

import (
	"fmt"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

// Blocking factors named when an escape fails.
const (
	ReasonSpeed     = "speed"
	ReasonWarpDrive = "warp drive"
)

// EscapeResult is the outcome of a flee attempt.
type EscapeResult struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Interceptor *game.Combatant `json:"interceptor,omitempty"`
	Reason      string          `json:"reason,omitempty"` // "speed" or "warp drive"
}

// AttemptEscape stops at the first hostile (fleet order) that matches or beats
// the player on speed or warp drive.
func AttemptEscape(ship *game.PlayerShip, fleet []game.Combatant) EscapeResult {
	if len(fleet) == 0 {
		return EscapeResult{Success: true, Message: "No pirates to escape from."}
	}
	for i := range fleet {
		h := fleet[i]
		fasterSpeed := ship.Speed > h.Speed
		fasterWarp := ship.WarpDrive > h.WarpDrive
		if fasterSpeed && fasterWarp {
			continue
		}
		reason := ReasonWarpDrive
		if !fasterSpeed {
			reason = ReasonSpeed
		}
		return EscapeResult{
			Success:     false,
			Message:     fmt.Sprintf("%s intercepts you! Their superior %s prevents your escape.", h.Name, reason),
			Interceptor: &h,
			Reason:      reason,
		}
	}
	return EscapeResult{Success: true, Message: "Your ship's superior speed and warp capabilities allow you to escape!"}
}

// EscapeAnalysis compares the player against the fleet's best stats. Display only.
type EscapeAnalysis struct {
	YourSpeed      int  `json:"your_speed"`
	TheirMaxSpeed  int  `json:"their_max_speed"`
	SpeedAdvantage bool `json:"speed_advantage"`
	YourWarp       int  `json:"your_warp"`
	TheirMaxWarp   int  `json:"their_max_warp"`
	WarpAdvantage  bool `json:"warp_advantage"`
	CanEscape      bool `json:"can_escape"`
}

// AnalyzeEscape summarizes the speed and warp matchup against the fleet maxima.
func AnalyzeEscape(ship *game.PlayerShip, fleet []game.Combatant) EscapeAnalysis {
	maxSpeed, maxWarp := 0, 0
	for _, h := range fleet {
		maxSpeed = max(maxSpeed, h.Speed)
		maxWarp = max(maxWarp, h.WarpDrive)
	}
	a := EscapeAnalysis{
		YourSpeed:     ship.Speed,
		TheirMaxSpeed: maxSpeed,
		YourWarp:      ship.WarpDrive,
		TheirMaxWarp:  maxWarp,
	}
	a.SpeedAdvantage = ship.Speed > maxSpeed
	a.WarpAdvantage = ship.WarpDrive > maxWarp
	a.CanEscape = a.SpeedAdvantage && a.WarpAdvantage
	return a
}

// EscapeChance is the coarse percentage shown before a decision:
// 100 with both advantages, 50 with one, 0 with none.
func EscapeChance(ship *game.PlayerShip, fleet []game.Combatant) int {
	a := AnalyzeEscape(ship, fleet)
	switch {
	case a.SpeedAdvantage && a.WarpAdvantage:
		return 100
	case a.SpeedAdvantage || a.WarpAdvantage:
		return 50
	default:
		return 0
	}
}

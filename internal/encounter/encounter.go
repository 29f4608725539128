/*
Package encounter
File: encounter.go
Description:
    The records the orchestrator persists and returns, plus the ports it
    talks to (Repository for storage, Notifier for real-time push).
*/

package encounter

import (
	"context"
	"errors"
	"time"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

var (
	// ErrEncounterNotFound is returned for unknown encounters and for
	// encounters owned by another player.
	ErrEncounterNotFound = errors.New("encounter not found")

	// ErrPlayerNotFound is returned when the player does not exist.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrEncounterExpired is returned by SaveOutcome when the sweeper closed
	// the encounter after it was loaded. Nothing is written.
	ErrEncounterExpired = errors.New("encounter expired")
)

// Outcome tags an encounter result.
type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeVictory     Outcome = "victory"
	OutcomeDefeat      Outcome = "defeat"
	OutcomeDraw        Outcome = "draw"
	OutcomeEscaped     Outcome = "escaped"
	OutcomeIntercepted Outcome = "intercepted"
	OutcomeSurrendered Outcome = "surrendered"
)

// Encounter lifecycle.
const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusExpired  = "expired"
)

// Decision is the player's choice when pirates show up.
type Decision string

const (
	DecisionFight     Decision = "fight"
	DecisionFlee      Decision = "flee"
	DecisionSurrender Decision = "surrender"
)

// Encounter is one pirate ambush from spawn to resolution.
type Encounter struct {
	ID              string           `json:"id"`
	PlayerID        int64            `json:"player_id"`
	CaptainKey      string           `json:"captain_key"`
	Tier            int              `json:"tier"`
	Status          string           `json:"status"`
	Outcome         Outcome          `json:"outcome"`
	EscapeAttempted bool             `json:"escape_attempted"`
	SalvageClaimed  bool             `json:"salvage_claimed"`
	Fleet           []game.Combatant `json:"fleet"`
	Salvage         *SalvageSummary  `json:"salvage,omitempty"`
	Log             EventLog         `json:"log"`
	CreatedAt       time.Time        `json:"created_at"`
	ResolvedAt      time.Time        `json:"resolved_at,omitzero"`
}

// Spawn describes the ambush to generate.
type Spawn struct {
	CaptainKey string `json:"captain"` // Empty picks a random captain
	Tier       int    `json:"tier"`
	FleetSize  int    `json:"fleet_size"`
}

// ShipSummary is the public view of a hostile ship.
type ShipSummary struct {
	Name    string `json:"name"`
	Class   string `json:"class"`
	Hull    int    `json:"hull"`
	MaxHull int    `json:"max_hull"`
	Weapons int    `json:"weapons"`
}

// Briefing is what the player sees before deciding.
type Briefing struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message,omitempty"`
	EncounterID  string         `json:"encounter_id,omitempty"`
	CaptainName  string         `json:"captain_name,omitempty"`
	CaptainTitle string         `json:"captain_title,omitempty"`
	FactionName  string         `json:"faction_name,omitempty"`
	Tier         int            `json:"difficulty_tier"`
	FleetSize    int            `json:"fleet_size"`
	Fleet        []ShipSummary  `json:"fleet"`
	Preview      CombatPreview  `json:"preview"`
	Escape       EscapeAnalysis `json:"escape_analysis"`
	EscapeChance int            `json:"escape_chance"`
}

// Result is the structured outcome of a decision.
type Result struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message,omitempty"`
	EncounterID   string           `json:"encounter_id,omitempty"`
	Outcome       Outcome          `json:"outcome"`
	Events        EventLog         `json:"events"`
	HullRemaining int              `json:"hull_remaining"`
	Rounds        int              `json:"rounds"`
	XPEarned      int              `json:"xp_earned,omitempty"`
	Level         int              `json:"level,omitempty"`
	LevelUp       bool             `json:"level_up,omitempty"`
	Escape        *EscapeResult    `json:"escape,omitempty"`
	Surrender     *SurrenderResult `json:"surrender,omitempty"`
	Salvage       *SalvageSummary  `json:"salvage,omitempty"`
	Death         *DeathReport     `json:"death,omitempty"`
}

// RepairResult is the outcome of a hull repair.
type RepairResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	HullRestored int    `json:"hull_restored"`
	Cost         int    `json:"cost"`
	Needed       int    `json:"credits_needed,omitempty"`
	Available    int    `json:"credits_available,omitempty"`
	Hull         int    `json:"hull"`
	MaxHull      int    `json:"max_hull"`
}

// Repository is the persistence port. Implementations must return
// ErrPlayerNotFound / ErrEncounterNotFound for missing rows.
type Repository interface {
	CreatePlayer(ctx context.Context, p *game.Player) error
	LoadPlayer(ctx context.Context, id int64) (*game.Player, error)
	SavePlayer(ctx context.Context, p *game.Player) error

	CreateEncounter(ctx context.Context, e *Encounter) error
	LoadEncounter(ctx context.Context, id string) (*Encounter, error)
	// PendingEncounter returns the player's unresolved encounter or nil.
	PendingEncounter(ctx context.Context, playerID int64) (*Encounter, error)
	// SaveOutcome writes the player and the encounter atomically.
	SaveOutcome(ctx context.Context, p *game.Player, e *Encounter) error
	// ExpireEncounters marks pending encounters created before cutoff as expired.
	ExpireEncounters(ctx context.Context, cutoff time.Time) (int, error)
}

// Notifier receives every resolved decision, e.g. for websocket push.
type Notifier interface {
	Notify(playerID int64, kind string, payload any)
}

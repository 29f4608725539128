/*
Package encounter
File: engine.go
Description:
    The Encounter Orchestrator.

    Engine composes the resolvers per player decision. Every call for one
    player runs under that player's mutex, so two requests can never race on
    the same ship and cargo. Resolution itself is pure and in-memory; the
    Repository write happens afterwards as one atomic step.
*/

package encounter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

// Notification kinds pushed through the Notifier.
const (
	NotifyEncounterStarted  = "encounter_started"
	NotifyEncounterResolved = "encounter_resolved"
	NotifySalvageClaimed    = "salvage_claimed"
)

// MaxFleetSize caps a single ambush.
const MaxFleetSize = 12

// Engine is safe for concurrent use.
type Engine struct {
	repo     Repository
	rngs     *rng.Factory
	notifier Notifier
	now      func() time.Time
	universe atomic.Pointer[game.Universe]

	mu    sync.Mutex
	locks map[int64]*sync.Mutex // One lock per player
}

// Option tweaks an Engine.
type Option func(*Engine)

// WithNotifier sets the push target for resolved encounters.
func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine wires the orchestrator.
func NewEngine(repo Repository, u *game.Universe, rngs *rng.Factory, opts ...Option) *Engine {
	e := &Engine{
		repo:  repo,
		rngs:  rngs,
		now:   time.Now,
		locks: make(map[int64]*sync.Mutex),
	}
	e.universe.Store(u)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Universe returns the catalog currently in use.
func (e *Engine) Universe() *game.Universe { return e.universe.Load() }

// SetUniverse swaps the catalog. In-flight calls finish on the old one.
func (e *Engine) SetUniverse(u *game.Universe) { e.universe.Store(u) }

func (e *Engine) lockPlayer(id int64) func() {
	e.mu.Lock()
	m, ok := e.locks[id]
	if !ok {
		m = &sync.Mutex{}
		e.locks[id] = m
	}
	e.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func (e *Engine) notify(playerID int64, kind string, payload any) {
	if e.notifier != nil {
		e.notifier.Notify(playerID, kind, payload)
	}
}

// SpawnPlayer creates a player with the starter ship and starting credits.
func (e *Engine) SpawnPlayer(ctx context.Context, name, shipName string) (*game.Player, error) {
	u := e.Universe()
	tpl := u.GetTemplate(u.BalanceConfig.StarterTemplate)
	if tpl == nil {
		fb := u.FallbackTemplate()
		tpl = &fb
	}
	if shipName == "" {
		shipName = name + "'s " + tpl.Name
	}
	p := &game.Player{
		Name:    name,
		Credits: u.BalanceConfig.StartingCredits,
		Level:   1,
		LastHub: u.BalanceConfig.StartingHub,
		Ship:    game.NewShipFromTemplate(*tpl, shipName),
	}
	if err := e.repo.CreatePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return p, nil
}

// Player loads a player.
func (e *Engine) Player(ctx context.Context, id int64) (*game.Player, error) {
	return e.repo.LoadPlayer(ctx, id)
}

// Encounter loads an encounter owned by playerID.
func (e *Engine) Encounter(ctx context.Context, playerID int64, id string) (*Encounter, error) {
	enc, err := e.repo.LoadEncounter(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.PlayerID != playerID {
		return nil, ErrEncounterNotFound
	}
	return enc, nil
}

// Begin spawns a pirate fleet for the player. A player with a pending
// encounter gets that one back instead of a second ambush.
func (e *Engine) Begin(ctx context.Context, playerID int64, spawn Spawn) (*Briefing, error) {
	unlock := e.lockPlayer(playerID)
	defer unlock()

	u := e.Universe()
	player, err := e.repo.LoadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Ship == nil || player.Ship.Status != game.StatusActive {
		return &Briefing{Success: false, Message: "You have no active ship."}, nil
	}

	// 1. Reuse a pending ambush
	pending, err := e.repo.PendingEncounter(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("pending encounter: %w", err)
	}
	if pending != nil {
		return e.brief(u, player, pending), nil
	}

	// 2. Validate the request
	if spawn.FleetSize < 1 || spawn.FleetSize > MaxFleetSize {
		return &Briefing{Success: false, Message: fmt.Sprintf("fleet size must be between 1 and %d, got %d", MaxFleetSize, spawn.FleetSize)}, nil
	}
	src := e.rngs.Next()
	captain, ok := pickCaptain(src, u, spawn.CaptainKey)
	if !ok {
		return &Briefing{Success: false, Message: fmt.Sprintf("unknown captain %q", spawn.CaptainKey)}, nil
	}

	// 3. Generate and store
	tier := game.NormalizeTier(spawn.Tier)
	enc := &Encounter{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		CaptainKey: captain.Key,
		Tier:       tier,
		Status:     StatusPending,
		Fleet:      NewFleetGenerator(u).Generate(src, tier, captain.Key, spawn.FleetSize),
		CreatedAt:  e.now(),
	}
	if err := e.repo.CreateEncounter(ctx, enc); err != nil {
		return nil, fmt.Errorf("create encounter: %w", err)
	}
	log.Printf("ENCOUNTER: player %d ambushed by %s (tier %d, %d ships)", playerID, captain.FullName(), tier, len(enc.Fleet))

	b := e.brief(u, player, enc)
	e.notify(playerID, NotifyEncounterStarted, b)
	return b, nil
}

func pickCaptain(src rng.Source, u *game.Universe, key string) (game.Captain, bool) {
	if key != "" {
		c := u.GetCaptain(key)
		if c == nil {
			return game.Captain{}, false
		}
		return *c, true
	}
	if len(u.Captains) == 0 {
		return game.Captain{Key: "unknown", Title: "Captain", FirstName: "Unknown", LastName: "Raider", Faction: "Independent"}, true
	}
	return u.Captains[src.IntN(len(u.Captains))], true
}

func (e *Engine) brief(u *game.Universe, player *game.Player, enc *Encounter) *Briefing {
	b := &Briefing{
		Success:      true,
		EncounterID:  enc.ID,
		Tier:         enc.Tier,
		FleetSize:    len(enc.Fleet),
		Preview:      Preview(player.Ship, enc.Fleet),
		Escape:       AnalyzeEscape(player.Ship, enc.Fleet),
		EscapeChance: EscapeChance(player.Ship, enc.Fleet),
	}
	if c := u.GetCaptain(enc.CaptainKey); c != nil {
		b.CaptainName = c.FirstName + " " + c.LastName
		b.CaptainTitle = c.Title
		b.FactionName = c.Faction
	}
	for _, h := range enc.Fleet {
		b.Fleet = append(b.Fleet, ShipSummary{Name: h.Name, Class: h.Class, Hull: h.Hull, MaxHull: h.MaxHull, Weapons: h.Weapons})
	}
	return b
}

// Resolve applies the player's decision to a pending encounter.
func (e *Engine) Resolve(ctx context.Context, playerID int64, encounterID string, d Decision) (*Result, error) {
	unlock := e.lockPlayer(playerID)
	defer unlock()

	switch d {
	case DecisionFight, DecisionFlee, DecisionSurrender:
	default:
		return &Result{Success: false, Message: fmt.Sprintf("unknown decision %q", d)}, nil
	}

	// 1. Load and check state
	enc, err := e.Encounter(ctx, playerID, encounterID)
	if err != nil {
		return nil, err
	}
	if enc.Status != StatusPending {
		return &Result{Success: false, EncounterID: enc.ID, Outcome: enc.Outcome, Message: "This encounter is already over."}, nil
	}
	if d == DecisionFlee && enc.EscapeAttempted {
		return &Result{Success: false, EncounterID: enc.ID, Outcome: enc.Outcome, Message: "They already caught you. Fight or surrender."}, nil
	}
	player, err := e.repo.LoadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Ship == nil || player.Ship.Status != game.StatusActive {
		return &Result{Success: false, EncounterID: enc.ID, Message: "You have no active ship."}, nil
	}

	// 2. Resolve in memory
	u := e.Universe()
	src := e.rngs.Next()
	var res *Result
	switch d {
	case DecisionFlee:
		res = e.flee(player, enc)
	case DecisionFight:
		res = e.fight(src, u, player, enc)
	case DecisionSurrender:
		res = e.surrender(src, u, player, enc)
	}
	res.Success = true
	res.EncounterID = enc.ID
	enc.Outcome = res.Outcome
	enc.Log = append(enc.Log, res.Events...)
	if enc.Status == StatusResolved {
		enc.ResolvedAt = e.now()
	}

	// 3. Persist
	if err := e.repo.SaveOutcome(ctx, player, enc); err != nil {
		if errors.Is(err, ErrEncounterExpired) {
			return &Result{Success: false, EncounterID: enc.ID, Message: "This encounter has expired."}, nil
		}
		return nil, fmt.Errorf("save outcome: %w", err)
	}
	log.Printf("ENCOUNTER: player %d chose %s -> %s", playerID, d, res.Outcome)
	e.notify(playerID, NotifyEncounterResolved, res)
	return res, nil
}

func (e *Engine) flee(player *game.Player, enc *Encounter) *Result {
	esc := AttemptEscape(player.Ship, enc.Fleet)
	res := &Result{Escape: &esc, HullRemaining: player.Ship.Hull}
	if esc.Success {
		res.Outcome = OutcomeEscaped
		res.Events.add(0, EventInfo, "%s", esc.Message)
		enc.Status = StatusResolved
		return res
	}
	res.Outcome = OutcomeIntercepted
	res.Events.add(0, EventError, "%s", esc.Message)
	enc.EscapeAttempted = true
	return res
}

func (e *Engine) fight(src rng.Source, u *game.Universe, player *game.Player, enc *Encounter) *Result {
	cr := ResolveCombat(src, player.Ship, enc.Fleet)
	res := &Result{Events: cr.Events, Rounds: cr.Rounds, HullRemaining: cr.HullRemaining}
	enc.Status = StatusResolved

	switch cr.State {
	case StateVictory:
		res.Outcome = OutcomeVictory
		xp := game.CombatXP(enc.Fleet)
		level, up := player.AddExperience(xp)
		res.XPEarned, res.Level, res.LevelUp = xp, level, up
		res.Events.add(cr.Rounds, EventXP, "+%d XP earned!", xp)
		if up {
			res.Events.add(cr.Rounds, EventLevelUp, "LEVEL UP! You are now level %d!", level)
		}
		salvage := OrganizeSalvage(u, CollectSalvage(enc.Fleet))
		if !salvage.Empty() {
			enc.Salvage = &salvage
			res.Salvage = &salvage
		}
	case StateDefeat:
		res.Outcome = OutcomeDefeat
		death := ProcessDeath(u, player)
		res.Death = &death
		res.Events.add(cr.Rounds, EventInfo, "%s", death.Message)
	case StateDraw:
		res.Outcome = OutcomeDraw
	}
	return res
}

func (e *Engine) surrender(src rng.Source, u *game.Universe, player *game.Player, enc *Encounter) *Result {
	captain := "the pirates"
	if c := u.GetCaptain(enc.CaptainKey); c != nil {
		captain = c.FullName()
	}
	tpl := u.GetTemplate(player.Ship.TemplateName)
	if tpl == nil {
		log.Printf("ENCOUNTER: ship template %q missing, surrender floors at current stats", player.Ship.TemplateName)
	}
	sr := ProcessSurrender(src, player, tpl, captain, u.BalanceConfig.SurrenderPenalty)
	enc.Status = StatusResolved
	return &Result{Outcome: OutcomeSurrendered, Surrender: &sr, Events: sr.Events, HullRemaining: player.Ship.Hull}
}

// ClaimSalvage transfers the player's picks from a won encounter. Salvage
// can be claimed once; picks must exist in the wreckage.
func (e *Engine) ClaimSalvage(ctx context.Context, playerID int64, encounterID string, sel Selection) (*TransferResult, error) {
	unlock := e.lockPlayer(playerID)
	defer unlock()

	enc, err := e.Encounter(ctx, playerID, encounterID)
	if err != nil {
		return nil, err
	}
	if enc.Outcome != OutcomeVictory || enc.Salvage.Empty() {
		return &TransferResult{Success: false, Message: "No salvage available."}, nil
	}
	if enc.SalvageClaimed {
		return &TransferResult{Success: false, Message: "Salvage already claimed."}, nil
	}
	if err := sel.Validate(); err != nil {
		return &TransferResult{Success: false, Message: err.Error()}, nil
	}
	if err := checkAvailable(enc.Salvage, sel); err != nil {
		return &TransferResult{Success: false, Message: err.Error()}, nil
	}

	player, err := e.repo.LoadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Ship == nil || player.Ship.Status != game.StatusActive {
		return &TransferResult{Success: false, Message: "You have no active ship."}, nil
	}

	res := TransferSalvage(player, sel, e.now())
	enc.SalvageClaimed = true
	if err := e.repo.SaveOutcome(ctx, player, enc); err != nil {
		return nil, fmt.Errorf("save salvage: %w", err)
	}
	e.notify(playerID, NotifySalvageClaimed, res)
	return &res, nil
}

// checkAvailable rejects picks that are not in the wreckage, including
// quantities above what was recovered.
func checkAvailable(s *SalvageSummary, sel Selection) error {
	minerals := make(map[string]int, len(s.Minerals))
	for _, m := range s.Minerals {
		minerals[m.MineralKey] = m.Quantity
	}
	for _, pick := range sel.Minerals {
		left, ok := minerals[pick.MineralKey]
		if !ok {
			return fmt.Errorf("mineral %q is not in the salvage", pick.MineralKey)
		}
		if pick.Quantity > left {
			return fmt.Errorf("only %d units of %q were recovered", left, pick.MineralKey)
		}
		minerals[pick.MineralKey] = left - pick.Quantity
	}
	plans := make(map[string]int, len(s.Plans))
	for _, p := range s.Plans {
		plans[p.PlanKey]++
	}
	for _, key := range sel.PlanKeys {
		if plans[key] == 0 {
			return fmt.Errorf("plan %q is not in the salvage", key)
		}
		plans[key]--
	}
	return nil
}

// CheckSalvageSpace reports space needed vs available for a selection.
func (e *Engine) CheckSalvageSpace(ctx context.Context, playerID int64, sel Selection) (SpaceCheck, error) {
	player, err := e.repo.LoadPlayer(ctx, playerID)
	if err != nil {
		return SpaceCheck{}, err
	}
	if player.Ship == nil {
		return SpaceCheck{Message: "You have no active ship."}, nil
	}
	if err := sel.Validate(); err != nil {
		return SpaceCheck{Message: err.Error()}, nil
	}
	return CheckSpace(player.Ship, sel), nil
}

// Repair restores the ship to full hull if the player can pay for it.
func (e *Engine) Repair(ctx context.Context, playerID int64) (*RepairResult, error) {
	unlock := e.lockPlayer(playerID)
	defer unlock()

	player, err := e.repo.LoadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	ship := player.Ship
	if ship == nil || ship.Status != game.StatusActive {
		return &RepairResult{Success: false, Message: "You have no active ship."}, nil
	}
	missing, cost := e.Universe().RepairQuote(ship)
	if missing == 0 {
		return &RepairResult{Success: true, Message: "Hull already at full strength.", Hull: ship.Hull, MaxHull: ship.MaxHull}, nil
	}
	if err := player.DeductCredits(cost); err != nil {
		var ice *game.InsufficientCreditsError
		if errors.As(err, &ice) {
			return &RepairResult{
				Success: false, Message: "Not enough credits for repairs.",
				Cost: cost, Needed: ice.Needed, Available: ice.Available,
				Hull: ship.Hull, MaxHull: ship.MaxHull,
			}, nil
		}
		return nil, err
	}
	restored := ship.Repair(missing)
	if err := e.repo.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("save repair: %w", err)
	}
	return &RepairResult{
		Success: true, Message: fmt.Sprintf("Repaired %d hull for %d credits.", restored, cost),
		HullRestored: restored, Cost: cost, Hull: ship.Hull, MaxHull: ship.MaxHull,
	}, nil
}

// ExpireStale closes pending encounters older than ttl.
func (e *Engine) ExpireStale(ctx context.Context, ttl time.Duration) (int, error) {
	return e.repo.ExpireEncounters(ctx, e.now().Add(-ttl))
}

/*
Package store
File: store.go
Description:
    SQLite persistence for players, their ships and cargo, and encounters.
    Implements encounter.Repository.

    Fleet, salvage and combat logs are stored as msgpack blobs on the
    encounter row; the player side is fully relational so hub tools can
    query it.
*/

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/everforgeworks/galaxies-pirates/internal/encounter"
	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file. Call Migrate before use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer at a time; pragmas below then stick to the only connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return &Store{db: db}, nil
}

// Migrate applies the embedded goose migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- players ---

func (s *Store) CreatePlayer(ctx context.Context, p *game.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO players (name, credits, experience, level, last_hub) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Credits, p.Experience, p.Level, p.LastHub)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	if p.Ship != nil {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO player_ships (player_id, template_name, class, name, status, hull, max_hull,
			 weapons, sensors, warp_drive, speed, cargo_hold, current_cargo)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Ship.TemplateName, p.Ship.Class, p.Ship.Name, p.Ship.Status, p.Ship.Hull, p.Ship.MaxHull,
			p.Ship.Weapons, p.Ship.Sensors, p.Ship.WarpDrive, p.Ship.Speed, p.Ship.CargoHold, p.Ship.CurrentCargo)
		if err != nil {
			return fmt.Errorf("insert ship: %w", err)
		}
		if p.Ship.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		if err := writeCargo(ctx, tx, p.Ship); err != nil {
			return err
		}
	}
	if err := writePlans(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) LoadPlayer(ctx context.Context, id int64) (*game.Player, error) {
	p := &game.Player{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, credits, experience, level, last_hub FROM players WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Credits, &p.Experience, &p.Level, &p.LastHub)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, encounter.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load player %d: %w", id, err)
	}

	// 1. Ship
	ship := &game.PlayerShip{}
	err = s.db.QueryRowContext(ctx,
		`SELECT id, template_name, class, name, status, hull, max_hull, weapons, sensors, warp_drive,
		 speed, cargo_hold, current_cargo FROM player_ships WHERE player_id = ?`, id).
		Scan(&ship.ID, &ship.TemplateName, &ship.Class, &ship.Name, &ship.Status, &ship.Hull, &ship.MaxHull,
			&ship.Weapons, &ship.Sensors, &ship.WarpDrive, &ship.Speed, &ship.CargoHold, &ship.CurrentCargo)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		ship = nil
	case err != nil:
		return nil, fmt.Errorf("load ship for player %d: %w", id, err)
	}

	// 2. Cargo, in insertion order
	if ship != nil {
		rows, err := s.db.QueryContext(ctx,
			`SELECT mineral_key, plan_key, quantity FROM player_cargo WHERE ship_id = ? ORDER BY id`, ship.ID)
		if err != nil {
			return nil, fmt.Errorf("load cargo: %w", err)
		}
		for rows.Next() {
			var it game.CargoItem
			if err := rows.Scan(&it.MineralKey, &it.PlanKey, &it.Quantity); err != nil {
				rows.Close()
				return nil, err
			}
			ship.Cargo = append(ship.Cargo, it)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		p.Ship = ship
	}

	// 3. Plans
	rows, err := s.db.QueryContext(ctx,
		`SELECT plan_key, acquired_at FROM player_plans WHERE player_id = ? ORDER BY acquired_at, plan_key`, id)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var op game.OwnedPlan
		var at int64
		if err := rows.Scan(&op.Key, &at); err != nil {
			return nil, err
		}
		op.AcquiredAt = fromUnix(at)
		p.Plans = append(p.Plans, op)
	}
	return p, rows.Err()
}

func (s *Store) SavePlayer(ctx context.Context, p *game.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := savePlayer(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func savePlayer(ctx context.Context, tx *sql.Tx, p *game.Player) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE players SET name = ?, credits = ?, experience = ?, level = ?, last_hub = ? WHERE id = ?`,
		p.Name, p.Credits, p.Experience, p.Level, p.LastHub, p.ID)
	if err != nil {
		return fmt.Errorf("update player %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return encounter.ErrPlayerNotFound
	}

	if s := p.Ship; s != nil {
		_, err := tx.ExecContext(ctx,
			`UPDATE player_ships SET template_name = ?, class = ?, name = ?, status = ?, hull = ?, max_hull = ?,
			 weapons = ?, sensors = ?, warp_drive = ?, speed = ?, cargo_hold = ?, current_cargo = ?
			 WHERE id = ? AND player_id = ?`,
			s.TemplateName, s.Class, s.Name, s.Status, s.Hull, s.MaxHull,
			s.Weapons, s.Sensors, s.WarpDrive, s.Speed, s.CargoHold, s.CurrentCargo, s.ID, p.ID)
		if err != nil {
			return fmt.Errorf("update ship %d: %w", s.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM player_cargo WHERE ship_id = ?`, s.ID); err != nil {
			return fmt.Errorf("clear cargo: %w", err)
		}
		if err := writeCargo(ctx, tx, s); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_plans WHERE player_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear plans: %w", err)
	}
	return writePlans(ctx, tx, p)
}

func writeCargo(ctx context.Context, tx *sql.Tx, s *game.PlayerShip) error {
	for _, it := range s.Cargo {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_cargo (ship_id, mineral_key, plan_key, quantity) VALUES (?, ?, ?, ?)`,
			s.ID, it.MineralKey, it.PlanKey, it.Quantity); err != nil {
			return fmt.Errorf("insert cargo: %w", err)
		}
	}
	return nil
}

func writePlans(ctx context.Context, tx *sql.Tx, p *game.Player) error {
	for _, op := range p.Plans {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_plans (player_id, plan_key, acquired_at) VALUES (?, ?, ?)`,
			p.ID, op.Key, toUnix(op.AcquiredAt)); err != nil {
			return fmt.Errorf("insert plan %s: %w", op.Key, err)
		}
	}
	return nil
}

// --- encounters ---

const encounterColumns = `id, player_id, captain_key, tier, status, outcome, escape_attempted,
	salvage_claimed, fleet, salvage, log, created_at, resolved_at`

func (s *Store) CreateEncounter(ctx context.Context, e *encounter.Encounter) error {
	fleet, salvage, events, err := encodeBlobs(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO encounters (`+encounterColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PlayerID, e.CaptainKey, e.Tier, e.Status, string(e.Outcome), e.EscapeAttempted,
		e.SalvageClaimed, fleet, salvage, events, toUnix(e.CreatedAt), nullableUnix(e.ResolvedAt))
	if err != nil {
		return fmt.Errorf("insert encounter: %w", err)
	}
	return nil
}

func (s *Store) LoadEncounter(ctx context.Context, id string) (*encounter.Encounter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+encounterColumns+` FROM encounters WHERE id = ?`, id)
	e, err := scanEncounter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, encounter.ErrEncounterNotFound
	}
	return e, err
}

func (s *Store) PendingEncounter(ctx context.Context, playerID int64) (*encounter.Encounter, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+encounterColumns+` FROM encounters WHERE player_id = ? AND status = ?
		 ORDER BY created_at DESC LIMIT 1`, playerID, encounter.StatusPending)
	e, err := scanEncounter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// ListEncounters returns a player's most recent encounters, newest first.
func (s *Store) ListEncounters(ctx context.Context, playerID int64, limit int) ([]*encounter.Encounter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+encounterColumns+` FROM encounters WHERE player_id = ? ORDER BY created_at DESC LIMIT ?`,
		playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	defer rows.Close()
	var out []*encounter.Encounter
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) SaveOutcome(ctx context.Context, p *game.Player, e *encounter.Encounter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := savePlayer(ctx, tx, p); err != nil {
		return err
	}
	fleet, salvage, events, err := encodeBlobs(e)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE encounters SET status = ?, outcome = ?, escape_attempted = ?, salvage_claimed = ?,
		 fleet = ?, salvage = ?, log = ?, resolved_at = ? WHERE id = ? AND status != ?`,
		e.Status, string(e.Outcome), e.EscapeAttempted, e.SalvageClaimed,
		fleet, salvage, events, nullableUnix(e.ResolvedAt), e.ID, encounter.StatusExpired)
	if err != nil {
		return fmt.Errorf("update encounter %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the row is gone or the sweeper got there first.
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM encounters WHERE id = ?`, e.ID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return encounter.ErrEncounterNotFound
		}
		if err != nil {
			return fmt.Errorf("check encounter %s: %w", e.ID, err)
		}
		return encounter.ErrEncounterExpired
	}
	return tx.Commit()
}

func (s *Store) ExpireEncounters(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE encounters SET status = ? WHERE status = ? AND created_at < ?`,
		encounter.StatusExpired, encounter.StatusPending, toUnix(cutoff))
	if err != nil {
		return 0, fmt.Errorf("expire encounters: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEncounter(row scanner) (*encounter.Encounter, error) {
	var (
		e                      encounter.Encounter
		outcome                string
		fleet, salvage, events []byte
		createdAt              int64
		resolvedAt             sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.PlayerID, &e.CaptainKey, &e.Tier, &e.Status, &outcome, &e.EscapeAttempted,
		&e.SalvageClaimed, &fleet, &salvage, &events, &createdAt, &resolvedAt)
	if err != nil {
		return nil, err
	}
	e.Outcome = encounter.Outcome(outcome)
	e.CreatedAt = fromUnix(createdAt)
	if resolvedAt.Valid {
		e.ResolvedAt = fromUnix(resolvedAt.Int64)
	}

	if err := msgpack.Unmarshal(fleet, &e.Fleet); err != nil {
		return nil, fmt.Errorf("decode fleet for %s: %w", e.ID, err)
	}
	if len(salvage) > 0 {
		e.Salvage = &encounter.SalvageSummary{}
		if err := msgpack.Unmarshal(salvage, e.Salvage); err != nil {
			return nil, fmt.Errorf("decode salvage for %s: %w", e.ID, err)
		}
	}
	if len(events) > 0 {
		if err := msgpack.Unmarshal(events, &e.Log); err != nil {
			return nil, fmt.Errorf("decode log for %s: %w", e.ID, err)
		}
	}
	return &e, nil
}

func encodeBlobs(e *encounter.Encounter) (fleet, salvage, events []byte, err error) {
	if fleet, err = msgpack.Marshal(e.Fleet); err != nil {
		return nil, nil, nil, fmt.Errorf("encode fleet: %w", err)
	}
	if e.Salvage != nil {
		if salvage, err = msgpack.Marshal(e.Salvage); err != nil {
			return nil, nil, nil, fmt.Errorf("encode salvage: %w", err)
		}
	}
	if len(e.Log) > 0 {
		if events, err = msgpack.Marshal(e.Log); err != nil {
			return nil, nil, nil, fmt.Errorf("encode log: %w", err)
		}
	}
	return fleet, salvage, events, nil
}

// Times are stored as unix nanoseconds in UTC.
func toUnix(t time.Time) int64 { return t.UTC().UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toUnix(t), Valid: true}
}

var _ encounter.Repository = (*Store)(nil)

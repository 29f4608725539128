/*
Package main
File: commands.go
Description: CLI subcommands (serve, migrate, simulate, token).
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/everforgeworks/galaxies-pirates/internal/api"
	"github.com/everforgeworks/galaxies-pirates/internal/config"
	"github.com/everforgeworks/galaxies-pirates/internal/encounter"
	"github.com/everforgeworks/galaxies-pirates/internal/render"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP and WebSocket server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (default " + config.Default().Addr + ")"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path"},
			&cli.StringFlag{Name: "universe", Usage: "universe catalog YAML"},
			&cli.Uint64Flag{Name: "seed", Usage: "RNG seed, 0 seeds from the clock"},
			&cli.DurationFlag{Name: "encounter-ttl", Usage: "expire pending encounters after this long"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite database path"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			log.Printf("STORE: %s is up to date", cfg.DBPath)
			return db.Close()
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a player token signed with " + config.EnvJWTSecret,
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "player-id", Required: true},
			&cli.StringFlag{Name: "name", Value: "operator"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			auth := api.NewAuth(cfg.JWTSecret)
			if !auth.Enabled() {
				return errors.New(config.EnvJWTSecret + " is not set")
			}
			token, err := auth.Issue(c.Int64("player-id"), c.String("name"))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}

// simulateCommand plays one encounter in memory and prints the log.
func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Play a single encounter against an in-memory store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "universe", Usage: "universe catalog YAML"},
			&cli.IntFlag{Name: "tier", Value: 1},
			&cli.IntFlag{Name: "fleet-size", Value: 3},
			&cli.StringFlag{Name: "captain", Usage: "captain key, random when empty"},
			&cli.Uint64Flag{Name: "seed", Usage: "RNG seed, 0 seeds from the clock"},
			&cli.StringFlag{Name: "decision", Value: string(encounter.DecisionFight), Usage: "fight, flee or surrender"},
			&cli.StringFlag{Name: "then", Value: string(encounter.DecisionFight), Usage: "follow-up decision if an escape is intercepted"},
			&cli.IntFlag{Name: "weapons", Usage: "override the player's weapons"},
			&cli.IntFlag{Name: "hull", Usage: "override the player's hull (and max hull)"},
			&cli.IntFlag{Name: "speed", Usage: "override the player's speed"},
			&cli.IntFlag{Name: "warp", Usage: "override the player's warp drive"},
		},
		Action: runSimulation,
	}
}

func runSimulation(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	universe, err := loadUniverse(cfg.UniversePath)
	if err != nil {
		return err
	}
	repo := encounter.NewMemoryRepository()
	engine := encounter.NewEngine(repo, universe, rng.NewFactory(cfg.Seed))

	// 1. A pilot with an optionally tuned ship
	p, err := engine.SpawnPlayer(ctx, "Simulator", "")
	if err != nil {
		return err
	}
	if ship := p.Ship; ship != nil {
		if c.IsSet("weapons") {
			ship.Weapons = c.Int("weapons")
		}
		if c.IsSet("hull") {
			ship.Hull, ship.MaxHull = c.Int("hull"), c.Int("hull")
		}
		if c.IsSet("speed") {
			ship.Speed = c.Int("speed")
		}
		if c.IsSet("warp") {
			ship.WarpDrive = c.Int("warp")
		}
		if err := repo.SavePlayer(ctx, p); err != nil {
			return err
		}
	}

	// 2. The ambush
	b, err := engine.Begin(ctx, p.ID, encounter.Spawn{
		CaptainKey: c.String("captain"),
		Tier:       c.Int("tier"),
		FleetSize:  c.Int("fleet-size"),
	})
	if err != nil {
		return err
	}
	fmt.Print(render.Briefing(b))
	if !b.Success {
		return errors.New(b.Message)
	}

	// 3. The decision, plus a follow-up if they were caught
	started := time.Now()
	res, err := engine.Resolve(ctx, p.ID, b.EncounterID, encounter.Decision(c.String("decision")))
	if err != nil {
		return err
	}
	fmt.Print(render.Result(res))
	if res.Outcome == encounter.OutcomeIntercepted {
		res, err = engine.Resolve(ctx, p.ID, b.EncounterID, encounter.Decision(c.String("then")))
		if err != nil {
			return err
		}
		fmt.Print(render.Result(res))
	}
	fmt.Fprintf(os.Stderr, "resolved in %s\n", time.Since(started).Round(time.Microsecond))
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

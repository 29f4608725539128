/*
Package main
File: main.go
Description: Server entry point. Loads the universe catalog, opens the
database, starts the real-time WebSocket hub and runs the background
heartbeat that expires abandoned encounters.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/everforgeworks/galaxies-pirates/internal/api"
	"github.com/everforgeworks/galaxies-pirates/internal/config"
	"github.com/everforgeworks/galaxies-pirates/internal/encounter"
	"github.com/everforgeworks/galaxies-pirates/internal/game"
	"github.com/everforgeworks/galaxies-pirates/internal/rng"
	"github.com/everforgeworks/galaxies-pirates/internal/store"
)

// heartbeat is how often stale encounters are swept.
const heartbeat = 60 * time.Second

func main() {
	root := &cli.Command{
		Name:  "galaxies-pirates",
		Usage: "Pirate encounter server for GALAXIES",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before reading the environment"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			simulateCommand(),
			tokenCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads .env and the environment, then applies any flags set on
// the command line.
func loadConfig(c *cli.Command) (config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("universe") {
		cfg.UniversePath = c.String("universe")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("encounter-ttl") {
		cfg.EncounterTTL = c.Duration("encounter-ttl")
	}
	return cfg, nil
}

// loadUniverse falls back to the built-in catalog when the file is absent.
func loadUniverse(path string) (*game.Universe, error) {
	u, err := game.LoadUniverse(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("GALAXIES: %s not found, using built-in universe", path)
		return game.DefaultUniverse(), nil
	}
	return u, err
}

func openStore(ctx context.Context, path string) (*store.Store, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runServer(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load the universe catalog from YAML
	universe, err := loadUniverse(cfg.UniversePath)
	if err != nil {
		return fmt.Errorf("config fail: %w", err)
	}

	// 2. Open the database and apply migrations
	db, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// 3. Initialize and start the Real-Time WebSocket Hub
	hub := api.NewHub()
	go hub.Run(ctx)

	engine := encounter.NewEngine(db, universe, rng.NewFactory(cfg.Seed), encounter.WithNotifier(hub))
	auth := api.NewAuth(cfg.JWTSecret)
	if !auth.Enabled() {
		log.Printf("GALAXIES: %s is empty, player routes are unauthenticated", config.EnvJWTSecret)
	}

	// 4. THE HEARTBEAT
	// Expires encounters nobody came back to resolve.
	go func() {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := engine.ExpireStale(ctx, cfg.EncounterTTL)
				if err != nil {
					log.Printf("Heartbeat: expire failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("Heartbeat: expired %d stale encounters", n)
				}
			}
		}
	}()

	// 5. Hot-reload logic: Listen for SIGHUP to refresh the universe without restart
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
				log.Println("SIGNAL: Reloading Universe...")
				u, err := loadUniverse(cfg.UniversePath)
				if err != nil {
					log.Printf("SIGNAL: reload failed, keeping current universe: %v", err)
					continue
				}
				engine.SetUniverse(u)
				hub.Broadcast(api.KindUniverseReloaded, map[string]int{
					"ship_templates": len(u.ShipTemplates),
					"captains":       len(u.Captains),
				})
			}
		}
	}()

	// 6. Start the Server
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(engine, auth, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("GALAXIES: Pirate encounter server live on %s", cfg.Addr)
		log.Printf("Real-time Hub: Online")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Println("GALAXIES: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

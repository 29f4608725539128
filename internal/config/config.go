/*
Package config
File: config.go
Description:
    Process settings, read from the environment. A '.env' file next to the
    binary is loaded first when present; real environment variables win
    over it. CLI flags override both (see main.go).
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAddr         = "BURNRATE_ADDR"
	EnvDB           = "BURNRATE_DB"
	EnvUniverse     = "BURNRATE_UNIVERSE"
	EnvJWTSecret    = "BURNRATE_JWT_SECRET"
	EnvSeed         = "BURNRATE_SEED"
	EnvEncounterTTL = "BURNRATE_ENCOUNTER_TTL" // Minutes
)

// Config holds everything the server needs to start.
type Config struct {
	Addr         string        // Listen address (e.g., ":8081")
	DBPath       string        // SQLite file
	UniversePath string        // Catalog YAML
	JWTSecret    string        // HS256 signing key; empty disables auth
	Seed         uint64        // RNG seed; 0 seeds from the clock
	EncounterTTL time.Duration // Pending encounters older than this expire
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:         ":8081",
		DBPath:       "burnrate.db",
		UniversePath: "universe.yaml",
		EncounterTTL: 30 * time.Minute,
	}
}

// Load reads envFile (if it exists) into the environment and then builds a
// Config from it.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, falling back to Default
// for unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Default()
	if v := getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := getenv(EnvUniverse); v != "" {
		c.UniversePath = v
	}
	c.JWTSecret = getenv(EnvJWTSecret)

	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s value %q: %w", EnvSeed, v, err)
		}
		c.Seed = seed
	}
	if v := getenv(EnvEncounterTTL); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return Config{}, fmt.Errorf("invalid %s value %q: want a positive number of minutes", EnvEncounterTTL, v)
		}
		c.EncounterTTL = time.Duration(mins) * time.Minute
	}
	return c, nil
}

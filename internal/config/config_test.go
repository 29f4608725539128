package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != Default() {
		t.Errorf("expected defaults, got %+v", c)
	}
	if c.Addr != ":8081" || c.EncounterTTL != 30*time.Minute {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		EnvAddr:         ":9000",
		EnvDB:           "/tmp/x.db",
		EnvUniverse:     "cat.yaml",
		EnvJWTSecret:    "s3cret",
		EnvSeed:         "42",
		EnvEncounterTTL: "5",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Config{Addr: ":9000", DBPath: "/tmp/x.db", UniversePath: "cat.yaml", JWTSecret: "s3cret", Seed: 42, EncounterTTL: 5 * time.Minute}
	if c != want {
		t.Errorf("expected %+v, got %+v", want, c)
	}
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	if _, err := FromEnv(env(map[string]string{EnvSeed: "-1"})); err == nil {
		t.Error("expected negative seed to fail")
	}
	if _, err := FromEnv(env(map[string]string{EnvEncounterTTL: "0"})); err == nil {
		t.Error("expected zero ttl to fail")
	}
	if _, err := FromEnv(env(map[string]string{EnvEncounterTTL: "soon"})); err == nil {
		t.Error("expected non-numeric ttl to fail")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BURNRATE_DB=from-file.db\nBURNRATE_ADDR=:7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Real environment wins over the file.
	t.Setenv(EnvAddr, ":6000")
	t.Setenv(EnvDB, "")
	os.Unsetenv(EnvDB)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DBPath != "from-file.db" {
		t.Errorf("expected db from file, got %q", c.DBPath)
	}
	if c.Addr != ":6000" {
		t.Errorf("expected env addr to win, got %q", c.Addr)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}

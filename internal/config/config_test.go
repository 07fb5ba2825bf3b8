package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLeaguesFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "leagues.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write leagues file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEAGUES_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected app env: %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTPAddr)
	}
	if cfg.MaxTourCount != 3 {
		t.Fatalf("unexpected max tour count: %d", cfg.MaxTourCount)
	}
	if cfg.PipelineInterval != time.Hour {
		t.Fatalf("unexpected pipeline interval: %s", cfg.PipelineInterval)
	}
	if len(cfg.Leagues) != 0 {
		t.Fatalf("a missing leagues file must yield no leagues, got %+v", cfg.Leagues)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for invalid APP_ENV")
	}
}

func TestLoad_TelegramTokenRequired(t *testing.T) {
	t.Setenv("LEAGUES_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TELEGRAM_ENABLED", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when telegram is enabled without a token")
	}
}

func TestLoadLeagues(t *testing.T) {
	t.Parallel()

	path := writeLeaguesFile(t, `
leagues:
  - id: epl
    name: Premier League
    season: "2026"
    feed_code: premier-league
  - id: laliga
    name: La Liga
    season: "2026"
`)

	leagues, err := LoadLeagues(path)
	if err != nil {
		t.Fatalf("LoadLeagues error: %v", err)
	}
	if len(leagues) != 2 {
		t.Fatalf("expected 2 leagues, got=%d", len(leagues))
	}
	if leagues[0].FeedCode != "premier-league" {
		t.Fatalf("unexpected feed code: %q", leagues[0].FeedCode)
	}
}

func TestLoadLeagues_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	path := writeLeaguesFile(t, `
leagues:
  - id: epl
    name: Premier League
    season: "2026"
  - id: epl
    name: Premier League Again
    season: "2026"
`)

	if _, err := LoadLeagues(path); err == nil {
		t.Fatal("expected an error for duplicate league ids")
	}
}

func TestLoadLeagues_RejectsInvalidLeague(t *testing.T) {
	t.Parallel()

	path := writeLeaguesFile(t, `
leagues:
  - id: epl
    season: "2026"
`)

	if _, err := LoadLeagues(path); err == nil {
		t.Fatal("expected an error for a league without a name")
	}
}

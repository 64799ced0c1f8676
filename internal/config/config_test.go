package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":3000" || cfg.Dev || cfg.MovesDB != "" || cfg.SnapshotDir != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Origins) != 1 || cfg.Origins[0] != "http://localhost:5173" {
		t.Fatalf("got origins %v", cfg.Origins)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{
		"-addr", "127.0.0.1:8080",
		"-dev",
		"-origins", "http://a.test, http://b.test",
		"-moves-db", "/tmp/moves.db",
		"-snapshots", "/tmp/snaps",
		"-match-interval", "250ms",
		"-clock", "5m",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "127.0.0.1:8080" || !cfg.Dev {
		t.Fatalf("got %+v", cfg)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.test" {
		t.Fatalf("got origins %v", cfg.Origins)
	}
	if cfg.MovesDB != "/tmp/moves.db" || cfg.SnapshotDir != "/tmp/snaps" {
		t.Fatalf("got storage paths %q %q", cfg.MovesDB, cfg.SnapshotDir)
	}
	if cfg.MatchInterval != 250*time.Millisecond || cfg.InitialClock != 5*time.Minute {
		t.Fatalf("got durations %v %v", cfg.MatchInterval, cfg.InitialClock)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := [][]string{
		{"-clock", "0s"},
		{"-origins", " , "},
		{"-bogus"},
		{"stray"},
	}
	for _, args := range tests {
		if _, err := Load(args); err == nil {
			t.Fatalf("Load(%v) should fail", args)
		}
	}
}

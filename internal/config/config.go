package config

import (
	"errors"
	"flag"
	"strings"
	"time"
)

type Config struct {
	Addr          string
	Origins       []string
	Dev           bool
	MovesDB       string // sqlite file for the move log; empty disables it
	SnapshotDir   string // badger directory; empty disables snapshots
	MatchInterval time.Duration
	InitialClock  time.Duration
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		Origins:       []string{"http://localhost:5173"},
		MatchInterval: time.Second,
		InitialClock:  10 * time.Minute,
	}
}

// Load parses server flags from args (without the program name).
func Load(args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	origins := fs.String("origins", strings.Join(cfg.Origins, ","), "Comma separated CORS and websocket origins")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "Development mode (relaxed rate limits)")
	fs.StringVar(&cfg.MovesDB, "moves-db", cfg.MovesDB, "Path to SQLite move log (disabled if empty)")
	fs.StringVar(&cfg.SnapshotDir, "snapshots", cfg.SnapshotDir, "Directory for game snapshots (disabled if empty)")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "How often the matchmaking queue is checked")
	fs.DurationVar(&cfg.InitialClock, "clock", cfg.InitialClock, "Thinking time per side")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, errors.New("unexpected arguments: " + strings.Join(fs.Args(), " "))
	}

	cfg.Origins = cfg.Origins[:0]
	for _, o := range strings.Split(*origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.Origins = append(cfg.Origins, o)
		}
	}
	if len(cfg.Origins) == 0 {
		return Config{}, errors.New("at least one origin is required")
	}
	if cfg.MatchInterval <= 0 || cfg.InitialClock <= 0 {
		return Config{}, errors.New("match-interval and clock must be positive")
	}
	return cfg, nil
}

// Package config reads server settings from flags, falling back to
// environment variables and then to defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const appName = "chesscore"

type Config struct {
	Addr          string
	AllowOrigins  []string
	DataDir       string
	InMemory      bool
	MatchInterval time.Duration
}

// Load parses args (without the program name).
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)

	addr := fs.String("addr", env("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("origins", env("CHESS_ALLOWED_ORIGINS", "http://localhost:5173"), "comma separated CORS origins")
	dataDir := fs.String("data-dir", env("CHESS_DATA_DIR", ""), "game store directory (default: platform data dir)")
	inMemory := fs.Bool("in-memory", envBool("CHESS_IN_MEMORY"), "keep games in memory only")
	interval := fs.Duration("match-interval", time.Second, "matchmaking tick")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:          *addr,
		DataDir:       *dataDir,
		InMemory:      *inMemory,
		MatchInterval: *interval,
	}
	for _, o := range strings.Split(*origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	if cfg.MatchInterval <= 0 {
		return Config{}, fmt.Errorf("match-interval must be positive, got %s", cfg.MatchInterval)
	}
	if cfg.DataDir == "" && !cfg.InMemory {
		dir, err := DefaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// DefaultDataDir returns $XDG_DATA_HOME/chesscore, or ~/.local/share/chesscore.
func DefaultDataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, appName, "db"), nil
}

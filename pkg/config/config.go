// Package config loads server configuration from a .env file (via
// joho/godotenv, the dependency the primoPoker and pokerBench manifests
// in the reference pack reach for) layered under process environment
// variables and flag defaults, echoing the teacher's
// cmd/pokersrv/main.go flag-with-env-fallback style (POKER_SEED).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every value SPEC_FULL.md's ambient stack and domain
// components need at startup.
type Config struct {
	ListenAddr string

	MinBuyIn      int64
	MaxBuyIn      int64
	MinSmallBlind int64
	MaxSmallBlind int64

	AIThinkTime time.Duration
	DebugLevel  string

	// TurnDeadline and AutoStartDelay are off (0) by default: enabling
	// either is an explicit opt-in, since both add wall-clock timers
	// that deterministic tests must avoid racing.
	TurnDeadline   time.Duration
	AutoStartDelay time.Duration

	// RNGSeed is 0 for a process-seeded RNG, nonzero for deterministic
	// decks (spec.md §8's determinism property, and local testing).
	RNGSeed int64
}

// defaults mirror the teacher's NewTable/TableConfig fallbacks
// (BuyIn/StartingChips/TimeBank all have zero-value defaults there).
func defaults() Config {
	return Config{
		ListenAddr:    ":8080",
		MinBuyIn:      200,
		MaxBuyIn:      100000,
		MinSmallBlind: 1,
		MaxSmallBlind: 10000,
		AIThinkTime:   800 * time.Millisecond,
		DebugLevel:    "info",
		RNGSeed:       0,
	}
}

// Load reads envPath (if it exists) into the process environment with
// godotenv, then layers POKER_*-prefixed environment variables over the
// built-in defaults. A missing envPath is not an error: godotenv.Load
// only fails loudly when an explicit path is unreadable for a reason
// other than "doesn't exist".
func Load(envPath string) (Config, error) {
	cfg := defaults()

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return cfg, fmt.Errorf("config: loading %s: %w", envPath, err)
			}
		}
	}

	cfg.ListenAddr = stringEnv("POKER_LISTEN_ADDR", cfg.ListenAddr)
	cfg.DebugLevel = stringEnv("POKER_DEBUG_LEVEL", cfg.DebugLevel)

	var err error
	if cfg.MinBuyIn, err = int64Env("POKER_MIN_BUYIN", cfg.MinBuyIn); err != nil {
		return cfg, err
	}
	if cfg.MaxBuyIn, err = int64Env("POKER_MAX_BUYIN", cfg.MaxBuyIn); err != nil {
		return cfg, err
	}
	if cfg.MinSmallBlind, err = int64Env("POKER_MIN_SMALL_BLIND", cfg.MinSmallBlind); err != nil {
		return cfg, err
	}
	if cfg.MaxSmallBlind, err = int64Env("POKER_MAX_SMALL_BLIND", cfg.MaxSmallBlind); err != nil {
		return cfg, err
	}
	if cfg.RNGSeed, err = int64Env("POKER_SEED", cfg.RNGSeed); err != nil {
		return cfg, err
	}

	if ms, err := int64Env("POKER_AI_THINK_MS", int64(cfg.AIThinkTime/time.Millisecond)); err != nil {
		return cfg, err
	} else {
		cfg.AIThinkTime = time.Duration(ms) * time.Millisecond
	}
	if ms, err := int64Env("POKER_TURN_DEADLINE_MS", int64(cfg.TurnDeadline/time.Millisecond)); err != nil {
		return cfg, err
	} else {
		cfg.TurnDeadline = time.Duration(ms) * time.Millisecond
	}
	if ms, err := int64Env("POKER_AUTO_START_MS", int64(cfg.AutoStartDelay/time.Millisecond)); err != nil {
		return cfg, err
	} else {
		cfg.AutoStartDelay = time.Duration(ms) * time.Millisecond
	}

	if cfg.MinBuyIn <= 0 || cfg.MaxBuyIn < cfg.MinBuyIn {
		return cfg, fmt.Errorf("config: invalid buy-in bounds [%d,%d]", cfg.MinBuyIn, cfg.MaxBuyIn)
	}
	if cfg.MinSmallBlind <= 0 || cfg.MaxSmallBlind < cfg.MinSmallBlind {
		return cfg, fmt.Errorf("config: invalid small-blind bounds [%d,%d]", cfg.MinSmallBlind, cfg.MaxSmallBlind)
	}

	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func int64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

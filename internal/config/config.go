// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Load `.env` (if present) into the environment via godotenv.
//   - Read typed settings with defaults.
//   - Configure the global zerolog logger.
//
// Environment variables:
//   PORT, LOG_LEVEL, LOG_PRETTY, STORE_DRIVER, DB_PATH, JWT_SECRET,
//   JWT_EXPIRES_DAYS, COOKIE_NAME, CLIENT_ORIGIN, NODE_ENV, DAILY_SALT,
//   DAY_TZ, COUNTDOWN_TICKS, COUNTDOWN_TICK_MS, DEFAULT_LANG

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const devSecret = "dev_secret_change_me"

// Config is built once at startup and passed to whatever needs it.
type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool

	StoreDriver string // "sqlite" | "memory"
	DBPath      string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	DailySalt string
	DayTZ     *time.Location

	CountdownTicks int
	TickInterval   time.Duration

	DefaultLang string
}

// Load reads `.env` and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getBool("LOG_PRETTY", false),
		StoreDriver:    getEnv("STORE_DRIVER", "sqlite"),
		DBPath:         getEnv("DB_PATH", "./data/recall.db"),
		JWTSecret:      getEnv("JWT_SECRET", devSecret),
		JWTExpiresDays: getInt("JWT_EXPIRES_DAYS", 180),
		CookieName:     getEnv("COOKIE_NAME", "recall_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:8081"),
		Production:     os.Getenv("NODE_ENV") == "production",
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		CountdownTicks: getInt("COUNTDOWN_TICKS", 3),
		TickInterval:   time.Duration(getInt("COUNTDOWN_TICK_MS", 1000)) * time.Millisecond,
		DefaultLang:    getEnv("DEFAULT_LANG", "en"),
	}

	switch cfg.StoreDriver {
	case "sqlite", "memory":
	default:
		return cfg, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}

	loc, err := time.LoadLocation(getEnv("DAY_TZ", "UTC"))
	if err != nil {
		return cfg, fmt.Errorf("DAY_TZ: %w", err)
	}
	cfg.DayTZ = loc

	if cfg.Production && cfg.JWTSecret == devSecret {
		return cfg, fmt.Errorf("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

// SetupLogging applies LOG_LEVEL and LOG_PRETTY to the global logger.
func SetupLogging(cfg Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL; keeping default")
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
	}
	return def
}

func getBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

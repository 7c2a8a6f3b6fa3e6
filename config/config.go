package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSecret is returned when JWT_SECRET is not set.
var ErrMissingSecret = errors.New("JWT_SECRET is not set in the environment")

type Config struct {
	Port string

	DBDriver    string // "postgres" or "sqlite"
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	TopSellersLimit  int
	RestockThreshold int

	SeedFile    string
	LogLevel    slog.Level
	TraceStdout bool
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:          withDefault(getenv("PORT"), "8080"),
		DBDriver:      strings.ToLower(withDefault(getenv("DB_DRIVER"), "postgres")),
		DatabaseURL:   getenv("DATABASE_URL"),
		RedisAddr:     withDefault(getenv("REDIS_ADDR"), "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		JWTSecret:     getenv("JWT_SECRET"),
		SeedFile:      getenv("SEED_FILE"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "host=localhost user=gorm password=gorm dbname=inventory port=5432 sslmode=disable TimeZone=UTC"
		}
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "inventory.db"
		}
	default:
		return nil, fmt.Errorf("DB_DRIVER %q: must be postgres or sqlite", cfg.DBDriver)
	}

	var err error
	if cfg.RedisDB, err = intVar(getenv, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.AccessTokenTTL, err = durationVar(getenv, "ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = durationVar(getenv, "REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.TopSellersLimit, err = intVar(getenv, "TOP_SELLERS_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.RestockThreshold, err = intVar(getenv, "RESTOCK_THRESHOLD", 10); err != nil {
		return nil, err
	}
	if v := getenv("TRACE_STDOUT"); v != "" {
		if cfg.TraceStdout, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("TRACE_STDOUT: %w", err)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid value %q", key, v)
	}
	return n, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

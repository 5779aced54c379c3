// Package config loads server settings from an optional .env file, PULSE_* environment
// variables and command-line flags. Flags take precedence over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/soaringjerry/Pulse/internal/db"
)

// DevJWTSecret is used when PULSE_JWT_SECRET is unset. Never rely on it in production.
const DevJWTSecret = "pulse-dev-secret"

type Config struct {
	// Env is "development" or any other mode name; only development may run without a JWT secret.
	Env           string
	Addr          string
	DatabaseType  db.Dialect
	DatabaseURL   string
	MigrationsDir string
	StaticDir     string

	JWTSecret      string
	UsingDevSecret bool
	TokenTTL       time.Duration

	PublicURL    string
	QRServiceURL string
	QRSize       int
	CORSOrigin   string

	LogLevel  log.Level
	LogFormat string

	Commit    string
	BuildTime string
}

// Load reads the env file named by PULSE_ENV_FILE (default .env, ignored when missing), then
// the environment, then args.
func Load(args []string) (Config, error) {
	envFile := env("PULSE_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var (
		cfg    Config
		dbType string
	)
	fset := flag.NewFlagSet("pulse", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", env("PULSE_ADDR", ":3001"), "listen address")
	fset.StringVar(&dbType, "db-type", env("PULSE_DB_TYPE", "sqlite"), "database type (sqlite or postgres)")
	fset.StringVar(&cfg.DatabaseURL, "db", env("PULSE_DB_URL", "data/pulse.db"), "sqlite path or postgres URL")
	fset.StringVar(&cfg.MigrationsDir, "migrations", env("PULSE_MIGRATIONS_DIR", ""), "migrations directory (embedded when empty)")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.DatabaseType, err = db.ParseDialect(dbType); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, errors.New("database URL required (use -db or PULSE_DB_URL)")
	}
	cfg.StaticDir = env("PULSE_STATIC_DIR", "")

	cfg.Env = strings.ToLower(env("PULSE_ENV", "development"))
	cfg.JWTSecret = env("PULSE_JWT_SECRET", "")
	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return Config{}, fmt.Errorf("PULSE_JWT_SECRET is required when PULSE_ENV=%s", cfg.Env)
		}
		cfg.JWTSecret = DevJWTSecret
		cfg.UsingDevSecret = true
	}
	if cfg.TokenTTL, err = time.ParseDuration(env("PULSE_TOKEN_TTL", "10h")); err != nil || cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("invalid PULSE_TOKEN_TTL %q", env("PULSE_TOKEN_TTL", ""))
	}

	cfg.PublicURL = strings.TrimRight(env("PULSE_PUBLIC_URL", "http://localhost:5173"), "/")
	cfg.QRServiceURL = env("PULSE_QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/")
	if cfg.QRSize, err = strconv.Atoi(env("PULSE_QR_SIZE", "200")); err != nil || cfg.QRSize <= 0 {
		return Config{}, fmt.Errorf("invalid PULSE_QR_SIZE %q", env("PULSE_QR_SIZE", ""))
	}
	cfg.CORSOrigin = env("PULSE_CORS_ORIGIN", "*")

	if cfg.LogLevel, err = log.ParseLevel(env("PULSE_LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("invalid PULSE_LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = strings.ToLower(env("PULSE_LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid PULSE_LOG_FORMAT %q (want text or json)", cfg.LogFormat)
	}

	cfg.Commit = env("PULSE_COMMIT", "")
	cfg.BuildTime = env("PULSE_BUILD_TIME", "")
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// env returns the trimmed value of key, or fallback when unset or blank.
func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

package main

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/soaringjerry/Pulse/internal/config"
	dbstore "github.com/soaringjerry/Pulse/internal/db"
)

// openDatabase connects to the configured database and brings its schema up to date.
func openDatabase(ctx context.Context, cfg config.Config, logger log.FieldLogger) (*sql.DB, error) {
	conn, err := dbstore.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DatabaseType, err)
	}
	if err := dbstore.RunMigrations(ctx, conn, cfg.MigrationsDir, logger); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.WithField("dialect", cfg.DatabaseType).Info("database ready")
	return conn, nil
}

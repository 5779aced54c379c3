package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

type migrationFile struct {
	name string
	data []byte
}

// RunMigrations executes migrations from dir, falling back to the embedded files when dir is
// empty or missing. Every migration must be idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, dir string, logger log.FieldLogger) error {
	files, err := loadMigrations(dir)
	if err != nil {
		return err
	}
	for _, mf := range files {
		if len(mf.data) == 0 {
			continue
		}
		if _, err := db.ExecContext(ctx, string(mf.data)); err != nil {
			return fmt.Errorf("exec migration %s: %w", mf.name, err)
		}
		if logger != nil {
			logger.WithField("migration", mf.name).Debug("migration applied")
		}
	}
	return nil
}

func loadMigrations(dir string) ([]migrationFile, error) {
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err == nil {
			return readMigrations(entries, func(name string) ([]byte, error) {
				return os.ReadFile(filepath.Join(dir, name))
			})
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read migrations: %w", err)
		}
	}
	entries, err := embeddedMigrations.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	return readMigrations(entries, func(name string) ([]byte, error) {
		return embeddedMigrations.ReadFile(path.Join("migrations", name))
	})
}

func readMigrations(entries []os.DirEntry, read func(name string) ([]byte, error)) ([]migrationFile, error) {
	var files []migrationFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		content, err := read(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		files = append(files, migrationFile{name: entry.Name(), data: content})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

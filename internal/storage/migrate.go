package storage

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Schema drives the embedded catalog migrations against one SQLite file.
type Schema struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// OpenSchema prepares the migrations for the database file at path. A nil
// logger uses slog.Default().
func OpenSchema(path string, logger *slog.Logger) (*Schema, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("embedded migrations: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, sqliteURL(path))
	if err != nil {
		return nil, fmt.Errorf("open migrations for %s: %w", path, err)
	}
	return &Schema{m: m, logger: logger}, nil
}

// sqliteURL turns a file path into a migrate database URL. Drive letters
// need a leading slash.
func sqliteURL(path string) string {
	p := filepath.ToSlash(path)
	if filepath.IsAbs(path) && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "sqlite://" + p
}

// Upgrade applies pending migrations. An up-to-date schema is not an error.
func (s *Schema) Upgrade() error {
	before, _, err := s.Version()
	if err != nil {
		return err
	}
	if err := s.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("upgrade schema: %w", err)
	}
	after, _, err := s.Version()
	if err != nil {
		return err
	}
	if after != before {
		s.logger.Info("Catalog schema upgraded", "from", before, "to", after)
	}
	return nil
}

// Reset rolls back every migration, dropping the catalog tables.
func (s *Schema) Reset() error {
	if err := s.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("reset schema: %w", err)
	}
	return nil
}

// Version reports the applied migration, zero when none has run.
func (s *Schema) Version() (uint, bool, error) {
	v, dirty, err := s.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("schema version: %w", err)
	}
	return v, dirty, nil
}

// Close releases the migration source and its database handle.
func (s *Schema) Close() error {
	srcErr, dbErr := s.m.Close()
	return errors.Join(srcErr, dbErr)
}

// upgradeSchema brings the file at path up to date in one step.
func upgradeSchema(path string, logger *slog.Logger) (err error) {
	s, err := OpenSchema(path, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return s.Upgrade()
}

// Package storage persists the card catalog in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ramonehamilton/draftpool/internal/storage/repository"
)

// DB is an open catalog database.
type DB struct {
	conn    *sql.DB
	catalog repository.CatalogRepository
}

// Config describes how to open the catalog database.
type Config struct {
	Path string

	// Connection pool. The catalog is written rarely, so a small pool is enough.
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	// SQLite pragmas applied to every connection.
	BusyTimeout time.Duration
	JournalMode string

	// AutoMigrate upgrades the schema before the pool opens.
	AutoMigrate bool

	// Logger receives storage logs. Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns the settings used by the binaries for path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		MaxOpenConns:    4,
		ConnMaxLifetime: 5 * time.Minute,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
	}
}

// dsn renders the modernc driver DSN with the configured pragmas.
func (c *Config) dsn() string {
	pragmas := url.Values{}
	pragmas.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	pragmas.Add("_pragma", fmt.Sprintf("journal_mode(%s)", c.JournalMode))
	pragmas.Add("_pragma", "foreign_keys(1)")
	return c.Path + "?" + pragmas.Encode()
}

// Open opens (and creates, if needed) the database at config.Path.
func Open(config *Config) (*DB, error) {
	switch {
	case config == nil:
		return nil, errors.New("storage config is required")
	case config.Path == "":
		return nil, errors.New("database path is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	if config.AutoMigrate {
		if err := upgradeSchema(config.Path, logger); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", config.dsn())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.Path, err)
	}
	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxOpenConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := conn.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping %s: %w", config.Path, err), conn.Close())
	}

	logger.Debug("Catalog database opened", "path", config.Path, "journal", config.JournalMode)
	return &DB{
		conn:    conn,
		catalog: repository.NewCatalogRepository(conn, logger),
	}, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn exposes the pool for ad hoc queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Catalog returns the catalog repository.
func (db *DB) Catalog() repository.CatalogRepository {
	return db.catalog
}

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/pool"
)

// EnvPrefix prefixes every environment override, e.g. DRAFTPOOL_SERVER_PORT.
const EnvPrefix = "DRAFTPOOL_"

// Config represents the application configuration.
type Config struct {
	// Catalog database
	Storage StorageConfig `toml:"storage"`

	// Card database import and reload
	Catalog CatalogConfig `toml:"catalog"`

	// HTTP API
	Server ServerConfig `toml:"server"`

	// Pool generation defaults
	Pool PoolConfig `toml:"pool"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// StorageConfig contains catalog database settings.
type StorageConfig struct {
	Path        string `toml:"path" env:"STORAGE_PATH"`                 // SQLite file; empty means ~/.draftpool/draftpool.db
	AutoMigrate bool   `toml:"auto_migrate" env:"STORAGE_AUTO_MIGRATE"` // Run migrations on open
}

// CatalogConfig contains card database settings.
type CatalogConfig struct {
	File         string `toml:"file" env:"CATALOG_FILE"`                   // Cockatrice XML card database
	Watch        bool   `toml:"watch" env:"CATALOG_WATCH"`                 // Reload when the file changes
	ModernCutoff string `toml:"modern_cutoff" env:"CATALOG_MODERN_CUTOFF"` // First modern release date (YYYY-MM-DD)
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Port           int      `toml:"port" env:"SERVER_PORT"`
	RateLimit      float64  `toml:"rate_limit" env:"SERVER_RATE_LIMIT"`           // Requests per second per client (0 = unlimited)
	RateBurst      int      `toml:"rate_burst" env:"SERVER_RATE_BURST"`           // Burst size
	RequestTimeout string   `toml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT"` // e.g. "30s"
	AllowedOrigins []string `toml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS" envSeparator:","`

	// Use X-Forwarded-For / X-Real-IP as the client address (off unless behind a trusted proxy)
	TrustProxyHeaders bool `toml:"trust_proxy_headers" env:"SERVER_TRUST_PROXY_HEADERS"`
}

// PoolConfig contains the pack counts and sizes used when a request leaves
// them unset.
type PoolConfig struct {
	DraftPacks         int `toml:"draft_packs" env:"POOL_DRAFT_PACKS"`
	DraftPackSize      int `toml:"draft_pack_size" env:"POOL_DRAFT_PACK_SIZE"`
	SealedCubePoolSize int `toml:"sealed_cube_pool_size" env:"POOL_SEALED_CUBE_POOL_SIZE"`
	DecadentPacks      int `toml:"decadent_packs" env:"POOL_DECADENT_PACKS"`
	ChaosDraftPacks    int `toml:"chaos_draft_packs" env:"POOL_CHAOS_DRAFT_PACKS"`
	ChaosSealedPacks   int `toml:"chaos_sealed_packs" env:"POOL_CHAOS_SEALED_PACKS"`
	SlotDraftPacks     int `toml:"slot_draft_packs" env:"POOL_SLOT_DRAFT_PACKS"`
	SlotSealedPacks    int `toml:"slot_sealed_packs" env:"POOL_SLOT_SEALED_PACKS"`

	// Request bounds; 0 falls back to the engine's stock limit.
	MaxPlayers  int `toml:"max_players" env:"POOL_MAX_PLAYERS"`
	MaxPacks    int `toml:"max_packs" env:"POOL_MAX_PACKS"`
	MaxPackSize int `toml:"max_pack_size" env:"POOL_MAX_PACK_SIZE"`
	MaxCubeSize int `toml:"max_cube_size" env:"POOL_MAX_CUBE_SIZE"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool   `toml:"debug_mode" env:"APP_DEBUG_MODE"` // Enable debug logging
	LogFormat string `toml:"log_format" env:"APP_LOG_FORMAT"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	d := pool.DefaultDefaults()
	return &Config{
		Storage: StorageConfig{
			Path:        "",
			AutoMigrate: true,
		},
		Catalog: CatalogConfig{
			File:         "",
			Watch:        true,
			ModernCutoff: catalog.DefaultModernCutoff.Format(catalog.ReleaseDateLayout),
		},
		Server: ServerConfig{
			Port:           8080,
			RateLimit:      10,
			RateBurst:      20,
			RequestTimeout: "30s",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Pool: PoolConfig{
			DraftPacks:         d.DraftPacks,
			DraftPackSize:      d.DraftPackSize,
			SealedCubePoolSize: d.SealedCubePoolSize,
			DecadentPacks:      d.DecadentPacks,
			ChaosDraftPacks:    d.ChaosDraftPacks,
			ChaosSealedPacks:   d.ChaosSealedPacks,
			SlotDraftPacks:     d.SlotDraftPacks,
			SlotSealedPacks:    d.SlotSealedPacks,
			MaxPlayers:         d.MaxPlayers,
			MaxPacks:           d.MaxPacks,
			MaxPackSize:        d.MaxPackSize,
			MaxCubeSize:        d.MaxCubeSize,
		},
		App: AppConfig{
			DebugMode: false,
			LogFormat: "text",
		},
	}
}

// DataDir returns ~/.draftpool, creating it if needed.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".draftpool")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file at path, falling back to the defaults
// when it does not exist, then applies environment overrides. An empty path
// means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from DRAFTPOOL_* variables. A .env file in the
// working directory is loaded first if present; variables already set in
// the environment win over it.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Server.RequestTimeout, err)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("rate burst must be positive when rate limiting: %d", c.Server.RateBurst)
	}

	if _, err := c.ModernCutoff(); err != nil {
		return fmt.Errorf("invalid modern cutoff %q: %w", c.Catalog.ModernCutoff, err)
	}

	counts := map[string]int{
		"draft_packs":           c.Pool.DraftPacks,
		"draft_pack_size":       c.Pool.DraftPackSize,
		"sealed_cube_pool_size": c.Pool.SealedCubePoolSize,
		"decadent_packs":        c.Pool.DecadentPacks,
		"chaos_draft_packs":     c.Pool.ChaosDraftPacks,
		"chaos_sealed_packs":    c.Pool.ChaosSealedPacks,
		"slot_draft_packs":      c.Pool.SlotDraftPacks,
		"slot_sealed_packs":     c.Pool.SlotSealedPacks,
	}
	for name, v := range counts {
		if v < 1 {
			return fmt.Errorf("pool %s must be positive: %d", name, v)
		}
	}
	limits := map[string]int{
		"max_players":   c.Pool.MaxPlayers,
		"max_packs":     c.Pool.MaxPacks,
		"max_pack_size": c.Pool.MaxPackSize,
		"max_cube_size": c.Pool.MaxCubeSize,
	}
	for name, v := range limits {
		if v < 0 {
			return fmt.Errorf("pool %s cannot be negative: %d", name, v)
		}
	}

	switch strings.ToLower(c.App.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.App.LogFormat)
	}

	return nil
}

// RequestTimeout returns the server request timeout as a duration.
func (c *Config) RequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// ModernCutoff returns the first release date counted as modern.
func (c *Config) ModernCutoff() (time.Time, error) {
	if c.Catalog.ModernCutoff == "" {
		return catalog.DefaultModernCutoff, nil
	}
	return time.Parse(catalog.ReleaseDateLayout, c.Catalog.ModernCutoff)
}

// DatabasePath returns the storage path, defaulting to the data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "draftpool.db"), nil
}

// PoolDefaults converts the pool section for the generation engine.
func (c *Config) PoolDefaults() pool.Defaults {
	return pool.Defaults{
		DraftPacks:         c.Pool.DraftPacks,
		DraftPackSize:      c.Pool.DraftPackSize,
		SealedCubePoolSize: c.Pool.SealedCubePoolSize,
		DecadentPacks:      c.Pool.DecadentPacks,
		ChaosDraftPacks:    c.Pool.ChaosDraftPacks,
		ChaosSealedPacks:   c.Pool.ChaosSealedPacks,
		SlotDraftPacks:     c.Pool.SlotDraftPacks,
		SlotSealedPacks:    c.Pool.SlotSealedPacks,
		MaxPlayers:         c.Pool.MaxPlayers,
		MaxPacks:           c.Pool.MaxPacks,
		MaxPackSize:        c.Pool.MaxPackSize,
		MaxCubeSize:        c.Pool.MaxCubeSize,
	}
}

// NewLogger builds the slog logger described by the app section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.App.DebugMode {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: c.App.DebugMode}

	if strings.EqualFold(c.App.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Package main runs the pool generation REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/draftpool/internal/api"
	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/config"
	"github.com/ramonehamilton/draftpool/internal/metrics"
	"github.com/ramonehamilton/draftpool/internal/random"
	"github.com/ramonehamilton/draftpool/internal/storage"
	"github.com/ramonehamilton/draftpool/internal/version"
)

var (
	configPath  = flag.String("config", "", "Config file path (default: ~/.draftpool/config.toml)")
	port        = flag.Int("port", 0, "API server port (overrides config)")
	dbPath      = flag.String("db-path", "", "Database path (overrides config)")
	catalogFile = flag.String("catalog", "", "Cockatrice card database to import (overrides config)")
)

func main() {
	flag.Parse()

	cfg := loadConfig()
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	fmt.Printf("Draft Pool Server %s\n", version.GetVersion())
	fmt.Println("==================")
	fmt.Println()

	finalDBPath, err := cfg.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	fmt.Printf("Database: %s\n", finalDBPath)

	storageConfig := storage.DefaultConfig(finalDBPath)
	storageConfig.AutoMigrate = cfg.Storage.AutoMigrate
	storageConfig.Logger = logger
	db, err := storage.Open(storageConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Background work writes to db, so it must finish before db is closed.
	background, ctx := errgroup.WithContext(ctx)

	cutoff, err := cfg.ModernCutoff()
	if err != nil {
		log.Fatalf("Invalid modern cutoff: %v", err)
	}
	load := func(ctx context.Context) (*catalog.Catalog, error) {
		return db.LoadCatalog(ctx, catalog.WithModernCutoff(cutoff))
	}

	if cfg.Catalog.File != "" {
		needs, err := db.NeedsImport(ctx, cfg.Catalog.File)
		if err != nil {
			log.Fatalf("Failed to check card database: %v", err)
		}
		if needs {
			fmt.Printf("Importing %s...\n", cfg.Catalog.File)
			stats, err := db.ImportCockatrice(ctx, cfg.Catalog.File)
			if err != nil {
				log.Fatalf("Failed to import card database: %v", err)
			}
			logger.Info("Catalog imported", "sets", stats.Sets, "cards", stats.Cards)
		}
	}

	cat, err := load(ctx)
	switch {
	case errors.Is(err, storage.ErrEmptyCatalog):
		logger.Warn("No catalog stored, pool generation is unavailable until one is imported")
	case err != nil:
		log.Fatalf("Failed to load catalog: %v", err)
	default:
		stats := cat.Stats()
		fmt.Printf("Catalog: %d sets, %d cards\n", stats.Sets, stats.Cards)
	}
	store := catalog.NewStore(cat)
	poolMetrics := metrics.NewPoolMetrics()

	if cfg.Catalog.Watch && cfg.Catalog.File != "" {
		watcher, err := catalog.NewWatcher(catalog.WatcherConfig{
			Path:  cfg.Catalog.File,
			Store: store,
			Loader: func(ctx context.Context) (*catalog.Catalog, error) {
				if _, err := db.ImportCockatrice(ctx, cfg.Catalog.File); err != nil {
					return nil, err
				}
				reloaded, err := load(ctx)
				if err == nil {
					poolMetrics.RecordCatalogReload()
				}
				return reloaded, err
			},
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("Failed to create catalog watcher: %v", err)
		}
		background.Go(func() error {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("Catalog watcher stopped", "error", err)
			}
			return nil
		})
		fmt.Printf("Watching %s for changes\n", cfg.Catalog.File)
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		log.Fatalf("Invalid request timeout: %v", err)
	}
	apiConfig := &api.Config{
		Port:           cfg.Server.Port,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
		RequestTimeout: timeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		PoolDefaults:   cfg.PoolDefaults(),
		Source:         random.Default(),
		Metrics:        poolMetrics,
		Logger:         logger,

		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	}
	server := api.NewServer(apiConfig, store)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Println()
	fmt.Printf("API server running at http://localhost:%d\n", server.Port())
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println("Shutting down...")
	cancel()
	_ = background.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}

func loadConfig() *config.Config {
	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *catalogFile != "" {
		cfg.Catalog.File = *catalogFile
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return cfg
}

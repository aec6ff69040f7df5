// Package main imports a Cockatrice card database into the catalog store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ramonehamilton/draftpool/internal/config"
	"github.com/ramonehamilton/draftpool/internal/storage"
)

var (
	configPath = flag.String("config", "", "Config file path (default: ~/.draftpool/config.toml)")
	file       = flag.String("file", "", "Cockatrice card database (default: catalog.file from config)")
	dbPath     = flag.String("db-path", "", "Database path (overrides config)")
	force      = flag.Bool("force", false, "Import even if the stored catalog is newer than the file")
)

func main() {
	flag.Parse()

	path := *configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *file != "" {
		cfg.Catalog.File = *file
	}
	if cfg.Catalog.File == "" {
		fmt.Fprintln(os.Stderr, "no card database given: pass -file or set catalog.file")
		os.Exit(2)
	}

	finalDBPath, err := cfg.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}

	storageConfig := storage.DefaultConfig(finalDBPath)
	storageConfig.AutoMigrate = true
	storageConfig.Logger = cfg.NewLogger(os.Stderr)
	db, err := storage.Open(storageConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	ctx := context.Background()
	if !*force {
		needs, err := db.NeedsImport(ctx, cfg.Catalog.File)
		if err != nil {
			log.Fatalf("Failed to check card database: %v", err)
		}
		if !needs {
			fmt.Println("Catalog is up to date, use -force to re-import")
			printStored(ctx, db)
			return
		}
	}

	fmt.Printf("Importing %s into %s...\n", cfg.Catalog.File, finalDBPath)
	stats, err := db.ImportCockatrice(ctx, cfg.Catalog.File)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Println()
	fmt.Printf("Sets:            %d\n", stats.Sets)
	fmt.Printf("Cards:           %d\n", stats.Cards)
	fmt.Printf("Expansion/core:  %d\n", stats.ExpansionOrCore)
	fmt.Printf("Modern:          %d\n", stats.Modern)
	printStored(ctx, db)
}

// printStored reports what the database holds after the run.
func printStored(ctx context.Context, db *storage.DB) {
	counts, err := db.Catalog().Counts(ctx)
	if err != nil {
		log.Fatalf("Failed to count stored catalog: %v", err)
	}
	fmt.Printf("Stored sets:     %d\n", counts.Sets)
	fmt.Printf("Stored cards:    %d\n", counts.Cards)
}

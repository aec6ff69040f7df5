package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/catalog/cockatrice"
)

// ImportCockatrice parses a Cockatrice card database and replaces the
// stored catalog with it. The parsed sets are validated by building a
// catalog before anything is written.
func (db *DB) ImportCockatrice(ctx context.Context, path string) (catalog.Stats, error) {
	sets, err := cockatrice.ParseFile(path)
	if err != nil {
		return catalog.Stats{}, err
	}

	cat, err := catalog.New(sets)
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("invalid card database %s: %w", path, err)
	}

	if err := db.SaveCatalog(ctx, sets); err != nil {
		return catalog.Stats{}, err
	}
	return cat.Stats(), nil
}

// NeedsImport reports whether the file at path is newer than the stored
// catalog, or nothing is stored yet.
func (db *DB) NeedsImport(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat card database: %w", err)
	}
	last, err := db.LastImport(ctx)
	if err != nil {
		return false, err
	}
	return last.IsZero() || info.ModTime().After(last), nil
}

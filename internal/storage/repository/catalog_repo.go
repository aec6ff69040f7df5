package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/georgysavva/scany/sqlscan"

	"github.com/ramonehamilton/draftpool/internal/storage/models"
)

// CatalogRepository stores imported card databases.
type CatalogRepository interface {
	// ReplaceAll swaps the stored catalog for the given sets and cards in
	// one transaction.
	ReplaceAll(ctx context.Context, sets []*models.Set, cards []*models.Card) error

	// ListSets returns every set ordered by code.
	ListSets(ctx context.Context) ([]*models.Set, error)

	// ListCards returns every card ordered by set and import position.
	ListCards(ctx context.Context) ([]*models.Card, error)

	// Counts returns the number of stored sets and cards.
	Counts(ctx context.Context) (*models.CatalogCounts, error)
}

type catalogRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewCatalogRepository creates a new catalog repository. A nil logger uses
// slog.Default().
func NewCatalogRepository(db *sql.DB, logger *slog.Logger) CatalogRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogRepository{db: db, log: logger}
}

func rollback(tx *sql.Tx) {
	if tx != nil {
		_ = tx.Rollback()
	}
}

// ReplaceAll deletes the stored catalog and inserts the new one.
func (r *catalogRepository) ReplaceAll(ctx context.Context, sets []*models.Set, cards []*models.Card) error {
	r.log.DebugContext(ctx, "replacing catalog", "sets", len(sets), "cards", len(cards))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sets`); err != nil {
		return fmt.Errorf("clear sets: %w", err)
	}

	setStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sets (code, name, set_type, release_date)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare set insert: %w", err)
	}
	defer setStmt.Close()

	for _, s := range sets {
		if _, err := setStmt.ExecContext(ctx, s.Code, s.Name, s.SetType, s.ReleaseDate); err != nil {
			return fmt.Errorf("insert set %s: %w", s.Code, err)
		}
	}

	cardStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (
			id, set_code, position, name, names, number, mana_cost, cmc, type, types,
			rarity, power, toughness, loyalty, colors, layout, side, text, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare card insert: %w", err)
	}
	defer cardStmt.Close()

	for _, c := range cards {
		_, err := cardStmt.ExecContext(ctx,
			c.ID, c.SetCode, c.Position, c.Name, c.Names, c.Number, c.ManaCost, c.CMC, c.Type, c.Types,
			c.Rarity, c.Power, c.Toughness, c.Loyalty, c.Colors, c.Layout, c.Side, c.Text, c.ImageURL,
		)
		if err != nil {
			return fmt.Errorf("insert card %s (%s): %w", c.Name, c.SetCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}

	r.log.InfoContext(ctx, "catalog stored", "sets", len(sets), "cards", len(cards))
	return nil
}

// ListSets returns every set ordered by code.
func (r *catalogRepository) ListSets(ctx context.Context) ([]*models.Set, error) {
	const query = `
		SELECT code, name, set_type, release_date, imported_at
		FROM sets
		ORDER BY code
	`
	var sets []*models.Set
	if err := sqlscan.Select(ctx, r.db, &sets, query); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}

const cardColumns = `
	id, set_code, position, name, names, number, mana_cost, cmc, type, types,
	rarity, power, toughness, loyalty, colors, layout, side, text, image_url
`

// ListCards returns every card ordered by set and import position.
func (r *catalogRepository) ListCards(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY set_code, position`

	var cards []*models.Card
	if err := sqlscan.Select(ctx, r.db, &cards, query); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// Counts returns the number of stored sets and cards.
func (r *catalogRepository) Counts(ctx context.Context) (*models.CatalogCounts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM sets) AS sets,
			(SELECT COUNT(*) FROM cards) AS cards
	`
	var counts models.CatalogCounts
	if err := sqlscan.Get(ctx, r.db, &counts, query); err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}
	return &counts, nil
}

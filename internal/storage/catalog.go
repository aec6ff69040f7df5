package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/storage/models"
)

// ErrEmptyCatalog is returned by LoadCatalog when nothing has been imported.
var ErrEmptyCatalog = errors.New("no catalog stored")

// SaveCatalog replaces the stored catalog with sets.
func (db *DB) SaveCatalog(ctx context.Context, sets []*catalog.Set) error {
	setRows := make([]*models.Set, 0, len(sets))
	var cardRows []*models.Card

	for _, set := range sets {
		row := &models.Set{
			Code:    set.Code,
			Name:    set.Name,
			SetType: set.Type,
		}
		if !set.ReleaseDate.IsZero() {
			row.ReleaseDate = set.ReleaseDate.Format(catalog.ReleaseDateLayout)
		}
		setRows = append(setRows, row)

		for i, card := range set.Cards {
			cardRow, err := cardToRow(set.Code, i, card)
			if err != nil {
				return err
			}
			cardRows = append(cardRows, cardRow)
		}
	}

	return db.catalog.ReplaceAll(ctx, setRows, cardRows)
}

// LoadCatalog builds a catalog snapshot from the stored sets and cards.
func (db *DB) LoadCatalog(ctx context.Context, opts ...catalog.Option) (*catalog.Catalog, error) {
	setRows, err := db.catalog.ListSets(ctx)
	if err != nil {
		return nil, err
	}
	if len(setRows) == 0 {
		return nil, ErrEmptyCatalog
	}

	cardRows, err := db.catalog.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	sets := make([]*catalog.Set, 0, len(setRows))
	byCode := make(map[string]*catalog.Set, len(setRows))
	for _, row := range setRows {
		set := &catalog.Set{
			Code:        row.Code,
			Name:        row.Name,
			Type:        row.SetType,
			ReleaseDate: catalog.ParseReleaseDate(row.ReleaseDate),
		}
		sets = append(sets, set)
		byCode[row.Code] = set
	}

	for _, row := range cardRows {
		set, ok := byCode[row.SetCode]
		if !ok {
			return nil, fmt.Errorf("card %s references missing set %s", row.ID, row.SetCode)
		}
		card, err := rowToCard(row)
		if err != nil {
			return nil, err
		}
		set.Cards = append(set.Cards, card)
	}

	return catalog.New(sets, opts...)
}

// LastImport returns when the stored catalog was written, or the zero time
// when it is empty.
func (db *DB) LastImport(ctx context.Context) (time.Time, error) {
	sets, err := db.catalog.ListSets(ctx)
	if err != nil {
		return time.Time{}, err
	}
	var last time.Time
	for _, s := range sets {
		if s.ImportedAt.After(last) {
			last = s.ImportedAt
		}
	}
	return last, nil
}

func cardToRow(setCode string, position int, card *catalog.Card) (*models.Card, error) {
	names, err := json.Marshal(nonNil(card.Names))
	if err != nil {
		return nil, fmt.Errorf("marshal names of %s: %w", card.Name, err)
	}
	types, err := json.Marshal(nonNil(card.Types))
	if err != nil {
		return nil, fmt.Errorf("marshal types of %s: %w", card.Name, err)
	}
	colors, err := json.Marshal(nonNil(card.Colors))
	if err != nil {
		return nil, fmt.Errorf("marshal colors of %s: %w", card.Name, err)
	}

	id := card.ID
	if id == "" {
		id = catalog.CardID(setCode, card.Name, card.Number)
	}

	return &models.Card{
		ID:        id,
		SetCode:   setCode,
		Position:  position,
		Name:      card.Name,
		Names:     string(names),
		Number:    card.Number,
		ManaCost:  card.ManaCost,
		CMC:       card.CMC,
		Type:      card.Type,
		Types:     string(types),
		Rarity:    string(card.Rarity),
		Power:     card.Power,
		Toughness: card.Toughness,
		Loyalty:   card.Loyalty,
		Colors:    string(colors),
		Layout:    card.Layout,
		Side:      card.Side,
		Text:      card.Text,
		ImageURL:  card.ImageURL,
	}, nil
}

func rowToCard(row *models.Card) (*catalog.Card, error) {
	rarity, err := catalog.ParseRarity(row.Rarity)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", row.ID, err)
	}

	card := &catalog.Card{
		ID:        row.ID,
		Name:      row.Name,
		SetCode:   row.SetCode,
		Number:    row.Number,
		ManaCost:  row.ManaCost,
		CMC:       row.CMC,
		Type:      row.Type,
		Rarity:    rarity,
		Power:     row.Power,
		Toughness: row.Toughness,
		Loyalty:   row.Loyalty,
		Layout:    row.Layout,
		Side:      row.Side,
		Text:      row.Text,
		ImageURL:  row.ImageURL,
	}
	for _, col := range []struct {
		name string
		raw  string
		dst  *[]string
	}{
		{"names", row.Names, &card.Names},
		{"types", row.Types, &card.Types},
		{"colors", row.Colors, &card.Colors},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return nil, fmt.Errorf("card %s: decode %s: %w", row.ID, col.name, err)
		}
	}
	return card, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

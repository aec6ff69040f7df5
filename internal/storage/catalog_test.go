package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/catalog/catalogtest"
)

func TestLoadCatalog_Empty(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LoadCatalog(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	last, err := db.LastImport(context.Background())
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}

func TestSaveLoadCatalog(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	power, toughness := 2, 3
	abc := catalogtest.BuildSet(catalogtest.Plain("ABC", 3, 2, 1, 1))
	abc.Type = "core"
	abc.ReleaseDate = catalog.ParseReleaseDate("1999-02-15")
	abc.Cards = append(abc.Cards, &catalog.Card{
		Name:      "Grizzly Bears",
		Names:     []string{"Grizzly Bears"},
		Number:    99,
		ManaCost:  "{1}{G}",
		CMC:       2,
		Type:      "Creature",
		Types:     []string{"Creature"},
		Rarity:    catalog.Common,
		Power:     &power,
		Toughness: &toughness,
		Colors:    []string{"G"},
		Layout:    "normal",
		Side:      "a",
		Text:      "Bear.",
		ImageURL:  "https://img.example/bears.jpg",
	})
	bare := &catalog.Set{Code: "PRM", Name: "PRM", Cards: []*catalog.Card{{Name: "Promo", Rarity: catalog.Rare}}}

	require.NoError(t, db.SaveCatalog(ctx, []*catalog.Set{abc, bare}))

	counts, err := db.Catalog().Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Sets)
	assert.Equal(t, 9, counts.Cards)

	cat, err := db.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Sets: 2, Cards: 9, ExpansionOrCore: 1, Modern: 0}, cat.Stats())

	set, err := cat.SetByCode("ABC")
	require.NoError(t, err)
	assert.Equal(t, "core", set.Type)
	assert.Equal(t, "1999-02-15", set.ReleaseDate.Format(catalog.ReleaseDateLayout))
	require.Len(t, set.Cards, 8)
	for i, card := range set.Cards[:7] {
		assert.Equal(t, abc.Cards[i].Name, card.Name, "import order is kept")
	}

	bears, err := cat.CardByName("grizzly bears")
	require.NoError(t, err)
	assert.Equal(t, catalog.CardID("ABC", "Grizzly Bears", 99), bears.ID)
	assert.Equal(t, "{1}{G}", bears.ManaCost)
	assert.Equal(t, 2.0, bears.CMC)
	assert.Equal(t, catalog.KindCreature, bears.Kind)
	assert.Equal(t, []string{"G"}, bears.Colors)
	assert.Equal(t, "Bear.", bears.Text)
	assert.Equal(t, "https://img.example/bears.jpg", bears.ImageURL)
	require.NotNil(t, bears.Power)
	require.NotNil(t, bears.Toughness)
	assert.Equal(t, 2, *bears.Power)
	assert.Equal(t, 3, *bears.Toughness)

	promo, err := cat.CardByName("Promo")
	require.NoError(t, err)
	assert.Nil(t, promo.Power)
	assert.Empty(t, promo.Colors)

	prm, err := cat.SetByCode("PRM")
	require.NoError(t, err)
	assert.True(t, prm.ReleaseDate.IsZero())

	last, err := db.LastImport(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), last, 24*time.Hour)
}

func TestSaveCatalog_Replaces(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.SaveCatalog(ctx, []*catalog.Set{catalogtest.BuildSet(catalogtest.Plain("OLD", 5, 0, 0, 0))}))
	require.NoError(t, db.SaveCatalog(ctx, []*catalog.Set{catalogtest.BuildSet(catalogtest.Plain("NEW", 2, 0, 0, 0))}))

	cat, err := db.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Stats().Cards)

	_, err = cat.SetByCode("OLD")
	assert.ErrorIs(t, err, catalog.ErrUnknownSet)
}

func TestLoadCatalog_ModernCutoffOption(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	spec := catalogtest.Plain("ABC", 3, 2, 0, 0)
	spec.ReleaseDate = "2010-05-01"
	require.NoError(t, db.SaveCatalog(ctx, []*catalog.Set{catalogtest.BuildSet(spec)}))

	cat, err := db.LoadCatalog(ctx, catalog.WithModernCutoff(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Empty(t, cat.ModernOrCoreSets())
	assert.Len(t, cat.ExpansionOrCoreSets(), 1)
}

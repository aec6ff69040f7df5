package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draftpool/internal/storage"
	"github.com/ramonehamilton/draftpool/internal/storage/models"
	"github.com/ramonehamilton/draftpool/internal/storage/repository"
)

func setupCatalogRepo(t *testing.T) repository.CatalogRepository {
	t.Helper()

	config := storage.DefaultConfig(filepath.Join(t.TempDir(), "repo.db"))
	config.AutoMigrate = true
	db, err := storage.Open(config)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewCatalogRepository(db.Conn(), nil)
}

func testCard(id, setCode, name string, position int) *models.Card {
	return &models.Card{
		ID:       id,
		SetCode:  setCode,
		Position: position,
		Name:     name,
		Names:    `["` + name + `"]`,
		Types:    `["Instant"]`,
		Colors:   `[]`,
		Rarity:   "Common",
		Layout:   "normal",
		Side:     "a",
	}
}

func TestCatalogRepository_ReplaceAndList(t *testing.T) {
	repo := setupCatalogRepo(t)
	ctx := context.Background()

	sets := []*models.Set{
		{Code: "XYZ", Name: "Xyz", SetType: "expansion", ReleaseDate: "2020-01-01"},
		{Code: "ABC", Name: "Abc", SetType: "core"},
	}
	power := 4
	bear := testCard("c3", "ABC", "Bear", 1)
	bear.Power = &power
	cards := []*models.Card{
		testCard("c1", "XYZ", "Bolt", 0),
		testCard("c2", "ABC", "Shock", 0),
		bear,
	}
	require.NoError(t, repo.ReplaceAll(ctx, sets, cards))

	gotSets, err := repo.ListSets(ctx)
	require.NoError(t, err)
	require.Len(t, gotSets, 2)
	assert.Equal(t, "ABC", gotSets[0].Code)
	assert.Equal(t, "2020-01-01", gotSets[1].ReleaseDate)
	assert.False(t, gotSets[0].ImportedAt.IsZero())

	all, err := repo.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Shock", all[0].Name, "ordered by set then position")
	assert.Nil(t, all[0].Power)
	require.NotNil(t, all[1].Power)
	assert.Equal(t, 4, *all[1].Power)
	assert.Equal(t, "XYZ", all[2].SetCode)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.CatalogCounts{Sets: 2, Cards: 3}, counts)
}

func TestCatalogRepository_FailedReplaceKeepsPrevious(t *testing.T) {
	repo := setupCatalogRepo(t)
	ctx := context.Background()

	sets := []*models.Set{{Code: "ABC"}}
	require.NoError(t, repo.ReplaceAll(ctx, sets, []*models.Card{testCard("c1", "ABC", "Shock", 0)}))

	// Duplicate primary keys abort the transaction.
	dup := []*models.Card{testCard("d1", "ABC", "Bolt", 0), testCard("d1", "ABC", "Bolt", 1)}
	err := repo.ReplaceAll(ctx, sets, dup)
	require.Error(t, err)

	cards, err := repo.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Shock", cards[0].Name)
}

func TestCatalogRepository_Empty(t *testing.T) {
	repo := setupCatalogRepo(t)
	ctx := context.Background()

	sets, err := repo.ListSets(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Sets)
}

package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/tienda-ecom/internal/apperr"
	"github.com/MikeMC777/tienda-ecom/internal/testutil"
)

func seed(t *testing.T, repo *GormRepo) []Item {
	t.Helper()
	items := []Item{
		{Name: "Football", Description: "Ronaldo Signed Football", Price: decimal.RequireFromString("50.99")},
		{Name: "Rugby Ball", Description: "Josh Adams Signed Rugby Ball", Price: decimal.RequireFromString("39.99")},
	}
	for i := range items {
		require.NoError(t, repo.Create(context.Background(), &items[i]))
	}
	return items
}

func TestGormRepo_ListAndGet(t *testing.T) {
	repo := NewGormRepo(testutil.SQLite(t, &Record{}))
	created := seed(t, repo)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Football", all[0].Name)
	assert.True(t, decimal.RequireFromString("50.99").Equal(all[0].Price), all[0].Price.String())
	assert.Equal(t, "Rugby Ball", all[1].Name)

	got, err := repo.GetByID(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Josh Adams Signed Rugby Ball", got.Description)
	assert.True(t, decimal.RequireFromString("39.99").Equal(got.Price))
}

func TestGormRepo_GetByID_NotFound(t *testing.T) {
	repo := NewGormRepo(testutil.SQLite(t, &Record{}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGormRepo_FindByName(t *testing.T) {
	repo := NewGormRepo(testutil.SQLite(t, &Record{}))
	seed(t, repo)
	ctx := context.Background()

	hits, err := repo.FindByName(ctx, "Rugby Ball")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Rugby Ball", hits[0].Name)

	none, err := repo.FindByName(ctx, "blah_blah")
	require.NoError(t, err)
	assert.Empty(t, none)
}

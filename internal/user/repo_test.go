package user

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/catalog"
	"github.com/MikeMC777/tienda-ecom/internal/testutil"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.SQLite(t, &catalog.Record{}, &cart.Record{}, &cart.EntryRecord{}, &Record{})
}

func TestGormRepo_CreateLinksUserAndCart(t *testing.T) {
	db := newDB(t)
	repo := NewGormRepo(db)
	ctx := context.Background()

	u := &User{Username: "goofy", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)
	require.NotNil(t, u.Cart)
	require.NotZero(t, u.Cart.ID)
	assert.Equal(t, cart.Owner{ID: u.ID, Username: "goofy"}, *u.Cart.Owner)

	got, err := repo.GetByUsername(ctx, "goofy")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)
	assert.Equal(t, u.Cart.ID, got.Cart.ID)
	require.NotNil(t, got.Cart.Owner)
	assert.Equal(t, u.ID, got.Cart.Owner.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "goofy", byID.Username)
}

func TestGormRepo_HydratesCartItems(t *testing.T) {
	db := newDB(t)
	repo := NewGormRepo(db)
	ctx := context.Background()

	it := catalog.Item{Name: "Christmas Tree Bauble", Price: decimal.RequireFromString("17.99")}
	require.NoError(t, catalog.NewGormRepo(db).Create(ctx, &it))

	u := &User{Username: "goofy", Password: "hash", Cart: cart.New()}
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, u.Cart.AddItem(it, 1))
	require.NoError(t, cart.NewGormRepo(db).Save(ctx, u.Cart))

	got, err := repo.GetByUsername(ctx, "goofy")
	require.NoError(t, err)
	require.Len(t, got.Cart.Items, 1)
	assert.Equal(t, "Christmas Tree Bauble", got.Cart.Items[0].Name)
	assert.Equal(t, "17.99", got.Cart.Total().String())
}

func TestGormRepo_DuplicateUsernameRollsBack(t *testing.T) {
	db := newDB(t)
	repo := NewGormRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &User{Username: "goofy", Password: "a"}))
	dup := &User{Username: "goofy", Password: "b"}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Zero(t, dup.ID)
	require.NotNil(t, dup.Cart)
	assert.Zero(t, dup.Cart.ID, "cart id must not point at the rolled-back row")
	assert.Nil(t, dup.Cart.Owner)

	var carts int64
	require.NoError(t, db.Model(&cart.Record{}).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}

func TestGormRepo_NotFound(t *testing.T) {
	repo := NewGormRepo(newDB(t))
	_, err := repo.GetByUsername(context.Background(), "I_Don't_Exist")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

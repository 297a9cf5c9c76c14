package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MikeMC777/tienda-ecom/internal/catalog"
)

// DefaultItems is the starter catalog.
func DefaultItems() []catalog.Item {
	return []catalog.Item{
		{Name: "Round Widget", Description: "A widget that is round", Price: decimal.RequireFromString("2.99")},
		{Name: "Square Widget", Description: "A widget that is square", Price: decimal.RequireFromString("1.99")},
	}
}

// SeedItems inserts items only when the catalog is empty. It returns the number
// of rows written.
func SeedItems(ctx context.Context, db *gorm.DB, items []catalog.Item) (int, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&catalog.Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	repo := catalog.NewGormRepo(db)
	for i := range items {
		if err := repo.Create(ctx, &items[i]); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

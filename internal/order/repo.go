package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/catalog"
)

const entryBatchSize = 500

type Repository interface {
	// Create persists o and assigns its ID.
	Create(ctx context.Context, o *Order) error
	// ListByUser returns the owner's orders, oldest first.
	ListByUser(ctx context.Context, owner cart.Owner) ([]*Order, error)
}

type Record struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	UserID    int64           `gorm:"not null;index"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	Entries   []EntryRecord   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Record) TableName() string { return "orders" }

type EntryRecord struct {
	ID       int64          `gorm:"primaryKey;autoIncrement"`
	OrderID  int64          `gorm:"not null;index"`
	ItemID   int64          `gorm:"not null;index"`
	Position int            `gorm:"not null"`
	Item     catalog.Record `gorm:"foreignKey:ItemID"`
}

func (EntryRecord) TableName() string { return "order_entries" }

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

func (r *GormRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := Record{UserID: o.User.ID, Total: o.Total(), CreatedAt: o.CreatedAt}
		if err := tx.Omit("Entries").Create(&row).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		items := o.Items()
		if len(items) > 0 {
			entries := make([]EntryRecord, 0, len(items))
			for i, it := range items {
				entries = append(entries, EntryRecord{OrderID: row.ID, ItemID: it.ID, Position: i})
			}
			if err := tx.Omit("Item").CreateInBatches(&entries, entryBatchSize).Error; err != nil {
				return fmt.Errorf("write order %d entries: %w", row.ID, err)
			}
		}
		id := row.ID
		o.ID = &id
		return nil
	})
}

func (r *GormRepo) ListByUser(ctx context.Context, owner cart.Owner) ([]*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []Record
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Entries.Item").
		Where("user_id = ?", owner.ID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list orders for user %d: %w", owner.ID, err)
	}

	out := make([]*Order, 0, len(rows))
	for _, row := range rows {
		items := make([]catalog.Item, 0, len(row.Entries))
		for _, e := range row.Entries {
			items = append(items, e.Item.Item())
		}
		out = append(out, Restore(row.ID, owner, items, row.Total, row.CreatedAt))
	}
	return out, nil
}

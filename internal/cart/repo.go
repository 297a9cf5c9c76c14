package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MikeMC777/tienda-ecom/internal/catalog"
)

// entryBatchSize keeps each entries INSERT under the driver's bind-variable limit.
const entryBatchSize = 500

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}

// Record is the carts row. Total mirrors Cart.Total() at the last save.
type Record struct {
	ID      int64           `gorm:"primaryKey;autoIncrement"`
	Total   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Entries []EntryRecord   `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (Record) TableName() string { return "carts" }

// EntryRecord is one unit of an item held in a cart.
type EntryRecord struct {
	ID       int64          `gorm:"primaryKey;autoIncrement"`
	CartID   int64          `gorm:"not null;index"`
	ItemID   int64          `gorm:"not null;index"`
	Position int            `gorm:"not null"`
	Item     catalog.Record `gorm:"foreignKey:ItemID"`
}

func (EntryRecord) TableName() string { return "cart_entries" }

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

func (r *GormRepo) GetByID(ctx context.Context, id int64) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var row Record
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Entries.Item").
		First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart %d: %w", id, err)
	}

	c := &Cart{ID: row.ID, Items: make([]catalog.Item, 0, len(row.Entries))}
	for _, e := range row.Entries {
		c.Items = append(c.Items, e.Item.Item())
	}

	var owner Owner
	if err := r.db.WithContext(ctx).Table("users").
		Select("id, username").
		Where("cart_id = ?", row.ID).
		Limit(1).
		Scan(&owner).Error; err != nil {
		return nil, fmt.Errorf("cart %d owner: %w", id, err)
	}
	if owner.ID != 0 {
		c.Owner = &owner
	}
	return c, nil
}

// Save writes the cart and replaces its entries. A cart with ID 0 is inserted
// and receives its identity.
func (r *GormRepo) Save(ctx context.Context, c *Cart) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := Record{ID: c.ID, Total: c.Total()}
		if c.ID == 0 {
			if err := tx.Omit("Entries").Create(&row).Error; err != nil {
				return fmt.Errorf("create cart: %w", err)
			}
		} else {
			res := tx.Model(&Record{}).Where("id = ?", c.ID).Update("total", row.Total)
			if res.Error != nil {
				return fmt.Errorf("update cart %d: %w", c.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
			if err := tx.Where("cart_id = ?", c.ID).Delete(&EntryRecord{}).Error; err != nil {
				return fmt.Errorf("clear cart %d: %w", c.ID, err)
			}
		}

		if len(c.Items) > 0 {
			entries := make([]EntryRecord, 0, len(c.Items))
			for i, it := range c.Items {
				entries = append(entries, EntryRecord{CartID: row.ID, ItemID: it.ID, Position: i})
			}
			if err := tx.Omit("Item").CreateInBatches(&entries, entryBatchSize).Error; err != nil {
				return fmt.Errorf("write cart %d entries: %w", row.ID, err)
			}
		}
		c.ID = row.ID
		return nil
	})
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	FindByName(ctx context.Context, name string) ([]Item, error)
	Create(ctx context.Context, it *Item) error
}

// Record is the items row.
type Record struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"not null;index"`
	Description string          `gorm:"not null;default:''"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (Record) TableName() string { return "items" }

func (r Record) Item() Item {
	return Item{ID: r.ID, Name: r.Name, Description: r.Description, Price: r.Price}
}

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

func (r *GormRepo) List(ctx context.Context) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []Record
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return toItems(rows), nil
}

func (r *GormRepo) GetByID(ctx context.Context, id int64) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var row Record
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	it := row.Item()
	return &it, nil
}

// FindByName matches the name exactly; an empty result is not an error here.
func (r *GormRepo) FindByName(ctx context.Context, name string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []Record
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find items by name: %w", err)
	}
	return toItems(rows), nil
}

func (r *GormRepo) Create(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := Record{Name: it.Name, Description: it.Description, Price: it.Price}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	it.ID = row.ID
	return nil
}

func toItems(rows []Record) []Item {
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Item())
	}
	return out
}

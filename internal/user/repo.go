package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
)

type Repository interface {
	// Create persists u together with u.Cart, assigning both identities.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// Record is the users row; it holds the reference to the owned cart.
type Record struct {
	ID       int64       `gorm:"primaryKey;autoIncrement"`
	Username string      `gorm:"not null;uniqueIndex"`
	Password string      `gorm:"not null"`
	CartID   int64       `gorm:"not null;uniqueIndex"`
	Cart     cart.Record `gorm:"foreignKey:CartID"`
}

func (Record) TableName() string { return "users" }

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

func (r *GormRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if u.Cart == nil {
		u.Cart = cart.New()
	}
	cartID := u.Cart.ID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cart.NewGormRepo(tx).Save(ctx, u.Cart); err != nil {
			return err
		}
		row := Record{Username: u.Username, Password: u.Password, CartID: u.Cart.ID}
		if err := tx.Omit("Cart").Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		u.ID = row.ID
		owner := u.Owner()
		u.Cart.Owner = &owner
		return nil
	})
	if err != nil {
		// the rolled-back cart row no longer exists
		u.ID, u.Cart.ID, u.Cart.Owner = 0, cartID, nil
	}
	return err
}

func (r *GormRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *GormRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.get(ctx, "username = ?", username)
}

func (r *GormRepo) get(ctx context.Context, where string, arg any) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var row Record
	err := r.db.WithContext(ctx).Where(where, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	c, err := cart.NewGormRepo(r.db).GetByID(ctx, row.CartID)
	if err != nil {
		return nil, fmt.Errorf("user %d cart: %w", row.ID, err)
	}
	u := &User{ID: row.ID, Username: row.Username, Password: row.Password, Cart: c}
	owner := u.Owner()
	u.Cart.Owner = &owner
	return u, nil
}

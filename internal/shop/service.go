// Package shop orchestrates the boundary operations over the catalog, cart,
// order and user aggregates. Every collaborator is passed in through Deps.
package shop

import (
	"context"
	"time"

	"github.com/MikeMC777/tienda-ecom/internal/apperr"
	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/catalog"
	"github.com/MikeMC777/tienda-ecom/internal/logger"
	"github.com/MikeMC777/tienda-ecom/internal/order"
	"github.com/MikeMC777/tienda-ecom/internal/user"
)

type Deps struct {
	Items  catalog.Repository
	Carts  cart.Repository
	Orders order.Repository
	Users  user.Repository
	Hasher user.Hasher
	Log    *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	items  catalog.Repository
	carts  cart.Repository
	orders order.Repository
	users  *user.Service
	log    *logger.Logger
	now    func() time.Time
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		items:  d.Items,
		carts:  d.Carts,
		orders: d.Orders,
		users:  user.NewService(d.Users, d.Hasher, log),
		log:    log.With("service", "shop"),
		now:    now,
	}
}

// ModifyCartRequest is the body of the add/remove cart endpoints.
// swagger:model ModifyCartRequest
type ModifyCartRequest struct {
	Username string `json:"username" example:"goofy"`
	ItemID   int64  `json:"itemId"   example:"1"`
	Quantity int    `json:"quantity" example:"1"`
}

func (s *Service) CreateUser(ctx context.Context, in user.CreateUserRequest) (*user.User, error) {
	return s.users.CreateUser(ctx, in)
}

func (s *Service) FindUserByID(ctx context.Context, id int64) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) FindUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *Service) ListItems(ctx context.Context) ([]catalog.Item, error) {
	return s.items.List(ctx)
}

func (s *Service) GetItem(ctx context.Context, id int64) (*catalog.Item, error) {
	return s.items.GetByID(ctx, id)
}

// FindItemsByName reports catalog.ErrNotFound when nothing matches.
func (s *Service) FindItemsByName(ctx context.Context, name string) ([]catalog.Item, error) {
	items, err := s.items.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, catalog.ErrNotFound
	}
	return items, nil
}

func (s *Service) AddToCart(ctx context.Context, in ModifyCartRequest) (*cart.Cart, error) {
	return s.modifyCart(ctx, "add", in, func(c *cart.Cart, it catalog.Item) error {
		return c.AddItem(it, in.Quantity)
	})
}

func (s *Service) RemoveFromCart(ctx context.Context, in ModifyCartRequest) (*cart.Cart, error) {
	return s.modifyCart(ctx, "remove", in, func(c *cart.Cart, it catalog.Item) error {
		return c.RemoveItem(it, in.Quantity)
	})
}

// modifyCart resolves user and item before mutating, so a failed lookup never
// touches the cart.
func (s *Service) modifyCart(ctx context.Context, op string, in ModifyCartRequest, mutate func(*cart.Cart, catalog.Item) error) (*cart.Cart, error) {
	log := s.log.With("op", op, "username", in.Username, "item_id", in.ItemID, "quantity", in.Quantity)

	u, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		s.logFail(log, "item lookup", err)
		return nil, err
	}
	c := u.Cart
	if c == nil {
		log.Error("FAIL: user has no cart")
		return nil, cart.ErrNotFound
	}
	if err := mutate(c, *it); err != nil {
		s.logFail(log, "cart "+op, err)
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		log.Error("FAIL: cart save", "error", err)
		return nil, err
	}
	log.Info("SUCCESS: cart updated", "items", len(c.Items), "total", c.DisplayTotal())
	return c, nil
}

// SubmitOrder snapshots the user's cart into a persisted order. The cart is
// not cleared.
func (s *Service) SubmitOrder(ctx context.Context, username string) (*order.Order, error) {
	log := s.log.With("op", "submit", "username", username)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	o, err := order.CreateFromCart(u.Cart, s.now())
	if err != nil {
		log.Error("FAIL: order creation", "error", err)
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		log.Error("FAIL: order save", "error", err)
		return nil, err
	}
	log.Info("SUCCESS: order submitted", "order_id", o.ID, "total", o.Total().StringFixed(2))
	return o, nil
}

func (s *Service) OrderHistory(ctx context.Context, username string) ([]*order.Order, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, u.Owner())
	if err != nil {
		s.log.Error("FAIL: order history", "username", username, "error", err)
		return nil, err
	}
	return orders, nil
}

// logFail warns on domain outcomes and errors on collaborator failures.
func (s *Service) logFail(log *logger.Logger, what string, err error) {
	if apperr.KindOf(err) == apperr.KindUnknown {
		log.Error("FAIL: "+what, "error", err)
		return
	}
	log.Warn("FAIL: "+what, "reason", err.Error())
}

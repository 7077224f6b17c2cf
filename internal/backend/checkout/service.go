// Package checkout quotes a user's cart and turns it into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyCart = errors.New("cart is empty")

type CartItem struct {
	ProductID int64
	Quantity  int
}

type CartReader interface {
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
	ClearCart(ctx context.Context, userID string) error
}

type CatalogReader interface {
	GetProduct(ctx context.Context, id int64) (catalogdomain.Product, error)
}

type OrderRepo interface {
	Create(ctx context.Context, o Order) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type Quote struct {
	Items  []cartdomain.LineItem
	Totals pricing.Totals
}

type Order struct {
	ID        string
	UserID    string
	Items     []cartdomain.LineItem
	Totals    pricing.Totals
	CreatedAt time.Time
}

type Service struct {
	Cart    CartReader
	Catalog CatalogReader
	Orders  OrderRepo

	engine        pricing.Engine
	maxConcurrent int
	now           func() time.Time
}

func NewService(cart CartReader, catalog CatalogReader, orders OrderRepo, engine pricing.Engine, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		Orders:        orders,
		engine:        engine,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// Quote prices the cart against current catalog prices.
func (s *Service) Quote(ctx context.Context, userID string) (Quote, error) {
	items, err := s.Cart.GetCart(ctx, userID)
	if err != nil {
		return Quote{}, err
	}
	if len(items) == 0 {
		return Quote{}, ErrEmptyCart
	}

	lines := make([]cartdomain.LineItem, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Quantity)
			}
			product, err := s.Catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %d: %w", it.ProductID, err)
			}
			lines[idx] = cartdomain.NewLineItem(product, it.Quantity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Quote{}, err
	}

	return Quote{Items: lines, Totals: s.engine.Compute(lines)}, nil
}

// PlaceOrder records the quoted cart and empties it.
func (s *Service) PlaceOrder(ctx context.Context, userID string) (Order, error) {
	q, err := s.Quote(ctx, userID)
	if err != nil {
		return Order{}, err
	}

	order, err := s.Orders.Create(ctx, Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     q.Items,
		Totals:    q.Totals,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return Order{}, fmt.Errorf("record order: %w", err)
	}
	if err := s.Cart.ClearCart(ctx, userID); err != nil {
		return Order{}, fmt.Errorf("clear cart: %w", err)
	}
	return order, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

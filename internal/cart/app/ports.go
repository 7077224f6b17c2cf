package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// Persister is the durable home of the local cart.
type Persister interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Save(ctx context.Context, items []domain.LineItem) error
}

// Marker remembers the product most recently added, for highlighting.
type Marker interface {
	Mark(ctx context.Context, productID int64) error
	Get(ctx context.Context) (int64, bool, error)
	Clear(ctx context.Context) error
}

// CartAPI is the backend cart used while a session is active.
type CartAPI interface {
	Get(ctx context.Context) ([]domain.LineItem, error)
	Add(ctx context.Context, productID int64, qty int) error
	Update(ctx context.Context, productID int64, qty int) error
	Remove(ctx context.Context, productID int64) error
	Checkout(ctx context.Context) (Receipt, error)
}

// Session decides which cart a request goes to.
type Session interface {
	IsAuthenticated() bool
}

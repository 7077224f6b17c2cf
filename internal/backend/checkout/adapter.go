package checkout

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/backend/cart"
)

type CartStoreReader struct {
	store *cart.Store
}

func NewCartStoreReader(store *cart.Store) *CartStoreReader {
	return &CartStoreReader{store: store}
}

func (r *CartStoreReader) GetCart(ctx context.Context, userID string) ([]CartItem, error) {
	lines, err := r.store.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]CartItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items, nil
}

func (r *CartStoreReader) ClearCart(ctx context.Context, userID string) error {
	return r.store.Clear(ctx, userID)
}

// Package durable keeps the anonymous cart and the recently-added marker in a
// storage.Store.
package durable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/pkg/storage"
)

type Cart struct {
	store storage.Store
}

func NewCart(store storage.Store) *Cart {
	return &Cart{store: store}
}

// Load returns nil for a cart that was never saved. Lines with a quantity
// below 1 are dropped and duplicate ids are merged into the first one.
func (c *Cart) Load(ctx context.Context) ([]domain.LineItem, error) {
	raw, err := c.store.Get(ctx, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var saved []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	items := make([]domain.LineItem, 0, len(saved))
	for _, it := range saved {
		if it.Quantity < 1 {
			continue
		}
		if i := domain.IndexOf(items, it.ProductID); i >= 0 {
			items[i].Quantity += it.Quantity
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func (c *Cart) Save(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return c.store.Set(ctx, storage.KeyCart, string(b))
}

// Marker stores the id of the last added product. Give it a store that does
// not outlive the process.
type Marker struct {
	store storage.Store
}

func NewMarker(store storage.Store) *Marker {
	return &Marker{store: store}
}

func (m *Marker) Mark(ctx context.Context, productID int64) error {
	return m.store.Set(ctx, storage.KeyRecentlyAdded, strconv.FormatInt(productID, 10))
}

func (m *Marker) Get(ctx context.Context) (int64, bool, error) {
	raw, err := m.store.Get(ctx, storage.KeyRecentlyAdded)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

func (m *Marker) Clear(ctx context.Context) error {
	return m.store.Delete(ctx, storage.KeyRecentlyAdded)
}

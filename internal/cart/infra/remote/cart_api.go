// Package remote talks to the backend cart endpoints.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/dwikikusuma/storefront/pkg/apiclient"
	"github.com/shopspring/decimal"
)

type CartAPI struct {
	c *apiclient.Client
}

func NewCartAPI(c *apiclient.Client) *CartAPI {
	return &CartAPI{c: c}
}

type itemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity,omitempty"`
}

// Get accepts {"items": [...]} or a bare array.
func (a *CartAPI) Get(ctx context.Context) ([]domain.LineItem, error) {
	var raw json.RawMessage
	if err := a.c.Get(ctx, apiclient.EndpointCart, nil, &raw); err != nil {
		return nil, err
	}
	return decodeItems(raw)
}

func (a *CartAPI) Add(ctx context.Context, productID int64, qty int) error {
	return a.c.Post(ctx, apiclient.EndpointCartAdd, itemRequest{ProductID: productID, Quantity: qty}, nil)
}

func (a *CartAPI) Update(ctx context.Context, productID int64, qty int) error {
	return a.c.Put(ctx, apiclient.EndpointCartUpdate, itemRequest{ProductID: productID, Quantity: qty}, nil)
}

func (a *CartAPI) Remove(ctx context.Context, productID int64) error {
	return a.c.Delete(ctx, apiclient.EndpointCartRemove, itemRequest{ProductID: productID}, nil)
}

type receiptJSON struct {
	OrderID   string            `json:"order_id"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Tax       decimal.Decimal   `json:"tax"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}

func (a *CartAPI) Checkout(ctx context.Context) (app.Receipt, error) {
	var r receiptJSON
	if err := a.c.Post(ctx, apiclient.EndpointCheckout, struct{}{}, &r); err != nil {
		return app.Receipt{}, err
	}
	return app.Receipt{
		OrderID: r.OrderID,
		Items:   r.Items,
		Totals: pricing.Totals{
			ItemCount: r.ItemCount,
			Subtotal:  r.Subtotal,
			Tax:       r.Tax,
			Total:     r.Total,
		},
		CreatedAt: r.CreatedAt,
	}, nil
}

func decodeItems(raw json.RawMessage) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		Items []domain.LineItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return wrapped.Items, nil
}

var _ app.CartAPI = (*CartAPI)(nil)

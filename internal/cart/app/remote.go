package app

import (
	"context"
	"log/slog"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
)

// RemoteCart sends cart operations to the backend. It keeps no copy of the
// remote state; every read goes over the wire.
type RemoteCart struct {
	api    CartAPI
	engine pricing.Engine
	log    *slog.Logger
}

func NewRemoteCart(api CartAPI, engine pricing.Engine, log *slog.Logger) *RemoteCart {
	if log == nil {
		log = slog.Default()
	}
	return &RemoteCart{api: api, engine: engine, log: log}
}

func (r *RemoteCart) Add(ctx context.Context, productID int64, qty int) error {
	if qty < 1 {
		qty = 1
	}
	return r.logged("add", productID, r.api.Add(ctx, productID, qty))
}

// UpdateQuantity mirrors the local rule: qty <= 0 removes the line.
func (r *RemoteCart) UpdateQuantity(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, productID)
	}
	return r.logged("update", productID, r.api.Update(ctx, productID, qty))
}

// Adjust reads the current quantity first. Concurrent writers on another
// device can make the result stale.
func (r *RemoteCart) Adjust(ctx context.Context, productID int64, delta int) error {
	items, err := r.Items(ctx)
	if err != nil {
		return err
	}
	i := domain.IndexOf(items, productID)
	if i < 0 || delta == 0 {
		return nil
	}
	return r.UpdateQuantity(ctx, productID, items[i].Quantity+delta)
}

func (r *RemoteCart) Remove(ctx context.Context, productID int64) error {
	return r.logged("remove", productID, r.api.Remove(ctx, productID))
}

// Clear removes every line. It stops at the first failure.
func (r *RemoteCart) Clear(ctx context.Context) error {
	items, err := r.Items(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := r.Remove(ctx, it.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func (r *RemoteCart) Items(ctx context.Context) ([]domain.LineItem, error) {
	items, err := r.api.Get(ctx)
	if err != nil {
		return nil, r.logged("get", 0, err)
	}
	return items, nil
}

func (r *RemoteCart) Totals(ctx context.Context) (pricing.Totals, error) {
	items, err := r.Items(ctx)
	if err != nil {
		return pricing.Totals{}, err
	}
	return r.engine.Compute(items), nil
}

func (r *RemoteCart) Checkout(ctx context.Context) (Receipt, error) {
	rc, err := r.api.Checkout(ctx)
	if err != nil {
		return Receipt{}, r.logged("checkout", 0, err)
	}
	rc.Mode = ModeRemote
	return rc, nil
}

func (r *RemoteCart) logged(op string, productID int64, err error) error {
	if err != nil {
		r.log.Error("remote cart call failed",
			slog.String("op", op),
			slog.Int64("product_id", productID),
			slog.Any("err", err))
	}
	return err
}

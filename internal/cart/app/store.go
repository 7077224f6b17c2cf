package app

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
)

type Op string

const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpRemove  Op = "remove"
	OpClear   Op = "clear"
	OpRestore Op = "restore"
)

// Change is delivered to subscribers after every state change.
type Change struct {
	Op        Op
	ProductID int64
	Items     []domain.LineItem
	Totals    pricing.Totals
}

// Store owns the local cart. It is the only writer of the persisted copy.
// Mutations never fail: a persistence error is logged and the in-memory
// state stays authoritative.
type Store struct {
	mu    sync.Mutex
	items []domain.LineItem

	persist Persister
	engine  pricing.Engine
	log     *slog.Logger

	lmu       sync.RWMutex
	listeners map[int]func(Change)
	nextID    int
}

func NewStore(persist Persister, engine pricing.Engine, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		persist:   persist,
		engine:    engine,
		log:       log,
		listeners: make(map[int]func(Change)),
	}
}

// Restore replaces the in-memory cart with the persisted one.
func (s *Store) Restore(ctx context.Context) error {
	items, err := s.persist.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = items
	snap := slices.Clone(s.items)
	s.mu.Unlock()

	s.notify(Change{Op: OpRestore, Items: snap, Totals: s.engine.Compute(snap)})
	return nil
}

// Add merges qty into the existing line for p, or appends a new line.
// qty below 1 counts as 1.
func (s *Store) Add(ctx context.Context, p catalog.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mutate(ctx, OpAdd, p.ID, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		if i := domain.IndexOf(items, p.ID); i >= 0 {
			items[i].Quantity += qty
			return items, true
		}
		return append(items, domain.NewLineItem(p, qty)), true
	})
}

// UpdateQuantity sets the quantity exactly; qty <= 0 removes the line.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, qty int) {
	if qty <= 0 {
		s.Remove(ctx, productID)
		return
	}
	s.mutate(ctx, OpUpdate, productID, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := domain.IndexOf(items, productID)
		if i < 0 || items[i].Quantity == qty {
			return items, false
		}
		items[i].Quantity = qty
		return items, true
	})
}

// Adjust moves the quantity by delta, removing the line if it drops to 0.
func (s *Store) Adjust(ctx context.Context, productID int64, delta int) {
	if delta == 0 {
		return
	}
	s.mutate(ctx, OpUpdate, productID, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := domain.IndexOf(items, productID)
		if i < 0 {
			return items, false
		}
		if q := items[i].Quantity + delta; q > 0 {
			items[i].Quantity = q
			return items, true
		}
		return slices.Delete(items, i, i+1), true
	})
}

func (s *Store) Remove(ctx context.Context, productID int64) {
	s.mutate(ctx, OpRemove, productID, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := domain.IndexOf(items, productID)
		if i < 0 {
			return items, false
		}
		return slices.Delete(items, i, i+1), true
	})
}

func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, OpClear, 0, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		return items[:0], true
	})
}

// Drain empties the cart and returns what it held, in one step.
func (s *Store) Drain(ctx context.Context) []domain.LineItem {
	var taken []domain.LineItem
	s.mutate(ctx, OpClear, 0, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		taken = slices.Clone(items)
		return items[:0], len(items) > 0
	})
	return taken
}

// Snapshot returns a copy the caller may keep.
func (s *Store) Snapshot() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Totals() pricing.Totals {
	return s.engine.Compute(s.Snapshot())
}

// Subscribe registers fn for every Change and returns a func that removes it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// mutate applies fn under the lock, persists, then notifies outside the lock.
func (s *Store) mutate(ctx context.Context, op Op, productID int64, fn func([]domain.LineItem) ([]domain.LineItem, bool)) {
	s.mu.Lock()
	next, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.items = next
	snap := slices.Clone(next)
	if err := s.persist.Save(ctx, snap); err != nil {
		s.log.Warn("persist cart failed",
			slog.String("op", string(op)),
			slog.Int64("product_id", productID),
			slog.Any("err", err))
	}
	s.mu.Unlock()

	s.notify(Change{Op: op, ProductID: productID, Items: snap, Totals: s.engine.Compute(snap)})
}

func (s *Store) notify(c Change) {
	s.lmu.RLock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

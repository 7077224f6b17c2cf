package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestStore(p *memPersister) *Store {
	return NewStore(p, pricing.New(pricing.DefaultTaxRate), logger.Discard())
}

func TestStore_AddSameProductTwice(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p)

	s.Add(ctx, product(1, "10"), 1)
	s.Add(ctx, product(1, "10"), 1)

	items := s.Snapshot()
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].ProductID)
	require.Equal(t, 2, items[0].Quantity)
	require.Equal(t, 2, p.saves(), "every add persists")
}

func TestStore_AddKeepsInsertionOrderAndDenormalizes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})

	s.Add(ctx, product(3, "1.50"), 2)
	s.Add(ctx, product(1, "10"), 0)
	s.Add(ctx, product(3, "99"), 1)

	want := []domain.LineItem{
		domain.NewLineItem(product(3, "1.50"), 3),
		domain.NewLineItem(product(1, "10"), 1),
	}
	if diff := cmp.Diff(want, s.Snapshot(), decimalEqual); diff != "" {
		t.Fatalf("cart mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	for _, qty := range []int{0, -1} {
		t.Run("non-positive removes", func(t *testing.T) {
			s := newTestStore(&memPersister{})
			s.Add(ctx, product(1, "10"), 3)
			s.Add(ctx, product(2, "5"), 1)

			s.UpdateQuantity(ctx, 1, qty)

			items := s.Snapshot()
			require.Len(t, items, 1)
			require.Equal(t, int64(2), items[0].ProductID)
		})
	}

	t.Run("sets exactly", func(t *testing.T) {
		s := newTestStore(&memPersister{})
		s.Add(ctx, product(1, "10"), 3)
		s.UpdateQuantity(ctx, 1, 7)
		require.Equal(t, 7, s.Snapshot()[0].Quantity)
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		p := &memPersister{}
		s := newTestStore(p)
		s.Add(ctx, product(1, "10"), 1)
		before := p.saves()

		s.UpdateQuantity(ctx, 42, 5)
		s.UpdateQuantity(ctx, 42, 0)

		require.Equal(t, before, p.saves())
		require.Len(t, s.Snapshot(), 1)
	})
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p)
	s.Add(ctx, product(1, "10"), 2)

	var events int
	s.Subscribe(func(Change) { events++ })
	before := s.Snapshot()

	s.Remove(ctx, 99)

	if diff := cmp.Diff(before, s.Snapshot(), decimalEqual); diff != "" {
		t.Fatalf("state changed:\n%s", diff)
	}
	require.Equal(t, 1, p.saves())
	require.Zero(t, events)
}

func TestStore_Adjust(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})
	s.Add(ctx, product(1, "10"), 1)

	s.Adjust(ctx, 1, +1)
	require.Equal(t, 2, s.Snapshot()[0].Quantity)

	s.Adjust(ctx, 1, -1)
	require.Equal(t, 1, s.Snapshot()[0].Quantity)

	s.Adjust(ctx, 1, -1)
	require.Empty(t, s.Snapshot())

	s.Adjust(ctx, 5, +1)
	require.Empty(t, s.Snapshot())
}

func TestStore_ClearAndDrain(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p)
	s.Add(ctx, product(1, "10"), 2)
	s.Add(ctx, product(2, "5"), 1)

	taken := s.Drain(ctx)
	require.Len(t, taken, 2)
	require.Empty(t, s.Snapshot())
	require.Empty(t, p.saved[len(p.saved)-1])

	require.Empty(t, s.Drain(ctx))

	s.Add(ctx, product(1, "10"), 1)
	s.Clear(ctx)
	require.Empty(t, s.Snapshot())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})
	s.Add(ctx, product(1, "10"), 1)

	snap := s.Snapshot()
	snap[0].Quantity = 100

	require.Equal(t, 1, s.Snapshot()[0].Quantity)
}

func TestStore_PersistFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{fail: errors.New("disk full")})

	s.Add(ctx, product(1, "10"), 1)

	require.Len(t, s.Snapshot(), 1)
}

func TestStore_SubscribeReceivesTotals(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	s.Add(ctx, product(1, "10"), 2)
	s.Add(ctx, product(2, "5"), 1)

	require.Len(t, got, 2)
	last := got[1]
	require.Equal(t, OpAdd, last.Op)
	require.Equal(t, int64(2), last.ProductID)
	require.Equal(t, 3, last.Totals.ItemCount)
	require.Equal(t, "$27.13", last.Totals.Display().Total)

	unsubscribe()
	s.Remove(ctx, 1)
	require.Len(t, got, 2)
}

func TestStore_Restore(t *testing.T) {
	ctx := context.Background()
	saved := []domain.LineItem{
		domain.NewLineItem(product(2, "5"), 1),
		domain.NewLineItem(product(1, "10"), 2),
	}
	s := newTestStore(&memPersister{load: saved})

	var restored bool
	s.Subscribe(func(c Change) { restored = c.Op == OpRestore })

	require.NoError(t, s.Restore(ctx))
	require.True(t, restored)
	if diff := cmp.Diff(saved, s.Snapshot(), decimalEqual); diff != "" {
		t.Fatalf("restore mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ConcurrentAddIncrement(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p)

	var mu sync.Mutex
	seen := 0
	s.Subscribe(func(Change) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	const N = 100
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			s.Add(ctx, product(7, "1"), 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent add failed: %v", err)
	}

	items := s.Snapshot()
	if len(items) != 1 || items[0].Quantity != N {
		t.Fatalf("expected one line with quantity=%d, got %+v", N, items)
	}
	require.Equal(t, N, p.saves())
	require.Equal(t, N, seen)
	require.Equal(t, N, p.saved[N-1][0].Quantity, "last persisted copy is the latest state")
}

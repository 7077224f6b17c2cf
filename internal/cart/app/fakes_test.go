package app

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func product(id int64, price string) catalog.Product {
	return catalog.Product{
		ID:          id,
		Name:        "product",
		Description: "desc",
		Price:       decimal.RequireFromString(price),
		Image:       "img.jpg",
	}
}

type memPersister struct {
	mu    sync.Mutex
	saved [][]domain.LineItem
	fail  error
	load  []domain.LineItem
}

func (m *memPersister) Load(context.Context) ([]domain.LineItem, error) {
	return slices.Clone(m.load), nil
}

func (m *memPersister) Save(_ context.Context, items []domain.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, slices.Clone(items))
	return m.fail
}

func (m *memPersister) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

type fakeSession struct{ authed bool }

func (f *fakeSession) IsAuthenticated() bool { return f.authed }

type memMarker struct {
	id  int64
	set bool
}

func (m *memMarker) Mark(_ context.Context, id int64) error { m.id, m.set = id, true; return nil }
func (m *memMarker) Get(context.Context) (int64, bool, error) { return m.id, m.set, nil }
func (m *memMarker) Clear(context.Context) error            { m.id, m.set = 0, false; return nil }

// fakeAPI is a backend cart held in memory. failWith, when set, is returned by
// every call and optionally runs onFail first.
type fakeAPI struct {
	items    []domain.LineItem
	catalog  map[int64]catalog.Product
	calls    []string
	failWith error
	onFail   func()
	receipt  Receipt
}

func (f *fakeAPI) fail(call string) error {
	f.calls = append(f.calls, call)
	if f.failWith != nil {
		if f.onFail != nil {
			f.onFail()
		}
		return f.failWith
	}
	return nil
}

func (f *fakeAPI) Get(context.Context) ([]domain.LineItem, error) {
	if err := f.fail("get"); err != nil {
		return nil, err
	}
	return slices.Clone(f.items), nil
}

func (f *fakeAPI) Add(_ context.Context, id int64, qty int) error {
	if err := f.fail("add"); err != nil {
		return err
	}
	if i := domain.IndexOf(f.items, id); i >= 0 {
		f.items[i].Quantity += qty
		return nil
	}
	p, ok := f.catalog[id]
	if !ok {
		return errors.New("unknown product")
	}
	f.items = append(f.items, domain.NewLineItem(p, qty))
	return nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, qty int) error {
	if err := f.fail("update"); err != nil {
		return err
	}
	if i := domain.IndexOf(f.items, id); i >= 0 {
		f.items[i].Quantity = qty
	}
	return nil
}

func (f *fakeAPI) Remove(_ context.Context, id int64) error {
	if err := f.fail("remove"); err != nil {
		return err
	}
	if i := domain.IndexOf(f.items, id); i >= 0 {
		f.items = slices.Delete(f.items, i, i+1)
	}
	return nil
}

func (f *fakeAPI) Checkout(context.Context) (Receipt, error) {
	if err := f.fail("checkout"); err != nil {
		return Receipt{}, err
	}
	rc := f.receipt
	rc.Items = slices.Clone(f.items)
	f.items = nil
	return rc, nil
}

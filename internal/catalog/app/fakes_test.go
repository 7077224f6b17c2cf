package app

import (
	"context"
	"strings"
	"sync"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type fakeSource struct {
	mu       sync.Mutex
	products []domain.Product
	queries  []domain.Query
	err      error
}

func seeded() *fakeSource {
	names := []string{"Headphones", "Watch", "Speaker", "Charging Pad", "USB-C Hub", "Keyboard"}
	cats := []string{"audio", "wearables", "audio", "accessories", "accessories", "accessories"}
	src := &fakeSource{}
	for i, n := range names {
		src.products = append(src.products, domain.Product{
			ID:       int64(i + 1),
			Name:     n,
			Price:    decimal.NewFromInt(int64(10 * (i + 1))),
			Category: cats[i],
		})
	}
	return src
}

func (f *fakeSource) seen() []domain.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Query(nil), f.queries...)
}

func (f *fakeSource) List(_ context.Context, q domain.Query) (domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return domain.Page{}, f.err
	}

	var match []domain.Product
	for _, p := range f.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
			continue
		}
		match = append(match, p)
	}
	start := (q.Page - 1) * q.Limit
	if start > len(match) {
		start = len(match)
	}
	end := min(start+q.Limit, len(match))
	return domain.Page{Products: match[start:end], Page: q.Page, Total: len(match), HasMore: end < len(match)}, nil
}

func (f *fakeSource) Search(ctx context.Context, term string, q domain.Query) (domain.Page, error) {
	q.Search = term
	return f.List(ctx, q)
}

func (f *fakeSource) Get(_ context.Context, id int64) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrInvalidInput
}

func (f *fakeSource) Categories(context.Context) ([]string, error) {
	return []string{"accessories", "audio", "wearables"}, nil
}

func (f *fakeSource) Recommendations(context.Context) ([]domain.Product, error) {
	return f.products[:2], nil
}

type fakeActions struct {
	favorites []int64
	views     []int64
	err       error
}

func (f *fakeActions) AddFavorite(_ context.Context, id int64) error {
	f.favorites = append(f.favorites, id)
	return f.err
}

func (f *fakeActions) Favorites(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.favorites))
	for _, id := range f.favorites {
		out = append(out, domain.Product{ID: id})
	}
	return out, f.err
}

func (f *fakeActions) RecordView(_ context.Context, id int64) error {
	f.views = append(f.views, id)
	return f.err
}

func (f *fakeActions) RecentlyViewed(context.Context) ([]domain.Product, error) {
	return nil, f.err
}

type fakeSession bool

func (f fakeSession) IsAuthenticated() bool { return bool(f) }

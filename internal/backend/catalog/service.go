// Package catalog serves the product list of the development backend.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter selects a window of products. Search matches name or description,
// Category is compared case-insensitively.
type Filter struct {
	Search   string
	Category string
	Offset   int
	Limit    int
}

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, f Filter) ([]domain.Product, int, error)
	Categories(ctx context.Context) ([]string, error)
}

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Name == "" || !p.Price.IsPositive() {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, q domain.Query) (domain.Page, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}

	offset := (q.Page - 1) * q.Limit
	products, total, err := s.repo.List(ctx, Filter{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Offset:   offset,
		Limit:    q.Limit,
	})
	if err != nil {
		return domain.Page{}, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return domain.Page{
		Products: products,
		Page:     q.Page,
		Total:    total,
		HasMore:  offset+len(products) < total,
	}, nil
}

func (s *Service) Search(ctx context.Context, term string, q domain.Query) (domain.Page, error) {
	if strings.TrimSpace(term) == "" {
		return domain.Page{}, ErrInvalidInput
	}
	q.Search = term
	return s.ListProducts(ctx, q)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Signals is what a user has shown interest in plus how many carts hold
// each product.
type Signals struct {
	Interested []int64
	Popularity map[int64]int
}

// Recommend ranks products from the categories the user touched first,
// then by cart popularity, then by id. Products the user already
// interacted with are left out.
func (s *Service) Recommend(ctx context.Context, sig Signals, limit int) ([]domain.Product, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = 5
	}
	all, _, err := s.repo.List(ctx, Filter{Limit: MaxLimit})
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(sig.Interested))
	for _, id := range sig.Interested {
		seen[id] = true
	}
	liked := make(map[string]bool)
	for _, p := range all {
		if seen[p.ID] && p.Category != "" {
			liked[strings.ToLower(p.Category)] = true
		}
	}

	candidates := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if !seen[p.ID] {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		la, lb := liked[strings.ToLower(a.Category)], liked[strings.ToLower(b.Category)]
		if la != lb {
			return la
		}
		pa, pb := sig.Popularity[a.ID], sig.Popularity[b.ID]
		if pa != pb {
			return pa > pb
		}
		return a.ID < b.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
}

func NewMemoryRepo(seed ...domain.Product) *MemoryRepo {
	r := &MemoryRepo{products: make(map[int64]domain.Product)}
	for _, p := range seed {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *MemoryRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List(_ context.Context, f Filter) ([]domain.Product, int, error) {
	r.mu.RLock()
	matched := make([]domain.Product, 0, len(r.products))
	terms := searchTerms(f.Search)
	for _, p := range r.products {
		if !matchesAll(p, terms) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		matched = append(matched, p)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if f.Offset >= total {
		return []domain.Product{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

// searchTerms splits a search phrase into lowercase words.
func searchTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// matchesAll reports whether every term appears in the name or description.
func matchesAll(p domain.Product, terms []string) bool {
	name, desc := strings.ToLower(p.Name), strings.ToLower(p.Description)
	for _, t := range terms {
		if !strings.Contains(name, t) && !strings.Contains(desc, t) {
			return false
		}
	}
	return true
}

func (r *MemoryRepo) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[string]struct{})
	for _, p := range r.products {
		if p.Category != "" {
			set[p.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// DemoProducts is the catalog the storefront shipped with.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          1,
			Name:        "Premium Wireless Headphones",
			Description: "High-quality audio with noise cancellation and 30-hour battery life.",
			Price:       decimal.RequireFromString("299.99"),
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=300&fit=crop",
			Category:    "audio",
		},
		{
			ID:          2,
			Name:        "Smart Fitness Watch",
			Description: "Track your health and fitness with advanced sensors and GPS.",
			Price:       decimal.RequireFromString("199.99"),
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=300&fit=crop",
			Category:    "wearables",
		},
		{
			ID:          3,
			Name:        "Portable Bluetooth Speaker",
			Description: "Waterproof speaker with 360-degree sound and 12-hour playtime.",
			Price:       decimal.RequireFromString("89.99"),
			Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=400&h=300&fit=crop",
			Category:    "audio",
		},
		{
			ID:          4,
			Name:        "Wireless Charging Pad",
			Description: "Fast wireless charging for all Qi-enabled devices with LED indicator.",
			Price:       decimal.RequireFromString("49.99"),
			Image:       "https://images.unsplash.com/photo-1586953208448-b95a79798f07?w=400&h=300&fit=crop",
			Category:    "accessories",
		},
		{
			ID:          5,
			Name:        "USB-C Hub",
			Description: "7-in-1 hub with HDMI, USB 3.0, SD card reader, and power delivery.",
			Price:       decimal.RequireFromString("79.99"),
			Image:       "https://images.unsplash.com/photo-1625842268584-8f3296236761?w=400&h=300&fit=crop",
			Category:    "accessories",
		},
		{
			ID:          6,
			Name:        "Mechanical Keyboard",
			Description: "RGB backlit mechanical keyboard with tactile switches and aluminum frame.",
			Price:       decimal.RequireFromString("159.99"),
			Image:       "https://images.unsplash.com/photo-1541140532154-b024d705b90a?w=400&h=300&fit=crop",
			Category:    "accessories",
		},
	}
}

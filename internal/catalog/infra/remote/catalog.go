// Package remote reads the catalog and the user's product lists from the
// backend and turns its loosely shaped responses into domain values.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/pkg/apiclient"
)

type Catalog struct {
	c *apiclient.Client
}

func NewCatalog(c *apiclient.Client) *Catalog {
	return &Catalog{c: c}
}

// List reads an unfiltered or category-filtered page. Searches go through
// Search; q.Search is not sent.
func (r *Catalog) List(ctx context.Context, q domain.Query) (domain.Page, error) {
	v := pageParams(q)
	var raw json.RawMessage
	if err := r.c.Get(ctx, apiclient.EndpointProducts, v, &raw); err != nil {
		return domain.Page{}, err
	}
	return DecodePage(raw, q)
}

func (r *Catalog) Search(ctx context.Context, term string, q domain.Query) (domain.Page, error) {
	v := pageParams(q)
	v.Set("q", term)
	var raw json.RawMessage
	if err := r.c.Get(ctx, apiclient.EndpointSearch, v, &raw); err != nil {
		return domain.Page{}, err
	}
	return DecodePage(raw, q)
}

func (r *Catalog) Get(ctx context.Context, id int64) (domain.Product, error) {
	var raw json.RawMessage
	if err := r.c.Get(ctx, apiclient.ProductPath(id), nil, &raw); err != nil {
		return domain.Product{}, err
	}
	var wrapped struct {
		Product *domain.Product `json:"product"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Product != nil {
		return *wrapped.Product, nil
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return p, nil
}

func (r *Catalog) Categories(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := r.c.Get(ctx, apiclient.EndpointCategories, nil, &raw); err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return wrapped.Categories, nil
}

func (r *Catalog) Recommendations(ctx context.Context) ([]domain.Product, error) {
	return r.products(ctx, apiclient.EndpointRecommendations)
}

func (r *Catalog) AddFavorite(ctx context.Context, productID int64) error {
	return r.c.Post(ctx, apiclient.EndpointFavorites, productRef{ProductID: productID}, nil)
}

func (r *Catalog) Favorites(ctx context.Context) ([]domain.Product, error) {
	return r.products(ctx, apiclient.EndpointFavorites)
}

func (r *Catalog) RecordView(ctx context.Context, productID int64) error {
	return r.c.Post(ctx, apiclient.EndpointRecentlyViewed, productRef{ProductID: productID}, nil)
}

func (r *Catalog) RecentlyViewed(ctx context.Context) ([]domain.Product, error) {
	return r.products(ctx, apiclient.EndpointRecentlyViewed)
}

type productRef struct {
	ProductID int64 `json:"product_id"`
}

func (r *Catalog) products(ctx context.Context, endpoint string) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := r.c.Get(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	page, err := DecodePage(raw, domain.Query{Page: 1})
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

// DecodePage accepts a bare product array or an object carrying the products
// under "products" or "recommended_products", with optional page, total and
// has_more. Missing paging fields are derived from q.
func DecodePage(raw json.RawMessage, q domain.Query) (domain.Page, error) {
	if len(raw) == 0 {
		return domain.Page{Page: max(q.Page, 1)}, nil
	}

	var bare []domain.Product
	if err := json.Unmarshal(raw, &bare); err == nil {
		return domain.Page{
			Products: bare,
			Page:     max(q.Page, 1),
			Total:    len(bare),
			HasMore:  q.Limit > 0 && len(bare) >= q.Limit,
		}, nil
	}

	var env struct {
		Products    []domain.Product `json:"products"`
		Recommended []domain.Product `json:"recommended_products"`
		Page        *int             `json:"page"`
		Total       *int             `json:"total"`
		HasMore     *bool            `json:"has_more"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.Page{}, fmt.Errorf("decode products: %w", err)
	}

	p := domain.Page{Products: env.Products, Page: max(q.Page, 1)}
	if p.Products == nil {
		p.Products = env.Recommended
	}
	if env.Page != nil {
		p.Page = *env.Page
	}
	p.Total = len(p.Products)
	if env.Total != nil {
		p.Total = *env.Total
	}
	switch {
	case env.HasMore != nil:
		p.HasMore = *env.HasMore
	case env.Total != nil && q.Limit > 0:
		p.HasMore = p.Page*q.Limit < p.Total
	default:
		p.HasMore = q.Limit > 0 && len(p.Products) >= q.Limit
	}
	return p, nil
}

func pageParams(q domain.Query) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

var (
	_ app.Source      = (*Catalog)(nil)
	_ app.UserActions = (*Catalog)(nil)
)

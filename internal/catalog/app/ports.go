package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// Source is where product records come from. The Accessor routes every
// non-empty search to Search, so List implementations may ignore q.Search.
type Source interface {
	List(ctx context.Context, q domain.Query) (domain.Page, error)
	Search(ctx context.Context, term string, q domain.Query) (domain.Page, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Recommendations(ctx context.Context) ([]domain.Product, error)
}

// UserActions are the per-user lists kept by the backend.
type UserActions interface {
	AddFavorite(ctx context.Context, productID int64) error
	Favorites(ctx context.Context) ([]domain.Product, error)
	RecordView(ctx context.Context, productID int64) error
	RecentlyViewed(ctx context.Context) ([]domain.Product, error)
}

type Session interface {
	IsAuthenticated() bool
}

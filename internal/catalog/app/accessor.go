package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrLoginRequired = errors.New("login required")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Accessor is the read side of the catalog plus the user lists hanging off it.
type Accessor struct {
	src     Source
	actions UserActions
	session Session
	log     *slog.Logger
}

func NewAccessor(src Source, actions UserActions, session Session, log *slog.Logger) *Accessor {
	if log == nil {
		log = slog.Default()
	}
	return &Accessor{src: src, actions: actions, session: session, log: log}
}

// Normalize fills page and limit defaults.
func Normalize(q domain.Query) domain.Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

func (a *Accessor) List(ctx context.Context, q domain.Query) (domain.Page, error) {
	q = Normalize(q)
	var (
		page domain.Page
		err  error
	)
	if q.Search != "" {
		page, err = a.src.Search(ctx, q.Search, q)
	} else {
		page, err = a.src.List(ctx, q)
	}
	if err != nil {
		a.log.Error("list products failed",
			slog.Int("page", q.Page),
			slog.String("search", q.Search),
			slog.String("category", q.Category),
			slog.Any("err", err))
		return domain.Page{}, err
	}
	return page, nil
}

func (a *Accessor) Search(ctx context.Context, term string, q domain.Query) (domain.Page, error) {
	q.Search = term
	return a.List(ctx, q)
}

func (a *Accessor) Get(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}
	return a.src.Get(ctx, id)
}

func (a *Accessor) Categories(ctx context.Context) ([]string, error) {
	return a.src.Categories(ctx)
}

// Recommendations are personal, so anonymous callers get none.
func (a *Accessor) Recommendations(ctx context.Context) ([]domain.Product, error) {
	if !a.session.IsAuthenticated() {
		return nil, nil
	}
	return a.src.Recommendations(ctx)
}

func (a *Accessor) AddFavorite(ctx context.Context, productID int64) error {
	if !a.session.IsAuthenticated() {
		return ErrLoginRequired
	}
	if productID <= 0 {
		return ErrInvalidInput
	}
	return a.actions.AddFavorite(ctx, productID)
}

func (a *Accessor) Favorites(ctx context.Context) ([]domain.Product, error) {
	if !a.session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	return a.actions.Favorites(ctx)
}

// RecordView is best effort: anonymous views are not tracked and failures are
// only logged.
func (a *Accessor) RecordView(ctx context.Context, productID int64) {
	if !a.session.IsAuthenticated() {
		return
	}
	if err := a.actions.RecordView(ctx, productID); err != nil {
		a.log.Warn("record view failed", slog.Int64("product_id", productID), slog.Any("err", err))
	}
}

func (a *Accessor) RecentlyViewed(ctx context.Context) ([]domain.Product, error) {
	if !a.session.IsAuthenticated() {
		return nil, nil
	}
	return a.actions.RecentlyViewed(ctx)
}

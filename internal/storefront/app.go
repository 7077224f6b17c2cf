// Package storefront wires the client core together. Every store is built
// once here and handed to whoever needs it.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/infra/durable"
	cartremote "github.com/dwikikusuma/storefront/internal/cart/infra/remote"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogremote "github.com/dwikikusuma/storefront/internal/catalog/infra/remote"
	"github.com/dwikikusuma/storefront/internal/pricing"
	sessionapp "github.com/dwikikusuma/storefront/internal/session/app"
	sessionremote "github.com/dwikikusuma/storefront/internal/session/infra/remote"
	"github.com/dwikikusuma/storefront/pkg/apiclient"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/storage"
)

type App struct {
	Store   storage.Store
	Client  *apiclient.Client
	Gate    *sessionapp.Gate
	Auth    *sessionapp.Service
	Cart    *cartapp.Service
	Catalog *catalogapp.Accessor
	Engine  pricing.Engine

	cfg config.Config
	log *slog.Logger
}

type options struct {
	store      storage.Store
	httpClient *http.Client
}

type Option func(*options)

// WithStore supplies an already open store instead of opening the
// configured one. The App takes ownership and closes it.
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	store := o.store
	if store == nil {
		var err error
		store, err = storage.Open(ctx, cfg.StorageDriver, cfg.StorageDSN)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	gate, err := sessionapp.NewGate(ctx, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	clientOpts := []apiclient.Option{
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithTokenSource(gate),
		apiclient.WithUnauthorizedHook(gate.ClearAuth),
		apiclient.WithLogger(log),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(o.httpClient))
	}
	client := apiclient.New(cfg.APIBaseURL, clientOpts...)

	engine := pricing.New(cfg.TaxRate)
	local := cartapp.NewStore(durable.NewCart(store), engine, log)
	if err := local.Restore(ctx); err != nil {
		log.Warn("stored cart unreadable, starting empty", slog.Any("err", err))
	}
	remote := cartapp.NewRemoteCart(cartremote.NewCartAPI(client), engine, log)
	// recentlyAdded only lives for the process, like sessionStorage.
	marker := durable.NewMarker(storage.NewMemory())

	products := catalogremote.NewCatalog(client)

	return &App{
		Store:   store,
		Client:  client,
		Gate:    gate,
		Auth:    sessionapp.NewService(sessionremote.NewAuthAPI(client), gate, log),
		Cart:    cartapp.NewService(local, remote, gate, marker, log),
		Catalog: catalogapp.NewAccessor(products, products, gate, log),
		Engine:  engine,
		cfg:     cfg,
		log:     log,
	}, nil
}

// NewBrowser starts a debounced catalog browser. The caller closes it.
func (a *App) NewBrowser(limit int) *catalogapp.Browser {
	return catalogapp.NewBrowser(a.Catalog, a.cfg.SearchDebounce, limit, a.log)
}

func (a *App) Close() error {
	return a.Store.Close()
}

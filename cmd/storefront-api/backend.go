package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/storefront/internal/backend/auth"
	"github.com/dwikikusuma/storefront/internal/backend/cart"
	"github.com/dwikikusuma/storefront/internal/backend/catalog"
	catalogpg "github.com/dwikikusuma/storefront/internal/backend/catalog/postgres"
	"github.com/dwikikusuma/storefront/internal/backend/checkout"
	checkoutpg "github.com/dwikikusuma/storefront/internal/backend/checkout/postgres"
	"github.com/dwikikusuma/storefront/internal/backend/httpapi"
	"github.com/dwikikusuma/storefront/internal/backend/useractions"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/postgres"
)

type backend struct {
	deps httpapi.Deps
	db   *sql.DB // nil for the in-memory catalog
}

func (b *backend) Close(context.Context) error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// buildBackend picks the catalog and order storage named by cfg.CatalogDriver.
func buildBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*backend, error) {
	b := &backend{}

	var (
		products catalog.ProductRepo
		orders   checkout.OrderRepo
	)
	switch strings.ToLower(cfg.CatalogDriver) {
	case "", "memory":
		products = catalog.NewMemoryRepo(catalog.DemoProducts()...)
		orders = checkout.NewMemoryOrders()
	case "postgres":
		db, err := postgres.Open(postgres.Config{
			Host:    cfg.Postgres.Host,
			Port:    cfg.Postgres.Port,
			User:    cfg.Postgres.User,
			Pass:    cfg.Postgres.Pass,
			DB:      cfg.Postgres.DB,
			SSLMode: cfg.Postgres.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		b.db = db

		repo := catalogpg.NewProductRepo(db)
		orderRepo := checkoutpg.NewOrderRepo(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := repo.Seed(ctx, catalog.DemoProducts()); err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := orderRepo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		products, orders = repo, orderRepo
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", cfg.CatalogDriver)
	}
	log.Info("catalog ready", slog.String("driver", cfg.CatalogDriver))

	engine := pricing.New(cfg.TaxRate)
	catalogSvc := catalog.NewService(products)
	carts := cart.NewStore(catalogSvc)

	b.deps = httpapi.Deps{
		Auth:     auth.NewService(cfg.JWTSecret, auth.WithTokenTTL(cfg.TokenTTL)),
		Catalog:  catalogSvc,
		Cart:     carts,
		Actions:  useractions.NewStore(),
		Checkout: checkout.NewService(checkout.NewCartStoreReader(carts), catalogSvc, orders, engine, 10),
		Engine:   engine,
		Log:      log,
	}
	if cfg.RateLimitRPS > 0 {
		b.deps.Limiter = httpapi.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return b, nil
}

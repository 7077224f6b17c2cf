// Package httpapi is the REST surface of the development backend.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/storefront/internal/backend/auth"
	"github.com/dwikikusuma/storefront/internal/backend/cart"
	"github.com/dwikikusuma/storefront/internal/backend/catalog"
	"github.com/dwikikusuma/storefront/internal/backend/checkout"
	"github.com/dwikikusuma/storefront/internal/backend/useractions"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/dwikikusuma/storefront/pkg/apiclient"
	"github.com/gorilla/mux"
)

type Deps struct {
	Auth     *auth.Service
	Catalog  *catalog.Service
	Cart     *cart.Store
	Actions  *useractions.Store
	Checkout *checkout.Service
	Engine   pricing.Engine
	Limiter  *RateLimiter // optional
	Log      *slog.Logger
}

type handler struct {
	Deps
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	h := &handler{Deps: d}

	r := mux.NewRouter()
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}
	r.Use(logRequests(d.Log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }).
		Methods(http.MethodGet)

	r.HandleFunc(apiclient.EndpointRegister, h.register).Methods(http.MethodPost)
	r.HandleFunc(apiclient.EndpointLogin, h.login).Methods(http.MethodPost)
	r.HandleFunc(apiclient.EndpointLogout, h.requireAuth(h.logout)).Methods(http.MethodPost)
	r.HandleFunc(apiclient.EndpointProfile, h.requireAuth(h.profile)).Methods(http.MethodGet)

	r.HandleFunc(apiclient.EndpointProducts, h.listProducts).Methods(http.MethodGet)
	r.HandleFunc(apiclient.EndpointSearch, h.searchProducts).Methods(http.MethodGet)
	r.HandleFunc(apiclient.EndpointCategories, h.categories).Methods(http.MethodGet)
	r.HandleFunc(apiclient.EndpointRecommendations, h.optionalAuth(h.recommendations)).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", h.getProduct).Methods(http.MethodGet)

	r.HandleFunc(apiclient.EndpointCart, h.requireAuth(h.getCart)).Methods(http.MethodGet)
	r.HandleFunc(apiclient.EndpointCartAdd, h.requireAuth(h.addToCart)).Methods(http.MethodPost)
	r.HandleFunc(apiclient.EndpointCartUpdate, h.requireAuth(h.updateCart)).Methods(http.MethodPut)
	r.HandleFunc(apiclient.EndpointCartRemove, h.requireAuth(h.removeFromCart)).Methods(http.MethodDelete)
	r.HandleFunc(apiclient.EndpointCheckout, h.requireAuth(h.checkout)).Methods(http.MethodPost)

	r.HandleFunc(apiclient.EndpointOrderHistory, h.requireAuth(h.orders)).Methods(http.MethodGet)
	r.HandleFunc(apiclient.EndpointFavorites, h.requireAuth(h.favorites)).Methods(http.MethodGet)
	r.HandleFunc(apiclient.EndpointFavorites, h.requireAuth(h.addFavorite)).Methods(http.MethodPost)
	r.HandleFunc(apiclient.EndpointRecentlyViewed, h.requireAuth(h.recentlyViewed)).Methods(http.MethodGet)
	r.HandleFunc(apiclient.EndpointRecentlyViewed, h.requireAuth(h.recordView)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found", Code: "NOT_FOUND"})
	})
	return r
}

package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dwikikusuma/storefront/internal/backend/auth"
	"github.com/dwikikusuma/storefront/internal/backend/catalog"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/gorilla/mux"
)

const defaultRecommendations = 5

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errBadRequest
	}
	return n, nil
}

func pageQuery(r *http.Request) (domain.Query, error) {
	page, err := intParam(r, "page")
	if err != nil {
		return domain.Query{}, err
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		return domain.Query{}, err
	}
	q := r.URL.Query()
	return domain.Query{
		Page:     page,
		Limit:    limit,
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}, nil
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	page, err := h.Catalog.ListProducts(r.Context(), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	page, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("q"), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Catalog.Categories(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": cats})
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeErr(w, errBadRequest)
		return
	}
	p, err := h.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// recommendations falls back to cart popularity for anonymous callers.
func (h *handler) recommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		writeErr(w, err)
		return
	}
	if limit == 0 {
		limit = defaultRecommendations
	}

	sig := catalog.Signals{Popularity: h.Cart.Popularity(r.Context())}
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		sig.Interested = h.interested(r.Context(), p.User.ID)
	}

	products, err := h.Catalog.Recommend(r.Context(), sig, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Product{"recommended_products": products})
}

func (h *handler) interested(ctx context.Context, userID string) []int64 {
	ids := h.Actions.Interested(ctx, userID)
	lines, _ := h.Cart.Lines(ctx, userID)
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

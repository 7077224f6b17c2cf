package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dwikikusuma/storefront/internal/backend/auth"
	"github.com/dwikikusuma/storefront/internal/backend/checkout"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
)

type cartLineReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

type cartResp struct {
	Items     []cartdomain.LineItem `json:"items"`
	ItemCount int                   `json:"item_count"`
	Subtotal  json.Number           `json:"subtotal"`
	Tax       json.Number           `json:"tax"`
	Total     json.Number           `json:"total"`
}

func newCartResp(items []cartdomain.LineItem, t pricing.Totals) cartResp {
	if items == nil {
		items = []cartdomain.LineItem{}
	}
	return cartResp{
		Items:     items,
		ItemCount: t.ItemCount,
		Subtotal:  json.Number(t.Subtotal.String()),
		Tax:       json.Number(t.Tax.String()),
		Total:     json.Number(t.Total.String()),
	}
}

type receiptResp struct {
	OrderID string `json:"order_id"`
	cartResp
	CreatedAt time.Time `json:"created_at"`
}

func newReceiptResp(o checkout.Order) receiptResp {
	return receiptResp{OrderID: o.ID, cartResp: newCartResp(o.Items, o.Totals), CreatedAt: o.CreatedAt}
}

func userID(r *http.Request) string {
	p, _ := auth.PrincipalFrom(r.Context())
	return p.User.ID
}

func (h *handler) writeCart(w http.ResponseWriter, r *http.Request, status int) {
	items, err := h.Cart.Items(r.Context(), userID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, status, newCartResp(items, h.Engine.Compute(items)))
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, http.StatusOK)
}

func (h *handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineReq
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if err := h.Cart.Add(r.Context(), userID(r), req.ProductID, qty); err != nil {
		writeErr(w, err)
		return
	}
	h.writeCart(w, r, http.StatusOK)
}

func (h *handler) updateCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineReq
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Quantity == nil {
		writeErr(w, errBadRequest)
		return
	}
	if err := h.Cart.Set(r.Context(), userID(r), req.ProductID, *req.Quantity); err != nil {
		writeErr(w, err)
		return
	}
	h.writeCart(w, r, http.StatusOK)
}

// removeFromCart takes product_id from the JSON body or the query string.
func (h *handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineReq
	if v := r.URL.Query().Get("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeErr(w, errBadRequest)
			return
		}
		req.ProductID = id
	} else if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.Cart.Remove(r.Context(), userID(r), req.ProductID); err != nil {
		writeErr(w, err)
		return
	}
	h.writeCart(w, r, http.StatusOK)
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.Checkout.PlaceOrder(r.Context(), userID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	h.Log.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int("items", order.Totals.ItemCount))
	writeJSON(w, http.StatusCreated, newReceiptResp(order))
}

func (h *handler) orders(w http.ResponseWriter, r *http.Request) {
	history, err := h.Checkout.History(r.Context(), userID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]receiptResp, 0, len(history))
	for _, o := range history {
		out = append(out, newReceiptResp(o))
	}
	writeJSON(w, http.StatusOK, map[string][]receiptResp{"orders": out})
}

type productRef struct {
	ProductID int64 `json:"product_id"`
}

func (h *handler) resolve(r *http.Request, ids []int64) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := h.Catalog.GetProduct(r.Context(), id)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (h *handler) favorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Actions.Favorites(r.Context(), userID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Product{"products": h.resolve(r, ids)})
}

func (h *handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req productRef
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if _, err := h.Catalog.GetProduct(r.Context(), req.ProductID); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.Actions.AddFavorite(r.Context(), userID(r), req.ProductID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "added to favorites"})
}

func (h *handler) recentlyViewed(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Actions.RecentlyViewed(r.Context(), userID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Product{"products": h.resolve(r, ids)})
}

func (h *handler) recordView(w http.ResponseWriter, r *http.Request) {
	var req productRef
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if _, err := h.Catalog.GetProduct(r.Context(), req.ProductID); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.Actions.RecordView(r.Context(), userID(r), req.ProductID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "recorded"})
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dwikikusuma/storefront/internal/backend/auth"
	"github.com/dwikikusuma/storefront/internal/backend/cart"
	"github.com/dwikikusuma/storefront/internal/backend/catalog"
	"github.com/dwikikusuma/storefront/internal/backend/checkout"
)

var (
	errUnauthenticated = errors.New("authentication required")
	errBadRequest      = errors.New("bad request")
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeErr(w http.ResponseWriter, err error) {
	status, code, msg := httpStatusFromError(err)
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

func httpStatusFromError(err error) (int, string, string) {
	switch {
	case errors.Is(err, errUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "UNAUTHENTICATED", err.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "ALREADY_EXISTS", err.Error()
	case errors.Is(err, errBadRequest),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict, "FAILED_PRECONDITION", err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "UNAVAILABLE", "service unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

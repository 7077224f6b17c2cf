package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dwikikusuma/storefront/internal/backend/auth"
	"github.com/dwikikusuma/storefront/internal/session/domain"
)

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.Registration
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.ErrPasswordMismatch.Error(), Code: "INVALID_ARGUMENT"})
		return
	}

	if _, err := h.Auth.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeErr(w, err)
		return
	}
	tok, u, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.AuthResult{AccessToken: tok, TokenType: "bearer", User: u})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	tok, u, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResult{AccessToken: tok, TokenType: "bearer", User: u})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	if err := h.Auth.Logout(r.Context(), p.Token); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, p.User)
}

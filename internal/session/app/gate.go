package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/session/domain"
	"github.com/dwikikusuma/storefront/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
)

// Gate holds the bearer credential and profile. Its state mirrors the
// auth_token and user_data keys of the store.
type Gate struct {
	mu    sync.RWMutex
	token string
	user  *domain.User

	store storage.Store
	log   *slog.Logger
}

// NewGate loads any session left in store by a previous run.
func NewGate(ctx context.Context, store storage.Store, log *slog.Logger) (*Gate, error) {
	if log == nil {
		log = slog.Default()
	}
	g := &Gate{store: store, log: log}

	tok, err := store.Get(ctx, storage.KeyAuthToken)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return g, nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}
	g.token = tok

	raw, err := store.Get(ctx, storage.KeyUserData)
	if err == nil {
		var u domain.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			g.user = &u
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return g, nil
}

// Token implements apiclient.TokenSource.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

func (g *Gate) IsAuthenticated() bool {
	return g.Token() != ""
}

func (g *Gate) User() (domain.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return domain.User{}, false
	}
	return *g.user, true
}

func (g *Gate) SetAuth(ctx context.Context, token string, user domain.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.store.Set(ctx, storage.KeyAuthToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := g.store.Set(ctx, storage.KeyUserData, string(b)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	g.token = token
	g.user = &user
	return nil
}

// SetUser refreshes the stored profile of the current session.
func (g *Gate) SetUser(ctx context.Context, user domain.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == "" {
		return nil
	}
	if err := g.store.Set(ctx, storage.KeyUserData, string(b)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	g.user = &user
	return nil
}

// ClearAuth forgets the credential and profile. The in-memory session is
// always dropped even if the store cannot be updated.
func (g *Gate) ClearAuth(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
	g.user = nil
	if err := g.store.Delete(ctx, storage.KeyAuthToken, storage.KeyUserData); err != nil {
		g.log.Warn("clear stored session failed", slog.Any("err", err))
	}
}

// Claims is what the client can read from its token without the signing key.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims decodes the token payload without verifying it. It is for display
// only; the backend remains the judge of validity.
func (g *Gate) Claims() (Claims, bool) {
	tok := g.Token()
	if tok == "" {
		return Claims{}, false
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &rc); err != nil {
		return Claims{}, false
	}
	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, true
}

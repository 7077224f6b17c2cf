package auth

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/session/domain"
)

type ctxKey struct{}

type Principal struct {
	User  domain.User
	Token string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

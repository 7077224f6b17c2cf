// Package remote implements the auth endpoints of the backend.
package remote

import (
	"context"
	"encoding/json"

	"github.com/dwikikusuma/storefront/internal/session/app"
	"github.com/dwikikusuma/storefront/internal/session/domain"
	"github.com/dwikikusuma/storefront/pkg/apiclient"
)

type AuthAPI struct {
	c *apiclient.Client
}

func NewAuthAPI(c *apiclient.Client) *AuthAPI {
	return &AuthAPI{c: c}
}

func (a *AuthAPI) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	var res domain.AuthResult
	err := a.c.Post(ctx, apiclient.EndpointLogin, creds, &res)
	return res, err
}

func (a *AuthAPI) Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	var raw json.RawMessage
	if err := a.c.Post(ctx, apiclient.EndpointRegister, reg, &raw); err != nil {
		return domain.AuthResult{}, err
	}
	var res domain.AuthResult
	if len(raw) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.AuthResult{}, err
	}
	// A bare user object instead of {access_token, user}.
	if res.AccessToken == "" && res.User.ID == "" {
		if err := json.Unmarshal(raw, &res.User); err != nil {
			return domain.AuthResult{}, err
		}
	}
	return res, nil
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.Post(ctx, apiclient.EndpointLogout, struct{}{}, nil)
}

func (a *AuthAPI) Profile(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := a.c.Get(ctx, apiclient.EndpointProfile, nil, &u)
	return u, err
}

var _ app.AuthAPI = (*AuthAPI)(nil)

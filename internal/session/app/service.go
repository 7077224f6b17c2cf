package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/storefront/internal/session/domain"
)

var ErrNoToken = errors.New("login response carried no access token")

type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (domain.User, error)
}

type Service struct {
	api  AuthAPI
	gate *Gate
	log  *slog.Logger
}

func NewService(api AuthAPI, gate *Gate, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{api: api, gate: gate, log: log}
}

func (s *Service) Gate() *Gate { return s.gate }

func (s *Service) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return domain.User{}, domain.ErrMissingField
	}

	res, err := s.api.Login(ctx, creds)
	if err != nil {
		s.log.Warn("login failed", slog.String("email", creds.Email), slog.Any("err", err))
		return domain.User{}, err
	}
	if res.AccessToken == "" {
		return domain.User{}, ErrNoToken
	}
	if err := s.gate.SetAuth(ctx, res.AccessToken, res.User); err != nil {
		return domain.User{}, err
	}
	s.log.Info("logged in", slog.String("user_id", res.User.ID))
	return res.User, nil
}

// Register creates the account. The passwords are compared before anything is
// sent. A response that already carries a token starts the session.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if err := reg.Validate(); err != nil {
		return domain.User{}, err
	}

	res, err := s.api.Register(ctx, reg)
	if err != nil {
		s.log.Warn("register failed", slog.String("email", reg.Email), slog.Any("err", err))
		return domain.User{}, err
	}
	if res.AccessToken != "" {
		if err := s.gate.SetAuth(ctx, res.AccessToken, res.User); err != nil {
			return domain.User{}, err
		}
	}
	return res.User, nil
}

// Logout always drops the local session, whatever the backend says.
func (s *Service) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.gate.ClearAuth(ctx)
	if err != nil {
		s.log.Warn("logout call failed, session cleared anyway", slog.Any("err", err))
	}
	return err
}

// Profile fetches the current user. Any failure is taken to mean the token is
// no longer good and the session is cleared.
func (s *Service) Profile(ctx context.Context) (domain.User, error) {
	u, err := s.api.Profile(ctx)
	if err != nil {
		s.gate.ClearAuth(ctx)
		return domain.User{}, err
	}
	if err := s.gate.SetUser(ctx, u); err != nil {
		s.log.Warn("refresh stored profile failed", slog.Any("err", err))
	}
	return u, nil
}

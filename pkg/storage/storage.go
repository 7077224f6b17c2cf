// Package storage is the durable key-value store the client keeps its cart and
// session in. It plays the part browser localStorage plays for a web front end:
// string keys, string values, last write wins.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Well-known keys.
const (
	KeyCart          = "cart"
	KeyAuthToken     = "auth_token"
	KeyUserData      = "user_data"
	KeyRecentlyAdded = "recentlyAdded"
)

var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open returns a Store for driver: memory, sqlite, postgres or redis.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "memory", "":
		return NewMemory(), nil
	case "sqlite":
		s, err = nonNil(OpenSQLite(ctx, dsn))
	case "postgres":
		s, err = nonNil(OpenPostgres(ctx, dsn))
	case "redis":
		s, err = nonNil(OpenRedis(ctx, dsn))
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// nonNil keeps a typed nil pointer from leaking out as a non-nil Store.
func nonNil[T Store](s T, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dwikikusuma/storefront/internal/backend/httpapi"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestBuildBackend_Memory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Default()
	be, err := buildBackend(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer be.Close(ctx)
	require.NotNil(t, be.deps.Limiter)

	srv := httptest.NewServer(httpapi.NewRouter(be.deps))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/products/1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBuildBackend_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.CatalogDriver = "mongo"
	_, err := buildBackend(context.Background(), cfg, logger.Discard())
	require.ErrorContains(t, err, "unknown catalog driver")
}

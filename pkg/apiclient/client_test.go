package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_Headers(t *testing.T) {
	var got http.Header
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	t.Run("bearer when token present", func(t *testing.T) {
		c := New(srv.URL+"/", WithTokenSource(staticToken("abc")))
		var out struct {
			OK bool `json:"ok"`
		}
		err := c.Get(context.Background(), EndpointProducts, url.Values{"page": {"2"}}, &out)
		require.NoError(t, err)
		require.True(t, out.OK)
		require.Equal(t, "application/json", got.Get("Content-Type"))
		require.Equal(t, "application/json", got.Get("Accept"))
		require.Equal(t, "Bearer abc", got.Get("Authorization"))
		require.Equal(t, "2", gotQuery.Get("page"))
	})

	t.Run("anonymous without token", func(t *testing.T) {
		c := New(srv.URL, WithTokenSource(staticToken("")))
		require.NoError(t, c.Get(context.Background(), EndpointProducts, nil, nil))
		require.Empty(t, got.Get("Authorization"))
	})
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"401 -> auth", http.StatusUnauthorized, `{"error":"token expired"}`, ErrAuth, "token expired"},
		{"500 -> network", http.StatusInternalServerError, `oops`, ErrNetwork, "500 Internal Server Error"},
		{"503 -> network", http.StatusServiceUnavailable, `{"detail":"down"}`, ErrNetwork, "down"},
		{"404 -> request", http.StatusNotFound, `{"detail":"Product not found"}`, ErrRequest, "Product not found"},
		{"400 nested -> request", http.StatusBadRequest, `{"error":{"code":"INVALID","message":"bad qty"}}`, ErrRequest, "bad qty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			var hooked atomic.Int32
			c := New(srv.URL, WithUnauthorizedHook(func(context.Context) { hooked.Add(1) }))
			err := c.Post(context.Background(), EndpointCartAdd, map[string]int{"product_id": 1}, nil)
			require.ErrorIs(t, err, tc.kind)
			require.Equal(t, tc.status, StatusCode(err))

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tc.message, apiErr.Message)

			if tc.kind == ErrAuth {
				require.EqualValues(t, 1, hooked.Load())
			} else {
				require.Zero(t, hooked.Load())
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	start := time.Now()
	err := c.Get(context.Background(), EndpointProducts, nil, nil)
	require.ErrorIs(t, err, ErrTimeout)
	require.NotErrorIs(t, err, ErrNetwork)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	err := New(addr).Get(context.Background(), EndpointCart, nil, nil)
	require.ErrorIs(t, err, ErrNetwork)
	require.Zero(t, StatusCode(err))
}

func TestClient_CancelledByCaller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(srv.URL).Get(ctx, EndpointCart, nil, nil)
	require.ErrorIs(t, err, ErrNetwork)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out := map[string]string{"kept": "yes"}
	require.NoError(t, New(srv.URL).Delete(context.Background(), EndpointCartRemove, nil, &out))
	require.Equal(t, "yes", out["kept"])
}

func TestProductPath(t *testing.T) {
	require.Equal(t, "/products/42", ProductPath(42))
}

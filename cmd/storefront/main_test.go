package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwikikusuma/storefront/internal/backend/auth"
	"github.com/dwikikusuma/storefront/internal/backend/cart"
	"github.com/dwikikusuma/storefront/internal/backend/catalog"
	"github.com/dwikikusuma/storefront/internal/backend/checkout"
	"github.com/dwikikusuma/storefront/internal/backend/httpapi"
	"github.com/dwikikusuma/storefront/internal/backend/useractions"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func startAPI(t *testing.T) string {
	t.Helper()
	engine := pricing.New(pricing.DefaultTaxRate)
	products := catalog.NewService(catalog.NewMemoryRepo(catalog.DemoProducts()...))
	carts := cart.NewStore(products)
	srv := httptest.NewServer(httpapi.NewRouter(httpapi.Deps{
		Auth:     auth.NewService("test-secret", auth.WithBcryptCost(bcrypt.MinCost)),
		Catalog:  products,
		Cart:     carts,
		Actions:  useractions.NewStore(),
		Checkout: checkout.NewService(checkout.NewCartStoreReader(carts), products, checkout.NewMemoryOrders(), engine, 4),
		Engine:   engine,
		Log:      logger.Discard(),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

type harness struct {
	t    *testing.T
	base []string
}

func newHarness(t *testing.T) *harness {
	dsn := filepath.Join(t.TempDir(), "cli.db")
	return &harness{t: t, base: []string{"--api", startAPI(t), "--storage", "sqlite", "--dsn", dsn, "--log-level", "error"}}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), append(append([]string{}, h.base...), args...),
		strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err)
	return out
}

func TestProductsCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "products", "list", "--limit", "2")
	require.Contains(t, out, "Premium Wireless Headphones")
	require.Contains(t, out, "$299.99")
	require.Contains(t, out, "more available")

	out = h.mustRun("", "products", "list", "--category", "wearables")
	require.Contains(t, out, "Smart Fitness Watch")
	require.NotContains(t, out, "Keyboard")

	out = h.mustRun("", "products", "search", "usb", "hub")
	require.Contains(t, out, "USB-C Hub")

	out = h.mustRun("", "products", "categories")
	require.Equal(t, "accessories\naudio\nwearables\n", out)

	out = h.mustRun("", "products", "get", "6")
	require.Contains(t, out, "#6 Mechanical Keyboard")
	require.Contains(t, out, "$159.99")

	out = h.mustRun("", "products", "recommend")
	require.Contains(t, out, "Log in")

	_, err := h.run("", "products", "get", "abc")
	require.ErrorContains(t, err, "invalid product id")
}

func TestBrowseReadsKeystrokes(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("k\nke\nkey\nkeyboard\n", "products", "browse")
	require.Contains(t, out, `== "keyboard"`)
	require.Contains(t, out, "Mechanical Keyboard")
}

func TestLocalCartCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "cart", "show")
	require.Contains(t, out, "Your cart is empty.")

	out = h.mustRun("", "cart", "add", "1", "2")
	require.Contains(t, out, "Premium Wireless Headphones added to cart")
	require.Contains(t, out, "Subtotal: $599.98")

	h.mustRun("", "cart", "add", "4")
	out = h.mustRun("", "cart", "inc", "4")
	require.Contains(t, out, "Items:    4")

	out = h.mustRun("", "cart", "set", "1", "0")
	require.NotContains(t, out, "Headphones")
	require.Contains(t, out, "Subtotal: $99.98")

	h.mustRun("", "cart", "add", "3")
	out = h.mustRun("", "cart", "set", "3", "-1")
	require.NotContains(t, out, "Speaker")
	require.Contains(t, out, "Subtotal: $99.98")

	_, err := h.run("", "cart", "add", "3", "-2")
	require.ErrorContains(t, err, "quantity must be at least 1, got -2")

	out = h.mustRun("", "cart", "dec", "4")
	require.Contains(t, out, "Items:    1")

	out = h.mustRun("", "cart", "checkout")
	require.Contains(t, out, "Checkout complete")
	require.Contains(t, out, "Total:    $54.24")

	_, err = h.run("", "cart", "checkout")
	require.ErrorContains(t, err, "cart is empty")
}

func TestAuthAndRemoteCart(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("secret1\nsecret1\n", "auth", "register", "ada@example.com", "--name", "Ada")
	require.Contains(t, out, "Welcome, Ada!")

	out = h.mustRun("", "auth", "whoami")
	require.Contains(t, out, "Ada <ada@example.com>")
	require.Contains(t, out, "Session expires")

	h.mustRun("", "products", "get", "3")
	out = h.mustRun("", "viewed")
	require.Contains(t, out, "Portable Bluetooth Speaker")

	out = h.mustRun("", "favorites", "add", "2")
	require.Contains(t, out, "Added to favorites.")
	out = h.mustRun("", "favorites", "list")
	require.Contains(t, out, "Smart Fitness Watch")

	out = h.mustRun("", "cart", "add", "5")
	require.Contains(t, out, "USB-C Hub")

	out = h.mustRun("", "cart", "checkout")
	require.Contains(t, out, "Order ")
	require.Contains(t, out, "placed.")

	out = h.mustRun("", "auth", "logout")
	require.Contains(t, out, "Logged out.")

	out = h.mustRun("", "auth", "whoami")
	require.Contains(t, out, "Not logged in.")

	_, err := h.run("", "favorites", "list")
	require.ErrorContains(t, err, "login required")

	out = h.mustRun("", "auth", "login", "ada@example.com", "--password", "secret1")
	require.Contains(t, out, "Welcome back, Ada!")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("secret1\nother\n", "auth", "register", "bob@example.com")
	require.ErrorContains(t, err, "passwords do not match")
}

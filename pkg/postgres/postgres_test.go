package postgres

import "testing"

func TestDSN(t *testing.T) {
	t.Run("escapes credentials and defaults sslmode", func(t *testing.T) {
		cfg := Config{Host: "db", Port: 5432, User: "shop", Pass: "p@ss word", DB: "shopping_db"}
		got := cfg.DSN()
		want := "postgres://shop:p%40ss%20word@db:5432/shopping_db?sslmode=disable"
		if got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	})

	t.Run("explicit sslmode", func(t *testing.T) {
		cfg := Config{Host: "db", Port: 6543, User: "u", Pass: "p", DB: "d", SSLMode: "require"}
		if got := cfg.DSN(); got != "postgres://u:p@db:6543/d?sslmode=require" {
			t.Fatalf("unexpected dsn %q", got)
		}
	})
}

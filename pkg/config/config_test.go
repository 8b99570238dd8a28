package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CART_SYNC_INTERVAL", "")
	t.Setenv("HTTP_PORT", "")

	cfg := Load()
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default http port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.Cart.SyncInterval != 30*time.Second {
		t.Fatalf("expected 30s sync interval, got %s", cfg.Cart.SyncInterval)
	}
	if cfg.Cart.PriceChangePolicy != "flag-only" {
		t.Fatalf("expected flag-only policy, got %q", cfg.Cart.PriceChangePolicy)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CART_SYNC_INTERVAL", "5s")
	t.Setenv("CART_PRICE_POLICY", "auto-apply")

	cfg := Load()
	if cfg.HTTPPort != 9090 {
		t.Fatalf("got %d", cfg.HTTPPort)
	}
	if cfg.Cart.SyncInterval != 5*time.Second {
		t.Fatalf("got %s", cfg.Cart.SyncInterval)
	}
	if cfg.Cart.PriceChangePolicy != "auto-apply" {
		t.Fatalf("got %q", cfg.Cart.PriceChangePolicy)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("CART_SYNC_INTERVAL", "-3s")

	cfg := Load()
	if cfg.HTTPPort != 8080 {
		t.Fatalf("got %d", cfg.HTTPPort)
	}
	if cfg.Cart.SyncInterval != 30*time.Second {
		t.Fatalf("got %s", cfg.Cart.SyncInterval)
	}
}

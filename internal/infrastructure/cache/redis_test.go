package cache

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"aegis/internal/config"
)

func TestDisabled_BypassesEveryCall(t *testing.T) {
	c := Disabled(nil)
	ctx := context.Background()

	var out map[string]string
	hit, err := c.GetJSON(ctx, "companies:list", &out)
	if err != nil || hit {
		t.Fatalf("expected miss without error, got hit=%v err=%v", hit, err)
	}
	if err := c.SetJSON(ctx, "companies:list", map[string]string{"a": "b"}, 0); err != nil {
		t.Fatalf("unexpected set err: %v", err)
	}
	if err := c.Delete(ctx, "companies:list"); err != nil {
		t.Fatalf("unexpected delete err: %v", err)
	}
	if err := c.DeleteByPattern(ctx, "jobs:*"); err != nil {
		t.Fatalf("unexpected delete err: %v", err)
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping error for disabled cache")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected close err: %v", err)
	}
}

func TestNewRedis_UnreachableFallsBackToBypass(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	c := NewRedis(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: "1", KeyPrefix: "test:"}, logger)
	if err := c.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if c.ttl != defaultTTL || c.prefix != "test:" {
		t.Fatalf("unexpected settings ttl=%s prefix=%q", c.ttl, c.prefix)
	}
	if !strings.Contains(buf.String(), "bypassing cache") {
		t.Fatalf("expected bypass log, got %q", buf.String())
	}
	if got := c.key("catalog:jobs"); got != "test:catalog:jobs" {
		t.Fatalf("unexpected key %q", got)
	}
}

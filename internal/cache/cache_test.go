package cache

import (
	"context"
	"testing"
	"time"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/models"
)

func TestCountsKey(t *testing.T) {
	if got := CountsKey(5, "abc"); got != "counts:user:5" {
		t.Fatalf("user key should win, got %s", got)
	}
	if got := CountsKey(0, " abc "); got != "counts:session:abc" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := CountsKey(0, ""); got != "" {
		t.Fatalf("empty identity should yield empty key, got %s", got)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	if Enabled() {
		t.Fatalf("cache should be disabled without InitRedis")
	}
	if err := SetCounts(ctx, "counts:user:1", IdentityCounts{CartItems: 3}, time.Minute); err != nil {
		t.Fatalf("set counts should be noop: %v", err)
	}
	if _, hit, err := GetCounts(ctx, "counts:user:1"); hit || err != nil {
		t.Fatalf("disabled cache should miss, hit=%v err=%v", hit, err)
	}
	lock, err := AcquireLock(ctx, "merge:1", time.Second)
	if err != nil || lock == nil {
		t.Fatalf("disabled lock should succeed, err=%v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release noop lock failed: %v", err)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	state := BuildUserAuthState(&models.User{ID: 4, Status: "active", IsStaff: true, TokenVersion: 2})
	if state.UserID != 4 || !state.IsStaff || state.TokenVersion != 2 {
		t.Fatalf("unexpected auth state %+v", state)
	}
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should produce nil state")
	}
}

func TestBuildKeyUsesConfiguredPrefix(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: true, Prefix: "shop:"}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
		shared.prefix = ""
	})
	if !Enabled() {
		t.Fatalf("cache should report enabled after init")
	}
	if got := BuildKey(" counts:user:1 "); got != "shop:counts:user:1" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := BuildKey(""); got != "shop" {
		t.Fatalf("empty key should yield prefix, got %s", got)
	}
}

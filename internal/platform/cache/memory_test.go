package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/coursestream-backend/internal/platform/clock"
)

func TestMemoryCacheExpiresEntries(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	c := NewMemory(clk)
	ctx := context.Background()

	if err := c.Set(ctx, "a", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, err := c.Get(ctx, "a"); err != nil || string(got) != "1" {
		t.Fatalf("Get: %q %v", got, err)
	}
	clk.Advance(time.Minute)
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := NewMemory(nil)
	ctx := context.Background()
	_ = SetJSON(ctx, c, "progress:u1:s1", map[string]int{"p": 5}, 0)
	_ = SetJSON(ctx, c, "progress:u1:s2", map[string]int{"p": 10}, 0)
	_ = SetJSON(ctx, c, "catalog:course:c1:sections", []string{"s1"}, 0)

	if err := c.DeletePrefix(ctx, "progress:u1:"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	var out map[string]int
	if err := GetJSON(ctx, c, "progress:u1:s1", &out); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	var sections []string
	if err := GetJSON(ctx, c, "catalog:course:c1:sections", &sections); err != nil || len(sections) != 1 {
		t.Fatalf("expected unrelated key to survive: %v %v", sections, err)
	}
}

package sheet

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingSource struct {
	calls int
	grid  Grid
	err   error
}

func (s *countingSource) FetchRows(ctx context.Context) (Grid, error) {
	s.calls++
	return s.grid, s.err
}

func newTestCache(now *time.Time) *MemoryCache {
	c := NewMemoryCache()
	c.now = func() time.Time { return *now }
	return c
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC)
	cache := newTestCache(&now)

	cache.Put("shops", Entry{Grid: Grid{{"a"}}}, 2*time.Minute)

	if _, ok := cache.Get("shops"); !ok {
		t.Fatal("entry should be served before expiry")
	}

	now = now.Add(119 * time.Second)
	if _, ok := cache.Get("shops"); !ok {
		t.Error("entry should still be fresh at 119s")
	}

	now = now.Add(time.Second)
	if _, ok := cache.Get("shops"); ok {
		t.Error("entry should expire at the TTL")
	}
}

func TestMemoryCacheZeroTTL(t *testing.T) {
	cache := NewMemoryCache()
	cache.Put("shops", Entry{Grid: Grid{{"a"}}}, 0)
	if _, ok := cache.Get("shops"); ok {
		t.Error("a zero TTL should disable caching")
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	cache := NewMemoryCache()
	cache.Put("shops", Entry{}, time.Minute)
	cache.Invalidate("shops")
	if _, ok := cache.Get("shops"); ok {
		t.Error("invalidated entry should be gone")
	}
}

func TestCachedSource(t *testing.T) {
	now := time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC)
	upstream := &countingSource{grid: Grid{{"No.", "店名"}}}
	src := NewCachedSource(upstream, newTestCache(&now), "shops", time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := src.FetchRows(context.Background()); err != nil {
			t.Fatalf("FetchRows() failed: %v", err)
		}
	}
	if upstream.calls != 1 {
		t.Errorf("upstream calls = %d, want 1 within the TTL", upstream.calls)
	}

	now = now.Add(time.Minute)
	if _, err := src.FetchRows(context.Background()); err != nil {
		t.Fatalf("FetchRows() failed: %v", err)
	}
	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2 after expiry", upstream.calls)
	}
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	upstream := &countingSource{err: errors.New("boom")}
	src := NewCachedSource(upstream, NewMemoryCache(), "shops", time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := src.FetchRows(context.Background()); err == nil {
			t.Fatal("FetchRows() should propagate upstream errors")
		}
	}
	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2 since failures are not cached", upstream.calls)
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestKeyNamespacing(t *testing.T) {
	got := Key(CategoryPage, "acme")
	want := "page_insights:page:acme"
	if got != want {
		t.Fatalf("Key: expected %q, got %q", want, got)
	}
}

func TestManagerFallsBackToMemory(t *testing.T) {
	// Nothing is listening here; the manager must come up on the memory
	// backend without surfacing the failure.
	mgr := NewManager(Config{
		Enabled:    true,
		RedisURL:   "redis://127.0.0.1:1/0",
		DefaultTTL: time.Minute,
	}, testLogger(t))
	defer mgr.Close()

	if mgr.Backend() != "memory" {
		t.Fatalf("expected memory fallback, got %q", mgr.Backend())
	}
}

func TestManagerDefaultTTLAndRoundTrip(t *testing.T) {
	mgr := NewManagerWithStore(Config{Enabled: true, DefaultTTL: time.Minute}, NewMemoryStore(), testLogger(t))
	defer mgr.Close()

	ctx := context.Background()

	if !mgr.Set(ctx, CategoryPage, "acme", `{"name":"Acme"}`, 0) {
		t.Fatalf("Set: expected success")
	}
	got, ok := mgr.Get(ctx, CategoryPage, "acme")
	if !ok || got != `{"name":"Acme"}` {
		t.Fatalf("Get: unexpected result (%q, %v)", got, ok)
	}
}

func TestManagerDisabledIsNoop(t *testing.T) {
	mgr := NewManager(Config{Enabled: false, DefaultTTL: time.Minute}, testLogger(t))
	defer mgr.Close()

	ctx := context.Background()

	mgr.Set(ctx, CategoryPage, "acme", "v", 0)
	if _, ok := mgr.Get(ctx, CategoryPage, "acme"); ok {
		t.Fatalf("disabled cache should never hit")
	}
	stats := mgr.Stats(ctx)
	if stats.Enabled {
		t.Fatalf("Stats: expected Enabled=false")
	}
}

func TestManagerJSONHelpers(t *testing.T) {
	mgr := NewManagerWithStore(Config{Enabled: true, DefaultTTL: time.Minute}, NewMemoryStore(), testLogger(t))
	defer mgr.Close()

	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if !mgr.SetJSON(ctx, CategoryAISummary, "acme:posts:emp", payload{Name: "Acme", Count: 3}, 0) {
		t.Fatalf("SetJSON: expected success")
	}

	var out payload
	if !mgr.GetJSON(ctx, CategoryAISummary, "acme:posts:emp", &out) {
		t.Fatalf("GetJSON: expected hit")
	}
	if out.Name != "Acme" || out.Count != 3 {
		t.Fatalf("GetJSON: unexpected payload %+v", out)
	}
}

func TestManagerClearAllScopedToCategory(t *testing.T) {
	mgr := NewManagerWithStore(Config{Enabled: true, DefaultTTL: time.Minute}, NewMemoryStore(), testLogger(t))
	defer mgr.Close()

	ctx := context.Background()

	mgr.Set(ctx, CategoryPage, "acme", "a", 0)
	mgr.Set(ctx, CategoryPage, "globex", "b", 0)
	mgr.Set(ctx, CategoryAISummary, "acme", "c", 0)

	if count := mgr.ClearAll(ctx, CategoryPage); count != 2 {
		t.Fatalf("ClearAll(page): expected 2, got %d", count)
	}
	if _, ok := mgr.Get(ctx, CategoryAISummary, "acme"); !ok {
		t.Fatalf("ClearAll(page): ai_summary entries must survive")
	}

	mgr.Set(ctx, CategoryPage, "acme", "a", 0)
	if count := mgr.ClearAll(ctx, ""); count != 2 {
		t.Fatalf("ClearAll(all): expected 2, got %d", count)
	}
}

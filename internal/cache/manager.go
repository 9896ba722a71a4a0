package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

type Config struct {
	Enabled    bool
	RedisURL   string
	DefaultTTL time.Duration
}

// Manager is the single explicit cache handle for the process. It picks
// a backend once at construction: redis when configured and reachable,
// the in-process store otherwise. Backend trouble after that degrades to
// cache misses; it is never surfaced to callers.
type Manager struct {
	log   *logger.Logger
	cfg   Config
	store Store
}

func NewManager(cfg Config, log *logger.Logger) *Manager {
	mgrLog := log.With("service", "CacheManager")

	m := &Manager{log: mgrLog, cfg: cfg}

	if !cfg.Enabled {
		mgrLog.Info("Caching disabled by configuration")
		m.store = NewMemoryStore()
		return m
	}

	if strings.TrimSpace(cfg.RedisURL) != "" {
		store, err := NewRedisStore(cfg.RedisURL, log)
		if err == nil {
			mgrLog.Info("Connected to redis cache backend")
			m.store = store
			return m
		}
		mgrLog.Warn("Redis unavailable, falling back to memory cache", "error", err)
	}

	m.store = NewMemoryStore()
	return m
}

// NewManagerWithStore injects a prebuilt backend; used by tests and by
// callers that manage backend lifetime themselves.
func NewManagerWithStore(cfg Config, store Store, log *logger.Logger) *Manager {
	return &Manager{
		log:   log.With("service", "CacheManager"),
		cfg:   cfg,
		store: store,
	}
}

func (m *Manager) Backend() string { return m.store.Backend() }

// Get returns the raw cached value. Backend errors collapse to a miss.
func (m *Manager) Get(ctx context.Context, category, identifier string) (string, bool) {
	if !m.cfg.Enabled {
		return "", false
	}
	val, ok, err := m.store.Get(ctx, Key(category, identifier))
	if err != nil {
		m.log.Warn("Cache get failed", "category", category, "error", err)
		return "", false
	}
	return val, ok
}

func (m *Manager) Set(ctx context.Context, category, identifier, value string, ttl time.Duration) bool {
	if !m.cfg.Enabled {
		return false
	}
	if ttl <= 0 {
		ttl = m.cfg.DefaultTTL
	}
	if err := m.store.Set(ctx, Key(category, identifier), value, ttl); err != nil {
		m.log.Warn("Cache set failed", "category", category, "error", err)
		return false
	}
	return true
}

func (m *Manager) Delete(ctx context.Context, category, identifier string) bool {
	if !m.cfg.Enabled {
		return false
	}
	removed, err := m.store.Delete(ctx, Key(category, identifier))
	if err != nil {
		m.log.Warn("Cache delete failed", "category", category, "error", err)
		return false
	}
	return removed
}

// GetJSON unmarshals a cached value into out. A corrupt entry counts as
// a miss.
func (m *Manager) GetJSON(ctx context.Context, category, identifier string, out any) bool {
	raw, ok := m.Get(ctx, category, identifier)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		m.log.Warn("Cache entry is not valid JSON, treating as miss", "category", category, "error", err)
		return false
	}
	return true
}

func (m *Manager) SetJSON(ctx context.Context, category, identifier string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		m.log.Warn("Cache value marshal failed", "category", category, "error", err)
		return false
	}
	return m.Set(ctx, category, identifier, string(raw), ttl)
}

// ClearAll removes every entry under the given category, or the whole
// namespace when category is empty. Returns the count removed.
func (m *Manager) ClearAll(ctx context.Context, category string) int {
	count, err := m.store.ClearPattern(ctx, categoryPrefix(category)+"*")
	if err != nil {
		m.log.Warn("Cache clear failed", "category", category, "error", err)
		return 0
	}
	return count
}

func (m *Manager) Stats(ctx context.Context) Stats {
	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.log.Warn("Cache stats failed", "error", err)
		stats = Stats{Backend: m.store.Backend()}
	}
	stats.TTLSeconds = int(m.cfg.DefaultTTL / time.Second)
	stats.Enabled = m.cfg.Enabled
	return stats
}

func (m *Manager) Close() {
	if m == nil || m.store == nil {
		return
	}
	if err := m.store.Close(); err != nil {
		m.log.Warn("Cache close failed", "error", err)
	}
}

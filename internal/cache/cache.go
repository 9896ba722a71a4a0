package cache

import (
	"context"
	"fmt"
	"time"
)

// Namespace prefixes every key so unrelated deployments sharing a redis
// instance can't collide.
const Namespace = "page_insights"

const (
	CategoryPage      = "page"
	CategoryAISummary = "ai_summary"
)

type Stats struct {
	Backend    string `json:"backend"`
	Entries    int64  `json:"entries"`
	TTLSeconds int    `json:"ttl_seconds"`
	Enabled    bool   `json:"enabled"`
	MemoryUsed string `json:"memory_used,omitempty"`
}

// Store is the backend contract. Get on an expired entry behaves exactly
// like a miss; expiry is enforced lazily, never by a background sweeper.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	// ClearPattern removes every key sharing the given prefix (a trailing
	// "*" on the argument is tolerated) and returns the count removed.
	ClearPattern(ctx context.Context, prefix string) (int, error)
	Stats(ctx context.Context) (Stats, error)
	Backend() string
	Close() error
}

// Key builds the canonical "{namespace}:{category}:{identifier}" key.
func Key(category, identifier string) string {
	return fmt.Sprintf("%s:%s:%s", Namespace, category, identifier)
}

func categoryPrefix(category string) string {
	if category == "" {
		return Namespace + ":"
	}
	return fmt.Sprintf("%s:%s:", Namespace, category)
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

// redisStore is the distributed backend. The constructor probes the
// server with a short ping so an unreachable redis fails fast at startup
// instead of stalling every request.
type redisStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisStore(redisURL string, log *logger.Logger) (Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	opts, err := goredis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{
		log: log.With("store", "RedisStore"),
		rdb: rdb,
	}, nil
}

func (r *redisStore) Backend() string { return "redis" }

func (r *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := r.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return removed > 0, nil
}

func (r *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return count > 0, nil
}

func (r *redisStore) ClearPattern(ctx context.Context, prefix string) (int, error) {
	pattern := strings.TrimSuffix(prefix, "*") + "*"

	removed := 0
	iter := r.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			n, err := r.rdb.Del(ctx, batch...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis del: %w", err)
			}
			removed += int(n)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		n, err := r.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return removed, fmt.Errorf("redis del: %w", err)
		}
		removed += int(n)
	}
	return removed, nil
}

func (r *redisStore) Stats(ctx context.Context) (Stats, error) {
	size, err := r.rdb.DBSize(ctx).Result()
	if err != nil {
		return Stats{Backend: r.Backend()}, fmt.Errorf("redis dbsize: %w", err)
	}
	stats := Stats{
		Backend: r.Backend(),
		Entries: size,
	}
	if info, err := r.rdb.Info(ctx, "memory").Result(); err == nil {
		for _, line := range strings.Split(info, "\n") {
			if strings.HasPrefix(line, "used_memory_human:") {
				stats.MemoryUsed = strings.TrimSpace(strings.TrimPrefix(line, "used_memory_human:"))
				break
			}
		}
	}
	return stats, nil
}

func (r *redisStore) Close() error {
	return r.rdb.Close()
}

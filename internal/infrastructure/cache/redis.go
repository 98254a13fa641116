package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"aegis/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 10 * time.Minute
	scanBatch  = 100
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis is a JSON cache. Every key is stored under the configured prefix.
// When Redis cannot be reached at startup it becomes a no-op that reports
// misses, so callers fall through to the database.
type Redis struct {
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration
	prefix string

	warned atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *log.Logger) *Redis {
	r := Disabled(logger)
	if cfg.TTL > 0 {
		r.ttl = cfg.TTL
	}
	r.prefix = cfg.KeyPrefix

	addr := net.JoinHostPort(strings.TrimSpace(cfg.Host), strings.TrimSpace(cfg.Port))
	client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		r.logf("[Cache] Redis unavailable at %s, bypassing cache: %v", addr, err)
		_ = client.Close()
		return r
	}

	r.client = client
	r.logf("[Cache] Redis connected addr=%s prefix=%q ttl=%s", addr, r.prefix, r.ttl)
	return r
}

// Disabled returns a cache that always misses.
func Disabled(logger *log.Logger) *Redis {
	return &Redis{logger: logger, ttl: defaultTTL}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.off() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.off() {
		return false, nil
	}
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		r.warnOnce(err)
		return false, err
	case len(b) == 0:
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		// A payload from an older shape is a miss, and is dropped.
		_ = r.client.Del(ctx, r.key(key)).Err()
		return false, nil
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.off() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), b, ttl).Err(); err != nil {
		r.warnOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if r.off() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		r.warnOnce(err)
		return err
	}
	return nil
}

// DeleteByPattern scans for keys matching pattern and removes them in
// batches.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if r.off() || pattern == "" {
		return nil
	}

	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	iter := r.client.Scan(ctx, 0, r.key(pattern), scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				r.logf("[Cache] Redis delete error pattern=%s err=%v", pattern, err)
			}
		}
	}
	if err := flush(); err != nil {
		r.logf("[Cache] Redis delete error pattern=%s err=%v", pattern, err)
	}
	return iter.Err()
}

func (r *Redis) Close() error {
	if r.off() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) off() bool {
	return r == nil || r.client == nil
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) warnOnce(err error) {
	if r.warned.CompareAndSwap(false, true) {
		r.logf("[Cache] Redis error, continuing without cache: %v", err)
	}
}

func (r *Redis) logf(format string, args ...any) {
	if r != nil && r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

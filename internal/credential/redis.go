package credential

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/painel/internal/errors"
)

// RedisConfig selects the Redis instance and key namespace
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string

	DialTimeout time.Duration
	PingTimeout time.Duration
}

func (c RedisConfig) withDefaults() RedisConfig {
	out := c
	if out.Prefix == "" {
		out.Prefix = "painel"
	}
	if out.DialTimeout <= 0 {
		out.DialTimeout = 3 * time.Second
	}
	if out.PingTimeout <= 0 {
		out.PingTimeout = 2 * time.Second
	}
	return out
}

// RedisKV keeps the credential in Redis under "<prefix>:<key>"
type RedisKV struct {
	rdb    *redis.Client
	prefix string
	owned  bool
}

// NewRedisKV wraps an existing client
func NewRedisKV(rdb *redis.Client, prefix string) *RedisKV {
	if prefix == "" {
		prefix = "painel"
	}
	return &RedisKV{rdb: rdb, prefix: prefix}
}

// OpenRedisKV dials Redis and validates connectivity via PING
func OpenRedisKV(ctx context.Context, cfg RedisConfig) (*RedisKV, error) {
	cfg = cfg.withDefaults()
	if cfg.Addr == "" {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "storage.redis.addr is required", nil)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.NewStorageUnreachable(err)
	}

	kv := NewRedisKV(rdb, cfg.Prefix)
	kv.owned = true
	return kv, nil
}

func (r *RedisKV) key(k string) string {
	return r.prefix + ":" + k
}

// Get returns the value stored under key
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetMany writes all keys inside one transaction
func (r *RedisKV) SetMany(ctx context.Context, values map[string]string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.key(k), v, 0)
		}
		return nil
	})
	return err
}

// Delete removes all keys in one command
func (r *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.rdb.Del(ctx, full...).Err()
}

// Close releases the client if OpenRedisKV created it
func (r *RedisKV) Close() error {
	if !r.owned {
		return nil
	}
	return r.rdb.Close()
}

var _ KV = (*RedisKV)(nil)

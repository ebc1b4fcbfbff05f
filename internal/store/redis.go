package store

import (
	"context"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "pplanner:"

// RedisBackend keeps each document as one string key.
type RedisBackend struct {
	client *backend.Client
	prefix string
}

type RedisOption func(*RedisBackend)

// WithPrefix sets the key prefix. An empty prefix keeps the default.
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisBackend) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

func NewRedis(address, password string, db int, opts ...RedisOption) *RedisBackend {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisFromClient(rdb, opts...)
}

func NewRedisFromClient(client *backend.Client, opts ...RedisOption) *RedisBackend {
	r := &RedisBackend{
		client: client,
		prefix: defaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisBackend) Name() string { return BackendRedis }

func (r *RedisBackend) key(name string) string {
	return r.prefix + name
}

func (r *RedisBackend) Load(ctx context.Context, name string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}
	return val, nil
}

func (r *RedisBackend) Save(ctx context.Context, name string, data []byte) error {
	if err := r.client.Set(ctx, r.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

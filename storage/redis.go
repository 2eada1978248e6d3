package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Hash is the Redis hash holding every slot of one site.
	Hash string
}

// Redis keeps all slots as fields of one Redis hash, so several sites can
// share a server without their sizes mixing.
type Redis struct {
	client *redis.Client
	hash   string
}

// NewRedis connects to the server described by opts and pings it.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:6379"
	}
	if opts.Hash == "" {
		opts.Hash = "kkumttre"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: redis ping %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, hash: opts.Hash}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.HSet(ctx, r.hash, key, value).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.HDel(ctx, r.hash, key).Err()
}

func (r *Redis) Size(ctx context.Context) (int64, error) {
	all, err := r.client.HGetAll(ctx, r.hash).Result()
	if err != nil {
		return 0, err
	}
	var n int64
	for k, v := range all {
		n += entrySize(k, v)
	}
	return n, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

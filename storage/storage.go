// Package storage provides the durable key-value area the site keeps its
// snapshots in. Each slot holds one serialized value; callers own the format.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned by a write that would push the area past its capacity.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
	// ErrClosed is returned when a backend is used after Close.
	ErrClosed = errors.New("storage: closed")
)

// Backend is a durable string key-value area.
type Backend interface {
	// Get returns the value stored at key. ok is false when the slot is empty.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the slot at key.
	Set(ctx context.Context, key, value string) error
	// Delete empties the slot at key. Deleting an empty slot is not an error.
	Delete(ctx context.Context, key string) error
	// Size reports the bytes used by all slots, keys included.
	Size(ctx context.Context) (int64, error)
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisHash     string `yaml:"redis_hash"`

	// Quota caps the total size in bytes. Zero disables the limit.
	Quota int64 `yaml:"quota"`
}

// Open builds the backend described by cfg, wrapped in Limit when a quota is set.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Driver {
	case "", DriverSQLite:
		b, err = NewSQLite(cfg.Path)
	case DriverRedis:
		b, err = NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Hash:     cfg.RedisHash,
		})
	case DriverMemory:
		b = NewMemory()
	default:
		return nil, errors.New("storage: unknown driver " + cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Quota > 0 {
		b = Limit(b, cfg.Quota)
	}
	return b, nil
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
)

// Limited enforces a capacity on top of another Backend, the way a browser
// origin caps its local storage.
type Limited struct {
	Backend
	capacity int64
	mu       sync.Mutex
}

// Limit wraps b so that writes growing the area past capacity bytes fail with
// ErrQuotaExceeded and leave the slot untouched.
func Limit(b Backend, capacity int64) *Limited {
	return &Limited{Backend: b, capacity: capacity}
}

// Capacity returns the configured limit in bytes.
func (l *Limited) Capacity() int64 {
	return l.capacity
}

func (l *Limited) Set(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	used, err := l.Backend.Size(ctx)
	if err != nil {
		return fmt.Errorf("storage: size: %w", err)
	}
	old, ok, err := l.Backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("storage: get %s: %w", key, err)
	}
	if ok {
		used -= entrySize(key, old)
	}
	if used+entrySize(key, value) > l.capacity {
		return fmt.Errorf("%w: %s needs %s, %s of %s in use", ErrQuotaExceeded, key,
			humanize.IBytes(uint64(entrySize(key, value))), humanize.IBytes(uint64(used)), humanize.IBytes(uint64(l.capacity)))
	}
	return l.Backend.Set(ctx, key, value)
}

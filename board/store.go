package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/kkumttre/kkumttre/storage"
)

// DefaultKey is the storage slot holding the post snapshot.
const DefaultKey = "kkumttre_posts"

// ErrNotFound is returned when no post has the requested id.
var ErrNotFound = errors.New("board: post not found")

// Store is the post collection. Memory is authoritative for reads; every
// mutation writes the whole list to storage first and only commits to
// memory once that write has succeeded.
type Store struct {
	mu      sync.RWMutex
	posts   []Post
	backend storage.Backend
	key     string
	logger  log.FieldLogger
}

// Open loads the snapshot at key. A missing slot yields an empty board; so
// does an unreadable one, which is logged and otherwise ignored. Only a
// failing backend is reported as an error.
func Open(ctx context.Context, backend storage.Backend, key string, logger log.FieldLogger) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Store{backend: backend, key: key, logger: logger}

	raw, ok, err := backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("board: read %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return s, nil
	}
	posts, err := decodePosts([]byte(raw))
	if err != nil {
		logger.WithError(err).WithField("key", key).Warn("board: stored posts are unreadable, starting empty")
		return s, nil
	}
	s.posts = posts
	return s, nil
}

// All returns every post, newest first.
func (s *Store) All() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Post(nil), s.posts...)
}

// ByCategory returns the posts of c in the same order as All.
func (s *Store) ByCategory(c Category) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Post
	for _, p := range s.posts {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Search returns the posts of c whose title or content contains q,
// ignoring case. An empty query matches everything.
func (s *Store) Search(c Category, q string) []Post {
	q = strings.ToLower(strings.TrimSpace(q))
	posts := s.ByCategory(c)
	if q == "" {
		return posts
	}
	var out []Post
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the post with id.
func (s *Store) Get(id string) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Add puts p in front of the list. If the snapshot cannot be written, for
// example because storage.ErrQuotaExceeded, the board is left as it was.
func (s *Store) Add(ctx context.Context, p Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Post, 0, len(s.posts)+1)
	next = append(next, p)
	next = append(next, s.posts...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.posts = next
	s.logger.WithFields(log.Fields{"id": p.ID, "type": p.Category, "images": len(p.Images)}).Info("board: post added")
	return nil
}

// Delete removes the post with id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(s.posts) {
		return nil
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.posts = next
	s.logger.WithField("id", id).Info("board: post deleted")
	return nil
}

// Replace swaps the whole collection, as when importing a snapshot.
func (s *Store) Replace(ctx context.Context, posts []Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]Post(nil), posts...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.posts = next
	return nil
}

// Snapshot returns the stored JSON form of the current collection.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return encodePosts(s.posts)
}

// DecodeSnapshot parses data written by Snapshot.
func DecodeSnapshot(data []byte) ([]Post, error) {
	posts, err := decodePosts(data)
	if err != nil {
		return nil, fmt.Errorf("board: decode snapshot: %w", err)
	}
	return posts, nil
}

func (s *Store) persist(ctx context.Context, posts []Post) error {
	data, err := encodePosts(posts)
	if err != nil {
		return fmt.Errorf("board: encode: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("board: write %s: %w", s.key, err)
	}
	return nil
}

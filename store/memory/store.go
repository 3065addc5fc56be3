// Package memory provides an in-memory store for tsdbjson.
//
// The memory store is useful for:
//   - Unit testing without network or filesystem access
//   - Development and prototyping
//
// Data is held in RAM and lost when the store is closed or the process exits.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tsdbkit/tsdbjson"
)

func init() {
	tsdbjson.Register("memory", NewFromConfig)
}

// object is one stored object.
type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modTime     time.Time
}

// Store implements tsdbjson.Store backed by a map.
type Store struct {
	objects map[string]*object
	closed  bool
	mu      sync.RWMutex
}

// New creates a new memory store.
func New() *Store {
	return &Store{
		objects: make(map[string]*object),
	}
}

// NewFromConfig creates a new memory store from a config map.
// The memory store ignores all configuration options.
func NewFromConfig(_ map[string]string) (tsdbjson.Store, error) {
	return New(), nil
}

// Fetch reads the full object stored under key.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	obj, exists := s.objects[normalizeKey(key)]
	s.mu.RUnlock()

	if !exists {
		return nil, tsdbjson.ErrNotFound
	}

	// Copy so callers cannot mutate the stored bytes.
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// Put writes data under key, replacing any existing object.
func (s *Store) Put(ctx context.Context, key string, data []byte, opts ...tsdbjson.PutOption) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	cfg := tsdbjson.ApplyPutOptions(opts...)

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.objects[normalizeKey(key)] = &object{
		data:        stored,
		contentType: cfg.ContentType,
		metadata:    cfg.Metadata,
		modTime:     time.Now(),
	}
	s.mu.Unlock()
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.checkClosed(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateKey(key); err != nil {
		return false, err
	}

	s.mu.RLock()
	_, exists := s.objects[normalizeKey(key)]
	s.mu.RUnlock()
	return exists, nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.objects, normalizeKey(key))
	s.mu.Unlock()
	return nil
}

// List lists keys with the given prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalPrefix := normalizeKey(prefix)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.objects {
		if normalPrefix == "" || strings.HasPrefix(k, normalPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases the store. All subsequent calls return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.objects = nil
	return nil
}

// ContentType returns the content type recorded for key, or "" if the key
// does not exist. Primarily useful in tests.
func (s *Store) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if obj, ok := s.objects[normalizeKey(key)]; ok {
		return obj.contentType
	}
	return ""
}

func (s *Store) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return tsdbjson.ErrStoreClosed
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.TrimPrefix(key, "/")
}

func validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") {
		return tsdbjson.ErrInvalidKey
	}
	return nil
}

var _ tsdbjson.Store = (*Store)(nil)

// Package credstore persists the client's identity, token, and preferences as
// an opaque key-value resource. Last write wins; no transactional guarantees.
package credstore

import (
	"context"
	"errors"
	"sync"
)

// Well-known keys. The names are part of the persisted format; changing them
// orphans existing stored values.
const (
	KeyAuthToken  = "auth_token"
	KeyUser       = "user"
	KeyMode       = "themeMode"
	KeySound      = "soundEnabled"
	KeyAnimations = "animationsEnabled"
)

var ErrNotFound = errors.New("credstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (s *MemStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

package repository

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// KeyValueStore is the durable string storage the collections are mirrored into
type KeyValueStore interface {
	// Get returns the value stored under key or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites the value stored under key
	Set(ctx context.Context, key, value string) error
	Close() error
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates a KeyValueStore that lives only as long as the process
func NewMemoryStore() KeyValueStore {
	return &memoryStore{entries: make(map[string]string)}
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

type fileStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewFileStore creates a KeyValueStore backed by a single JSON document on disk.
// The parent directory is created if missing.
func NewFileStore(path string, logger *zap.Logger) (KeyValueStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &fileStore{path: path, logger: logger}, nil
}

func (s *fileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}

	value, ok := entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *fileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[key] = value

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}

// read loads the whole document. A missing or empty file is an empty store.
// A document that does not decode is moved aside and also read as empty.
func (s *fileStore) read() (map[string]string, error) {
	entries := map[string]string{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.quarantine(err)
		return map[string]string{}, nil
	}
	return entries, nil
}

// quarantine renames a corrupt document so the next Set does not overwrite it
func (s *fileStore) quarantine(decodeErr error) {
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixMilli())
	if err := os.Rename(s.path, aside); err != nil {
		s.logger.Warn("Ignoring corrupt storage file",
			zap.String("path", s.path),
			zap.NamedError("decode_error", decodeErr),
			zap.Error(err),
		)
		return
	}
	s.logger.Warn("Moved corrupt storage file aside",
		zap.String("path", s.path),
		zap.String("moved_to", aside),
		zap.Error(decodeErr),
	)
}

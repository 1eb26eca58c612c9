package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"inventory/internal/domain"

	"go.uber.org/zap"
)

// Keys the two collections are stored under
const (
	CategoriesKey = "categories"
	ProductsKey   = "products"
)

// CollectionRepository mirrors the category and product collections into a KeyValueStore.
// It never interprets the collections beyond (de)serializing them.
type CollectionRepository interface {
	LoadCategories(ctx context.Context) ([]*domain.Category, error)
	SaveCategories(ctx context.Context, categories []*domain.Category) error
	LoadProducts(ctx context.Context) ([]*domain.Product, error)
	SaveProducts(ctx context.Context, products []*domain.Product) error
}

type collectionRepository struct {
	kv        KeyValueStore
	namespace string
	logger    *zap.Logger
}

// NewCollectionRepository creates a CollectionRepository. A non-empty namespace
// prefixes both keys as "<namespace>:<key>".
func NewCollectionRepository(kv KeyValueStore, namespace string, logger *zap.Logger) CollectionRepository {
	return &collectionRepository{
		kv:        kv,
		namespace: strings.TrimSpace(namespace),
		logger:    logger,
	}
}

func (r *collectionRepository) LoadCategories(ctx context.Context) ([]*domain.Category, error) {
	return load[domain.Category](ctx, r, CategoriesKey)
}

func (r *collectionRepository) SaveCategories(ctx context.Context, categories []*domain.Category) error {
	return save(ctx, r, CategoriesKey, categories)
}

func (r *collectionRepository) LoadProducts(ctx context.Context) ([]*domain.Product, error) {
	return load[domain.Product](ctx, r, ProductsKey)
}

func (r *collectionRepository) SaveProducts(ctx context.Context, products []*domain.Product) error {
	return save(ctx, r, ProductsKey, products)
}

func (r *collectionRepository) key(name string) string {
	if r.namespace == "" {
		return name
	}
	return r.namespace + ":" + name
}

// load returns the stored collection. Absent, empty and corrupt values all
// decode to an empty collection; only a backend failure is an error.
func load[T any](ctx context.Context, r *collectionRepository, name string) ([]*T, error) {
	key := r.key(name)

	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []*T{}, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	if strings.TrimSpace(raw) == "" {
		return []*T{}, nil
	}

	var decoded []*T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		r.logger.Warn("Discarding corrupt stored collection",
			zap.String("key", key),
			zap.Error(err),
		)
		return []*T{}, nil
	}

	items := make([]*T, 0, len(decoded))
	for _, item := range decoded {
		if item == nil {
			continue
		}
		items = append(items, item)
	}
	if dropped := len(decoded) - len(items); dropped > 0 {
		r.logger.Warn("Dropped null entries from stored collection",
			zap.String("key", key),
			zap.Int("dropped", dropped),
		)
	}

	return items, nil
}

// save overwrites the stored collection with the full serialized slice
func save[T any](ctx context.Context, r *collectionRepository, name string, items []*T) error {
	if items == nil {
		items = []*T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := r.kv.Set(ctx, r.key(name), string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}

	return nil
}

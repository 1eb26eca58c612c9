package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"inventory/internal/domain"
	"inventory/internal/metrics"
	"inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCategory       = errors.New("category title is required")
	ErrCategoryAlreadyExists = errors.New("category with this title already exists")
	ErrInvalidProduct        = errors.New("product requires a title, a positive quantity and a category")
	ErrProductNotFound       = errors.New("product not found")
	// ErrNotPersisted wraps write-through failures. The in-memory change is kept.
	ErrNotPersisted = errors.New("change applied but not saved to storage")
)

// Operation names used in logs and metrics
const (
	OpAddCategory   = "add_category"
	OpAddProduct    = "add_product"
	OpDeleteProduct = "delete_product"
	OpEditProduct   = "edit_product"
)

// InventoryService is the authoritative holder of the category and product
// collections for one session. Every successful mutation writes the whole
// affected collection through the CollectionRepository before returning.
type InventoryService interface {
	AddCategory(ctx context.Context, title, description string) (*domain.Category, error)
	AddProduct(ctx context.Context, title string, quantity int, category string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (removed bool, err error)
	EditProduct(ctx context.Context, id int64, updated domain.Product) error

	FindProduct(id int64) (*domain.Product, bool)
	Products() []*domain.Product
	Categories() []*domain.Category
	Count() int
}

// Clock returns the current instant
type Clock func() time.Time

// Option configures the inventory service
type Option func(*inventoryService)

// WithClock overrides the time source used for ids and timestamps
func WithClock(clock Clock) Option {
	return func(s *inventoryService) {
		s.now = clock
	}
}

// WithMetrics attaches Prometheus collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *inventoryService) {
		s.metrics = m
	}
}

type inventoryService struct {
	mu         sync.RWMutex
	repo       repository.CollectionRepository
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        Clock
	categories []*domain.Category
	products   []*domain.Product
	lastID     int64
}

// NewInventoryService hydrates a new session from the repository.
// Missing or corrupt stored collections start empty; a backend read failure is returned.
func NewInventoryService(ctx context.Context, repo repository.CollectionRepository, logger *zap.Logger, opts ...Option) (InventoryService, error) {
	s := &inventoryService{
		repo:   repo,
		logger: logger.Named("inventory").With(zap.String("session_id", uuid.NewString())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	categories, err := repo.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate categories: %w", err)
	}
	products, err := repo.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate products: %w", err)
	}

	s.categories = categories
	s.products = products
	for _, p := range products {
		if p.ID > s.lastID {
			s.lastID = p.ID
		}
	}
	s.metrics.SetSizes(len(s.products), len(s.categories))

	s.logger.Info("Inventory session started",
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)),
	)

	return s, nil
}

// AddCategory appends a category. Blank titles are rejected with ErrInvalidCategory,
// duplicate titles (compared after trimming) with ErrCategoryAlreadyExists.
func (s *inventoryService) AddCategory(ctx context.Context, title, description string) (*domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		s.metrics.ObserveMutation(OpAddCategory, metrics.ResultRejected)
		return nil, ErrInvalidCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if strings.TrimSpace(c.Title) == title {
			s.metrics.ObserveMutation(OpAddCategory, metrics.ResultRejected)
			return nil, ErrCategoryAlreadyExists
		}
	}

	category := &domain.Category{Title: title, Description: description}
	s.categories = append(s.categories, category)
	created := *category

	if err := s.persistCategories(ctx, OpAddCategory, metrics.ResultOK); err != nil {
		return &created, err
	}

	s.logger.Info("Category added", zap.String("title", title))
	return &created, nil
}

// AddProduct appends a product with a fresh id and creation timestamp.
// It is rejected with ErrInvalidProduct unless title and category are non-blank
// and quantity is positive. The category is trimmed like category titles are.
func (s *inventoryService) AddProduct(ctx context.Context, title string, quantity int, category string) (*domain.Product, error) {
	category = strings.TrimSpace(category)
	if domain.Blank(title) || quantity <= 0 || category == "" {
		s.metrics.ObserveMutation(OpAddProduct, metrics.ResultRejected)
		return nil, ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	product := &domain.Product{
		ID:        s.nextID(now),
		Title:     title,
		Quantity:  quantity,
		Category:  category,
		CreatedAt: domain.FormatTimestamp(now),
	}
	s.products = append(s.products, product)
	created := product.Clone()

	if err := s.persistProducts(ctx, OpAddProduct, metrics.ResultOK); err != nil {
		return created, err
	}

	s.logger.Info("Product added",
		zap.Int64("id", product.ID),
		zap.String("title", title),
		zap.String("category", category),
	)
	return created, nil
}

// DeleteProduct removes the product with the given id. A miss leaves the
// collection unchanged and is not an error. The collection is persisted either way.
func (s *inventoryService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	removed := len(kept) != len(s.products)
	s.products = kept

	result := metrics.ResultOK
	if !removed {
		result = metrics.ResultNotFound
	}
	if err := s.persistProducts(ctx, OpDeleteProduct, result); err != nil {
		return removed, err
	}

	if !removed {
		s.logger.Debug("Delete of unknown product ignored", zap.Int64("id", id))
		return false, nil
	}

	s.logger.Info("Product deleted", zap.Int64("id", id))
	return true, nil
}

// EditProduct replaces the product with the given id in place. The stored id and
// creation timestamp always win over the ones in updated.
func (s *inventoryService) EditProduct(ctx context.Context, id int64, updated domain.Product) error {
	if domain.Blank(updated.Title) || updated.Quantity < 0 {
		s.metrics.ObserveMutation(OpEditProduct, metrics.ResultRejected)
		return ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.metrics.ObserveMutation(OpEditProduct, metrics.ResultNotFound)
		return ErrProductNotFound
	}

	replacement := updated.Clone()
	replacement.Category = strings.TrimSpace(replacement.Category)
	replacement.ID = s.products[idx].ID
	replacement.CreatedAt = s.products[idx].CreatedAt
	s.products[idx] = replacement

	if err := s.persistProducts(ctx, OpEditProduct, metrics.ResultOK); err != nil {
		return err
	}

	s.logger.Info("Product edited", zap.Int64("id", id))
	return nil
}

// FindProduct returns a copy of the product with the given id
func (s *inventoryService) FindProduct(id int64) (*domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return s.products[idx].Clone(), true
}

// Products returns a deep copy of the product collection in insertion order
func (s *inventoryService) Products() []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// Categories returns a copy of the category collection in insertion order
func (s *inventoryService) Categories() []*domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Category, len(s.categories))
	for i, c := range s.categories {
		copied := *c
		out[i] = &copied
	}
	return out
}

func (s *inventoryService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// nextID derives an id from the clock in milliseconds, bumped past the last
// issued id so back-to-back creations never collide. Callers hold s.mu.
func (s *inventoryService) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *inventoryService) indexOf(id int64) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// persistProducts writes the product collection and records result for op on success
func (s *inventoryService) persistProducts(ctx context.Context, op, result string) error {
	s.metrics.SetSizes(len(s.products), len(s.categories))
	if err := s.repo.SaveProducts(ctx, s.products); err != nil {
		return s.persistFailed(op, repository.ProductsKey, err)
	}
	s.metrics.ObserveMutation(op, result)
	return nil
}

func (s *inventoryService) persistCategories(ctx context.Context, op, result string) error {
	s.metrics.SetSizes(len(s.products), len(s.categories))
	if err := s.repo.SaveCategories(ctx, s.categories); err != nil {
		return s.persistFailed(op, repository.CategoriesKey, err)
	}
	s.metrics.ObserveMutation(op, result)
	return nil
}

func (s *inventoryService) persistFailed(op, collection string, err error) error {
	s.logger.Error("Failed to persist collection",
		zap.String("operation", op),
		zap.String("collection", collection),
		zap.Error(err),
	)
	s.metrics.ObserveMutation(op, metrics.ResultNotPersisted)
	s.metrics.ObservePersistFailure(collection)
	return fmt.Errorf("%w: %w", ErrNotPersisted, err)
}

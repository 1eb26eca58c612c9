// Package editor implements the single-product edit session behind
// /api/products/{id} and `inventoryctl product edit`. It resolves the product,
// stages field edits and commits them back to the store in one replacement.
package editor

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"inventory/internal/domain"
)

var (
	ErrNotFound = errors.New("product not found")
)

// State of an edit session
type State int

const (
	StateLoading State = iota
	StateFound
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Store is the part of the inventory the editor needs
type Store interface {
	FindProduct(id int64) (*domain.Product, bool)
	EditProduct(ctx context.Context, id int64, updated domain.Product) error
}

// Fields are the staged, uncommitted editable values
type Fields struct {
	Title       string `json:"title" yaml:"title"`
	Quantity    int    `json:"quantity" yaml:"quantity"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// Session edits exactly one product. It is not safe for concurrent use.
type Session struct {
	store    Store
	state    State
	original *domain.Product
	staged   Fields
}

// ParseID parses a route identifier. Surrounding whitespace is ignored.
func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// Open resolves rawID against the store. An unparseable id or a missing
// product leaves the session in StateNotFound, which is terminal.
func Open(store Store, rawID string) *Session {
	s := &Session{store: store, state: StateLoading}

	id, err := ParseID(rawID)
	if err != nil {
		s.state = StateNotFound
		return s
	}

	product, ok := store.FindProduct(id)
	if !ok {
		s.state = StateNotFound
		return s
	}

	s.original = product
	s.staged = Fields{
		Title:       product.Title,
		Quantity:    product.Quantity,
		Category:    product.Category,
		Description: product.DescriptionText(),
	}
	s.state = StateFound
	return s
}

func (s *Session) State() State {
	return s.state
}

// Product returns a copy of the product as loaded, or nil when not found
func (s *Session) Product() *domain.Product {
	return s.original.Clone()
}

// Staged returns the current staged values
func (s *Session) Staged() Fields {
	return s.staged
}

// Stage replaces all staged values
func (s *Session) Stage(f Fields) error {
	if s.state != StateFound {
		return ErrNotFound
	}
	s.staged = f
	return nil
}

func (s *Session) SetTitle(title string) error {
	return s.update(func(f *Fields) { f.Title = title })
}

func (s *Session) SetQuantity(quantity int) error {
	return s.update(func(f *Fields) { f.Quantity = quantity })
}

func (s *Session) SetCategory(category string) error {
	return s.update(func(f *Fields) { f.Category = category })
}

func (s *Session) SetDescription(description string) error {
	return s.update(func(f *Fields) { f.Description = description })
}

func (s *Session) update(fn func(*Fields)) error {
	if s.state != StateFound {
		return ErrNotFound
	}
	fn(&s.staged)
	return nil
}

// Commit overlays the staged fields on the loaded product and hands the
// replacement to the store. Id and createdAt are always the loaded ones.
// On success the session now reflects the committed product.
func (s *Session) Commit(ctx context.Context) (*domain.Product, error) {
	if s.state != StateFound {
		return nil, ErrNotFound
	}

	updated := s.original.Clone()
	updated.Title = s.staged.Title
	updated.Quantity = s.staged.Quantity
	updated.Category = s.staged.Category
	if s.original.Description != nil || s.staged.Description != "" {
		description := s.staged.Description
		updated.Description = &description
	}

	if err := s.store.EditProduct(ctx, updated.ID, *updated); err != nil {
		return nil, err
	}

	s.original = updated
	return updated.Clone(), nil
}

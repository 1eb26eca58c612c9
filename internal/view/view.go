// Package view derives the displayed product list from a store snapshot.
// Everything here is pure: inputs are never mutated and nothing is cached.
package view

import (
	"slices"
	"strings"

	"inventory/internal/domain"
)

// EmptyMessage is shown in place of an empty derived list
const EmptyMessage = "There are no products to display"

// SortOrder selects the createdAt ordering of the derived list
type SortOrder string

const (
	SortLatest   SortOrder = "latest"
	SortEarliest SortOrder = "earliest"
)

// ParseSortOrder maps user input to a SortOrder. Anything unknown is SortLatest.
func ParseSortOrder(raw string) SortOrder {
	if SortOrder(strings.ToLower(strings.TrimSpace(raw))) == SortEarliest {
		return SortEarliest
	}
	return SortLatest
}

// Criteria are the active filter and sort inputs
type Criteria struct {
	Search   string
	Category string
	Order    SortOrder
}

// Derive returns the products matching c, ordered by creation time.
// Nil entries are discarded, the title filter is a case-insensitive substring
// match, the category filter is exact and only applies when set. The sort is
// stable, so equal timestamps keep their collection order.
func Derive(products []*domain.Product, c Criteria) []*domain.Product {
	search := strings.ToLower(c.Search)

	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		out = append(out, p)
	}

	desc := c.Order != SortEarliest
	slices.SortStableFunc(out, func(a, b *domain.Product) int {
		cmp := a.CreatedTime().Compare(b.CreatedTime())
		if desc {
			return -cmp
		}
		return cmp
	})

	return out
}

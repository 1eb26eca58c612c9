package view

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"inventory/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genProduct() gopter.Gen {
	return gen.StructPtr(reflect.TypeOf(domain.Product{}), map[string]gopter.Gen{
		"ID":       gen.Int64Range(1, 1<<40),
		"Title":    gen.RegexMatch(`[A-Za-z ]{1,12}`),
		"Quantity": gen.IntRange(1, 100),
		"Category": gen.OneConstOf("Tools", "Paint", "tools", "Garden"),
		"CreatedAt": gen.Int64Range(1577836800000, 1893456000000).Map(func(ms int64) string {
			return domain.FormatTimestamp(time.UnixMilli(ms))
		}),
	})
}

func genProducts() gopter.Gen {
	return gen.SliceOf(gen.Weighted([]gen.WeightedGen{
		{Weight: 9, Gen: genProduct()},
		{Weight: 1, Gen: gen.Const((*domain.Product)(nil))},
	}))
}

// Feature: inventory, Property 3: Search keeps only titles containing the text
func TestProperty_SearchFilterIsCaseInsensitiveSubstring(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every derived product contains the search text, every omitted one does not", prop.ForAll(
		func(products []*domain.Product, search string) bool {
			derived := Derive(products, Criteria{Search: search})

			kept := map[*domain.Product]bool{}
			for _, p := range derived {
				if p == nil || !strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
					return false
				}
				kept[p] = true
			}
			for _, p := range products {
				if p == nil || kept[p] {
					continue
				}
				if strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
					return false
				}
			}
			return true
		},
		genProducts(),
		gen.RegexMatch(`[A-Za-z]{0,2}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: inventory, Property 4: Category filter is exact
func TestProperty_CategoryFilterIsExact(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a selected category keeps only exact matches", prop.ForAll(
		func(products []*domain.Product, category string) bool {
			derived := Derive(products, Criteria{Category: category})

			expected := 0
			for _, p := range products {
				if p != nil && p.Category == category {
					expected++
				}
			}
			if len(derived) != expected {
				return false
			}
			for _, p := range derived {
				if p.Category != category {
					return false
				}
			}
			return true
		},
		genProducts(),
		gen.OneConstOf("Tools", "tools", "Paint", "Missing"),
	))

	properties.Property("no category keeps every non-nil product", prop.ForAll(
		func(products []*domain.Product) bool {
			nonNil := 0
			for _, p := range products {
				if p != nil {
					nonNil++
				}
			}
			return len(Derive(products, Criteria{})) == nonNil
		},
		genProducts(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: inventory, Property 5: Derived list is ordered by createdAt
func TestProperty_SortOrderIsRespected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("adjacent pairs follow the selected order", prop.ForAll(
		func(products []*domain.Product, order string) bool {
			sortOrder := ParseSortOrder(order)
			derived := Derive(products, Criteria{Order: sortOrder})

			for i := 1; i < len(derived); i++ {
				x := derived[i-1].CreatedTime()
				y := derived[i].CreatedTime()
				if sortOrder == SortLatest && x.Before(y) {
					return false
				}
				if sortOrder == SortEarliest && x.After(y) {
					return false
				}
			}
			return true
		},
		genProducts(),
		gen.OneConstOf("latest", "earliest", "EARLIEST", "bogus", ""),
	))

	properties.Property("deriving never mutates the input", prop.ForAll(
		func(products []*domain.Product) bool {
			before := append([]*domain.Product(nil), products...)
			Derive(products, Criteria{Order: SortEarliest})
			return reflect.DeepEqual(before, products)
		},
		genProducts(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDeriveExampleScenario(t *testing.T) {
	products := []*domain.Product{
		nil,
		{ID: 1, Title: "Hammer", Category: "Tools", CreatedAt: "2024-03-01T10:00:00.000Z"},
		{ID: 2, Title: "Paint roller", Category: "Paint", CreatedAt: "2024-03-02T10:00:00.000Z"},
		{ID: 3, Title: "Sledgehammer", Category: "Tools", CreatedAt: "2024-02-01T10:00:00.000Z"},
	}

	derived := Derive(products, Criteria{Search: "ham", Order: SortLatest})
	require.Len(t, derived, 2)
	assert.Equal(t, int64(1), derived[0].ID)
	assert.Equal(t, int64(3), derived[1].ID)

	derived = Derive(products, Criteria{Search: "HAM", Order: SortEarliest})
	require.Len(t, derived, 2)
	assert.Equal(t, int64(3), derived[0].ID)

	assert.Empty(t, Derive(products, Criteria{Search: "screw"}))

	derived = Derive(products, Criteria{Category: "Paint"})
	require.Len(t, derived, 1)
	assert.Equal(t, int64(2), derived[0].ID)
}

func TestDeriveKeepsCollectionOrderForEqualTimestamps(t *testing.T) {
	products := []*domain.Product{
		{ID: 1, Title: "a", CreatedAt: "2024-03-01T10:00:00.000Z"},
		{ID: 2, Title: "b", CreatedAt: "2024-03-01T10:00:00.000Z"},
		{ID: 3, Title: "c", CreatedAt: "not a date"},
	}

	derived := Derive(products, Criteria{Order: SortLatest})
	require.Len(t, derived, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{derived[0].ID, derived[1].ID, derived[2].ID})
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortEarliest, ParseSortOrder(" Earliest "))
	assert.Equal(t, SortLatest, ParseSortOrder("latest"))
	assert.Equal(t, SortLatest, ParseSortOrder(""))
	assert.Equal(t, SortLatest, ParseSortOrder("oldest"))
}

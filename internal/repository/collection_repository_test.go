package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"inventory/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func genProduct() gopter.Gen {
	return gen.StructPtr(reflect.TypeOf(domain.Product{}), map[string]gopter.Gen{
		"ID":       gen.Int64Range(1, 1<<52),
		"Title":    gen.RegexMatch(`[A-Za-z0-9 ]{1,30}`),
		"Quantity": gen.IntRange(0, 10000),
		"Category": gen.RegexMatch(`[A-Za-z]{1,12}`),
		"CreatedAt": gen.Int64Range(0, 4102444800000).Map(func(ms int64) string {
			return domain.FormatTimestamp(time.UnixMilli(ms))
		}),
		"Description": gen.PtrOf(gen.RegexMatch(`[A-Za-z0-9 .,!?]{0,60}`)),
	})
}

func genCategory() gopter.Gen {
	return gen.StructPtr(reflect.TypeOf(domain.Category{}), map[string]gopter.Gen{
		"Title":       gen.RegexMatch(`[A-Za-z0-9 ]{1,30}`),
		"Description": gen.RegexMatch(`[A-Za-z0-9 .,!?]{0,60}`),
	})
}

func sameCollection[T any](a, b []*T) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Feature: inventory, Property 6: Saving then loading a collection round-trips
func TestProperty_ProductCollectionRoundTrips(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("loaded products deep-equal the saved products", prop.ForAll(
		func(products []*domain.Product) bool {
			ctx := context.Background()
			repo := NewCollectionRepository(NewMemoryStore(), "", zap.NewNop())

			if err := repo.SaveProducts(ctx, products); err != nil {
				t.Logf("FAIL: Failed to save products: %v", err)
				return false
			}

			loaded, err := repo.LoadProducts(ctx)
			if err != nil {
				t.Logf("FAIL: Failed to load products: %v", err)
				return false
			}

			return sameCollection(products, loaded)
		},
		gen.SliceOf(genProduct()),
	))

	properties.Property("loaded categories deep-equal the saved categories", prop.ForAll(
		func(categories []*domain.Category) bool {
			ctx := context.Background()
			repo := NewCollectionRepository(NewMemoryStore(), "shop", zap.NewNop())

			if err := repo.SaveCategories(ctx, categories); err != nil {
				t.Logf("FAIL: Failed to save categories: %v", err)
				return false
			}

			loaded, err := repo.LoadCategories(ctx)
			if err != nil {
				t.Logf("FAIL: Failed to load categories: %v", err)
				return false
			}

			return sameCollection(categories, loaded)
		},
		gen.SliceOf(genCategory()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLoadAbsentKeysReturnsEmptyCollections(t *testing.T) {
	ctx := context.Background()
	repo := NewCollectionRepository(NewMemoryStore(), "", zap.NewNop())

	products, err := repo.LoadProducts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	categories, err := repo.LoadCategories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestLoadCorruptValueReturnsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(ctx, ProductsKey, `{not json`))
	require.NoError(t, kv.Set(ctx, CategoriesKey, `   `))

	repo := NewCollectionRepository(kv, "", zap.NewNop())

	products, err := repo.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	categories, err := repo.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestLoadDropsNullEntries(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(ctx, ProductsKey,
		`[null,{"id":7,"title":"Hammer","quantity":5,"category":"Tools","createdAt":"2024-03-01T10:00:00.000Z"},null]`))

	repo := NewCollectionRepository(kv, "", zap.NewNop())

	products, err := repo.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(7), products[0].ID)
	assert.Nil(t, products[0].Description)
}

func TestSaveWritesFullCollectionUnderNamespacedKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	repo := NewCollectionRepository(kv, "shop", zap.NewNop())

	require.NoError(t, repo.SaveCategories(ctx, []*domain.Category{{Title: "Tools"}}))
	require.NoError(t, repo.SaveProducts(ctx, nil))

	raw, err := kv.Get(ctx, "shop:categories")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"Tools","description":""}]`, raw)

	raw, err = kv.Get(ctx, "shop:products")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	_, err = kv.Get(ctx, CategoriesKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestProductDescriptionOmittedWhenUnset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	repo := NewCollectionRepository(kv, "", zap.NewNop())

	product := &domain.Product{ID: 1, Title: "Saw", Quantity: 2, Category: "Tools", CreatedAt: "2024-03-01T10:00:00.000Z"}
	require.NoError(t, repo.SaveProducts(ctx, []*domain.Product{product}))

	raw, err := kv.Get(ctx, ProductsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"title":"Saw","quantity":2,"category":"Tools","createdAt":"2024-03-01T10:00:00.000Z"}]`, raw)
}

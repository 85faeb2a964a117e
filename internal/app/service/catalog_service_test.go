package service

import (
	"fmt"
	"math"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ListProducts_Pagination(t *testing.T) {
	env := setupServiceTest(t)
	for i := 1; i <= 14; i++ {
		env.createProduct(t, fmt.Sprintf("Product %02d", i), "10.00", 1)
	}

	first, err := env.catalog.ListProducts(1)
	require.NoError(t, err)
	assert.Len(t, first.Items, ProductsPerPage)
	assert.Equal(t, Pagination{
		Page: 1, PerPage: 12, Total: 14, TotalPages: 2,
		HasPrev: false, HasNext: true, NextPage: 2,
	}, first.Pagination)
	assert.Equal(t, "Product 01", first.Items[0].Name)

	second, err := env.catalog.ListProducts(2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.True(t, second.Pagination.HasPrev)
	assert.False(t, second.Pagination.HasNext)
	assert.Equal(t, 1, second.Pagination.PrevPage)

	clamped, err := env.catalog.ListProducts(-3)
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Pagination.Page)

	beyond, err := env.catalog.ListProducts(9)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}

func TestCatalogService_ListProducts_HugePage(t *testing.T) {
	env := setupServiceTest(t)
	env.createProduct(t, "Only", "10.00", 1)

	for _, page := range []int{math.MaxInt/ProductsPerPage + 2, math.MaxInt} {
		result, err := env.catalog.ListProducts(page)
		require.NoError(t, err)
		assert.Empty(t, result.Items, "page %d", page)
		assert.Equal(t, page, result.Pagination.Page)
		assert.False(t, result.Pagination.HasNext)
		assert.Zero(t, result.Pagination.NextPage)
	}
}

func TestCatalogService_ListProducts_Empty(t *testing.T) {
	env := setupServiceTest(t)

	page, err := env.catalog.ListProducts(1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
}

func TestCatalogService_GetProduct(t *testing.T) {
	env := setupServiceTest(t)
	product := env.createProduct(t, "Monitor", "1200.00", 15)

	found, err := env.catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monitor", found.Name)

	_, err = env.catalog.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_SeedCatalog(t *testing.T) {
	env := setupServiceTest(t)

	created, err := env.catalog.SeedCatalog(db.DemoCatalog())
	require.NoError(t, err)
	assert.Equal(t, 6, created)
	assert.Equal(t, int64(6), env.count(t, &model.Product{}))

	_, err = env.catalog.SeedCatalog(db.DemoCatalog())
	assert.ErrorIs(t, err, ErrCatalogNotEmpty)
	assert.Equal(t, int64(6), env.count(t, &model.Product{}))
}

func TestCatalogService_SeedCatalog_InvalidRow(t *testing.T) {
	env := setupServiceTest(t)

	_, err := env.catalog.SeedCatalog([]model.Product{
		{Name: "Fine", Price: decimal.NewFromInt(1), Stock: 1},
		{Name: "Broken", Price: decimal.NewFromInt(-1), Stock: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Contains(t, err.Error(), "product 2")
	assert.Equal(t, int64(0), env.count(t, &model.Product{}))
}

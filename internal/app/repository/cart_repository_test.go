package repository

import (
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.Customer, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	customer := &model.Customer{
		Name:         "Test Customer",
		Email:        "test@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(customer).Error)

	product := &model.Product{
		Name:  "Test Product",
		Price: decimal.RequireFromString("100.00"),
		Stock: 10,
	}
	require.NoError(t, testDB.Create(product).Error)

	return testDB, NewCartRepository(testDB), customer, product
}

func newCartItem(owner model.CartOwner, productID uint, quantity int) *model.CartItem {
	item := &model.CartItem{ProductID: productID, Quantity: quantity}
	item.SetOwner(owner)
	return item
}

func TestCartRepository_Create(t *testing.T) {
	_, repo, customer, product := setupCartTest(t)

	item := newCartItem(model.AccountOwner(customer.ID), product.ID, 2)
	err := repo.Create(item)
	assert.NoError(t, err)
	assert.NotZero(t, item.ID)
}

func TestCartRepository_Create_DuplicateLineRejected(t *testing.T) {
	_, repo, customer, product := setupCartTest(t)

	owner := model.AccountOwner(customer.ID)
	require.NoError(t, repo.Create(newCartItem(owner, product.ID, 1)))

	err := repo.Create(newCartItem(owner, product.ID, 1))
	assert.Error(t, err)
}

func TestCartRepository_FindByOwner_SeparatesOwners(t *testing.T) {
	testDB, repo, customer, product := setupCartTest(t)

	other := &model.Product{Name: "Other", Price: decimal.NewFromInt(5), Stock: 1}
	require.NoError(t, testDB.Create(other).Error)

	account := model.AccountOwner(customer.ID)
	session := model.AnonymousOwner("token-a")
	stranger := model.AnonymousOwner("token-b")

	require.NoError(t, repo.Create(newCartItem(account, product.ID, 1)))
	require.NoError(t, repo.Create(newCartItem(session, product.ID, 2)))
	require.NoError(t, repo.Create(newCartItem(session, other.ID, 3)))

	items, err := repo.FindByOwner(account)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "Test Product", items[0].Product.Name)

	items, err = repo.FindByOwner(session)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.FindByOwner(stranger)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.FindByOwner(model.CartOwner{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRepository_FindByOwnerAndProduct(t *testing.T) {
	_, repo, customer, product := setupCartTest(t)

	owner := model.AccountOwner(customer.ID)
	require.NoError(t, repo.Create(newCartItem(owner, product.ID, 4)))

	found, err := repo.FindByOwnerAndProduct(owner, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.Quantity)

	_, err = repo.FindByOwnerAndProduct(model.AnonymousOwner("nobody"), product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Update(t *testing.T) {
	_, repo, customer, product := setupCartTest(t)

	item := newCartItem(model.AccountOwner(customer.ID), product.ID, 1)
	require.NoError(t, repo.Create(item))

	loaded, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	loaded.Quantity = 5
	require.NoError(t, repo.Update(loaded))

	updated, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, 10, updated.Product.Stock)
}

func TestCartRepository_Delete(t *testing.T) {
	_, repo, customer, product := setupCartTest(t)

	item := newCartItem(model.AccountOwner(customer.ID), product.ID, 1)
	require.NoError(t, repo.Create(item))

	require.NoError(t, repo.Delete(item.ID))

	_, err := repo.FindByID(item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_DeleteByOwner(t *testing.T) {
	_, repo, customer, product := setupCartTest(t)

	account := model.AccountOwner(customer.ID)
	session := model.AnonymousOwner("keep-me")
	require.NoError(t, repo.Create(newCartItem(account, product.ID, 1)))
	require.NoError(t, repo.Create(newCartItem(session, product.ID, 1)))

	require.NoError(t, repo.DeleteByOwner(account))

	items, err := repo.FindByOwner(account)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.FindByOwner(session)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartRepository_RemoveOrdered(t *testing.T) {
	_, repo, customer, product := setupCartTest(t)

	account := model.AccountOwner(customer.ID)
	item := newCartItem(account, product.ID, 5)
	require.NoError(t, repo.Create(item))

	// the line grew from 2 to 5 after checkout read it
	require.NoError(t, repo.RemoveOrdered(item.ID, 2))
	remaining, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining.Quantity)

	require.NoError(t, repo.RemoveOrdered(item.ID, 3))
	_, err = repo.FindByID(item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// already gone
	assert.NoError(t, repo.RemoveOrdered(item.ID, 1))
}

func TestCartRepository_DeleteAnonymousBefore(t *testing.T) {
	testDB, repo, customer, product := setupCartTest(t)

	stale := newCartItem(model.AnonymousOwner("stale"), product.ID, 1)
	fresh := newCartItem(model.AnonymousOwner("fresh"), product.ID, 1)
	owned := newCartItem(model.AccountOwner(customer.ID), product.ID, 1)
	for _, item := range []*model.CartItem{stale, fresh, owned} {
		require.NoError(t, repo.Create(item))
	}

	old := time.Now().Add(-96 * time.Hour)
	require.NoError(t, testDB.Model(&model.CartItem{}).
		Where("id IN ?", []uint{stale.ID, owned.ID}).
		UpdateColumn("updated_at", old).Error)

	deleted, err := repo.DeleteAnonymousBefore(time.Now().Add(-72 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByID(stale.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByID(fresh.ID)
	assert.NoError(t, err)
	_, err = repo.FindByID(owned.ID)
	assert.NoError(t, err)
}

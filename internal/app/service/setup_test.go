package service

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/pkg/events"
	"github.com/ikkim/storefront-backend/pkg/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db        *gorm.DB
	auth      AuthService
	catalog   CatalogService
	cart      CartService
	checkout  CheckoutService
	publisher *events.Recorder
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	customerRepo := repository.NewCustomerRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	publisher := &events.Recorder{}

	return &serviceTestEnv{
		db:        testDB,
		auth:      NewAuthService(customerRepo),
		catalog:   NewCatalogService(testDB, productRepo),
		cart:      NewCartService(testDB, cartRepo, productRepo),
		checkout:  NewCheckoutService(testDB, customerRepo, cartRepo, productRepo, orderRepo, payment.NewSimulatedGateway(), publisher),
		publisher: publisher,
	}
}

func (e *serviceTestEnv) createProduct(t *testing.T, name, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *serviceTestEnv) createCustomer(t *testing.T, email string) *model.Customer {
	t.Helper()
	customer := &model.Customer{
		Name:         "Test Customer",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, e.db.Create(customer).Error)
	return customer
}

func (e *serviceTestEnv) reloadProduct(t *testing.T, id uint) *model.Product {
	t.Helper()
	var product model.Product
	require.NoError(t, e.db.First(&product, id).Error)
	return &product
}

func (e *serviceTestEnv) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/pkg/events"
	"github.com/ikkim/storefront-backend/pkg/payment"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSessionSecret = "controller-test-secret"

type controllerTestEnv struct {
	db        *gorm.DB
	engine    *gin.Engine
	publisher *events.Recorder
}

func setupControllerTest(t *testing.T) *controllerTestEnv {
	return setupControllerTestWithSeed(t, true)
}

func setupControllerTestWithSeed(t *testing.T, allowSeed bool) *controllerTestEnv {
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

	authService := service.NewAuthService(customerRepo)
	catalogService := service.NewCatalogService(testDB, productRepo)
	cartService := service.NewCartService(testDB, cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(testDB, customerRepo, cartRepo, productRepo, orderRepo, payment.NewSimulatedGateway(), publisher)

	authController := NewAuthController(authService, cartService, checkoutService)
	productController := NewProductController(catalogService, db.DemoCatalog, allowSeed)
	cartController := NewCartController(cartService)
	orderController := NewOrderController(checkoutService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.SessionMiddleware(session.NewManager(session.Options{Secret: testSessionSecret}, nil)))

	router.GET("/health", NewHealthController(testDB).Health)
	router.GET("/", productController.ListProducts)
	router.GET("/produto/:id", productController.GetProduct)
	router.GET("/admin/seed", productController.SeedDemoCatalog)
	router.GET("/cadastro", authController.RegisterPage)
	router.POST("/cadastro", authController.Register)
	router.GET("/login", authController.LoginPage)
	router.POST("/login", authController.Login)
	router.GET("/logout", authController.Logout)
	router.GET("/carrinho", cartController.GetCart)
	router.POST("/adicionar_carrinho/:produto_id", cartController.AddToCart)
	router.POST("/remover_carrinho/:item_id", cartController.RemoveFromCart)

	account := router.Group("/", middleware.RequireLogin())
	account.GET("/perfil", authController.Profile)
	account.POST("/perfil", authController.UpdateProfile)
	account.GET("/checkout", orderController.CheckoutSummary)
	account.POST("/checkout", orderController.Checkout)
	account.GET("/pedido_confirmado/:pedido_id", orderController.OrderConfirmation)
	account.GET("/pedido/:pedido_id", orderController.GetOrder)

	return &controllerTestEnv{
		db:        testDB,
		engine:    router,
		publisher: publisher,
	}
}

func (e *controllerTestEnv) createProduct(t *testing.T, name, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *controllerTestEnv) createCustomer(t *testing.T, name, email, password string) *model.Customer {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	customer := &model.Customer{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	require.NoError(t, e.db.Create(customer).Error)
	return customer
}

// browser keeps the session cookie between requests.
type browser struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func (e *controllerTestEnv) newBrowser(t *testing.T) *browser {
	return &browser{t: t, engine: e.engine, cookies: map[string]*http.Cookie{}}
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	b.engine.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return w
}

// login signs in and drains the welcome flash.
func (b *browser) login(email, password string) {
	b.t.Helper()
	w := b.post("/login", url.Values{"email": {email}, "senha": {password}})
	require.Equal(b.t, http.StatusSeeOther, w.Code)
	require.Equal(b.t, "/", w.Header().Get("Location"))
	b.get("/login")
}

type pageBody struct {
	Page    string      `json:"page"`
	Viewer  Viewer      `json:"viewer"`
	Flashes []FlashView `json:"flashes"`
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// flashesOn loads a page and returns the flashes it consumed.
func (b *browser) flashesOn(path string) []FlashView {
	b.t.Helper()
	w := b.get(path)
	require.Equal(b.t, http.StatusOK, w.Code)
	var page pageBody
	decodePage(b.t, w, &page)
	return page.Flashes
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

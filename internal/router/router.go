package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
)

type Router struct {
	healthController  *controller.HealthController
	authController    *controller.AuthController
	productController *controller.ProductController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	sessions          *session.Manager
	config            *config.Config
}

func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	sessions *session.Manager,
	cfg *config.Config,
) *Router {
	return &Router{
		healthController:  healthController,
		authController:    authController,
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
		sessions:          sessions,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SessionMiddleware(r.sessions))

	router.GET("/health", r.healthController.Health)

	// Catalog
	router.GET("/", r.productController.ListProducts)
	router.GET("/produto/:id", r.productController.GetProduct)
	router.GET("/admin/seed", r.productController.SeedDemoCatalog)

	// Account
	router.GET("/cadastro", r.authController.RegisterPage)
	router.POST("/cadastro", r.authController.Register)
	router.GET("/login", r.authController.LoginPage)
	router.POST("/login", r.authController.Login)
	router.GET("/logout", r.authController.Logout)

	// Cart works for anonymous visitors too
	router.GET("/carrinho", r.cartController.GetCart)
	router.POST("/adicionar_carrinho/:produto_id", r.cartController.AddToCart)
	router.POST("/remover_carrinho/:item_id", r.cartController.RemoveFromCart)

	account := router.Group("/", middleware.RequireLogin())
	{
		account.GET("/perfil", r.authController.Profile)
		account.POST("/perfil", r.authController.UpdateProfile)

		account.GET("/checkout", r.orderController.CheckoutSummary)
		account.POST("/checkout", r.orderController.Checkout)
		account.GET("/pedido_confirmado/:pedido_id", r.orderController.OrderConfirmation)
		account.GET("/pedido/:pedido_id", r.orderController.GetOrder)
	}

	return router
}

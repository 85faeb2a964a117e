package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
	demoCatalog    func() []model.Product
	allowSeed      bool
}

// NewProductController wires the catalog pages. demoCatalog supplies the
// products for GET /admin/seed, which only answers when allowSeed is set.
func NewProductController(catalogService service.CatalogService, demoCatalog func() []model.Product, allowSeed bool) *ProductController {
	return &ProductController{
		catalogService: catalogService,
		demoCatalog:    demoCatalog,
		allowSeed:      allowSeed,
	}
}

// ListProducts shows one catalog page
// GET /?page=N
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result, err := ctrl.catalogService.ListProducts(page)
	if err != nil {
		log.Error("Failed to list products", err, map[string]interface{}{
			"page": page,
		})
		apperrors.RespondWithParsedError(c, err, "product")
		return
	}

	renderPage(c, "catalog", gin.H{
		"products":   result.Items,
		"pagination": result.Pagination,
	})
}

// GetProduct shows a product detail page
// GET /produto/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.catalogService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found.")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.RespondWithParsedError(c, err, "product")
		return
	}

	renderPage(c, "product", gin.H{
		"product":  product,
		"in_stock": product.Stock > 0,
	})
}

// SeedDemoCatalog loads the demo products into an empty catalog
// GET /admin/seed
func (ctrl *ProductController) SeedDemoCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if !ctrl.allowSeed {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Page not found.")
		return
	}

	created, err := ctrl.catalogService.SeedCatalog(ctrl.demoCatalog())
	if err != nil {
		if errors.Is(err, service.ErrCatalogNotEmpty) {
			apperrors.BadRequest(c, apperrors.CatalogNotEmpty, "The catalog already has products.")
			return
		}
		log.Error("Failed to seed catalog", err)
		apperrors.InternalError(c, "Failed to seed catalog.")
		return
	}

	log.Info("Demo catalog seeded", map[string]interface{}{
		"created": created,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Demo products created successfully.",
		"created": created,
	})
}

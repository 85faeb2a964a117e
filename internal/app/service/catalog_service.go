package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

const ProductsPerPage = 12

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCatalogNotEmpty = errors.New("catalog already has products")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
	PrevPage   int   `json:"prev_page,omitempty"`
	NextPage   int   `json:"next_page,omitempty"`
}

func newPagination(page, perPage int, total int64) Pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	p := Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if p.HasPrev {
		p.PrevPage = page - 1
	}
	if p.HasNext {
		p.NextPage = page + 1
	}
	return p
}

type ProductPage struct {
	Items      []model.Product `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

type CatalogService interface {
	ListProducts(page int) (*ProductPage, error)
	GetProduct(id uint) (*model.Product, error)
	SeedCatalog(products []model.Product) (int, error)
}

type catalogService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
}

func NewCatalogService(db *gorm.DB, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		db:          db,
		productRepo: productRepo,
	}
}

// ListProducts returns one page of the catalog ordered by id. Pages below 1
// are treated as the first page; pages past the end are empty.
func (s *catalogService) ListProducts(page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	logger.Debug("Listing products", map[string]interface{}{
		"page": page,
	})

	total, err := s.productRepo.Count()
	if err != nil {
		logger.Error("Failed to count products", err)
		return nil, err
	}

	pagination := newPagination(page, ProductsPerPage, total)
	// past the end: no offset to compute, so huge pages cannot overflow it
	if page > pagination.TotalPages {
		return &ProductPage{Items: []model.Product{}, Pagination: pagination}, nil
	}

	products, err := s.productRepo.FindPage(ProductsPerPage, (page-1)*ProductsPerPage)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"page": page,
		})
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	return &ProductPage{
		Items:      products,
		Pagination: pagination,
	}, nil
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

// SeedCatalog inserts products only into an empty catalog and returns how
// many were created.
func (s *catalogService) SeedCatalog(products []model.Product) (int, error) {
	logger.Info("Seeding catalog", map[string]interface{}{
		"count": len(products),
	})

	for i := range products {
		if err := validateProduct(&products[i]); err != nil {
			logger.Warn("Rejected seed product", map[string]interface{}{
				"row":   i + 1,
				"error": err.Error(),
			})
			return 0, fmt.Errorf("product %d: %w", i+1, err)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		count, err := productRepo.Count()
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCatalogNotEmpty
		}
		return productRepo.CreateBatch(products)
	})
	if err != nil {
		if errors.Is(err, ErrCatalogNotEmpty) {
			logger.Warn("Catalog seeding refused: products already exist")
			return 0, err
		}
		logger.Error("Failed to seed catalog", err)
		return 0, err
	}

	logger.Info("Catalog seeded successfully", map[string]interface{}{
		"count": len(products),
	})
	return len(products), nil
}

func validateProduct(p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case len(p.Name) > 120:
		return fmt.Errorf("%w: name is longer than 120 characters", ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}

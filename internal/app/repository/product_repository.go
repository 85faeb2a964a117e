package repository

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockConflict is returned when a conditional stock decrement matched no row.
var ErrStockConflict = errors.New("stock changed concurrently")

type ProductRepository interface {
	Create(product *model.Product) error
	CreateBatch(products []model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByIDForUpdate(id uint) (*model.Product, error)
	FindPage(limit, offset int) ([]model.Product, error)
	Count() (int64, error)
	Update(product *model.Product) error
	DecrementStock(id uint, quantity int) error
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price.String(),
		"stock": product.Stock,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) CreateBatch(products []model.Product) error {
	logger.Debug("Creating products in database", map[string]interface{}{
		"count": len(products),
	})

	if len(products) == 0 {
		return nil
	}

	if err := r.db.CreateInBatches(&products, 100).Error; err != nil {
		logger.Error("Failed to create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	logger.Debug("Products created in database", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logLookupError("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

// FindByIDForUpdate locks the product row until the surrounding transaction ends.
// SQLite has no row locks and ignores the clause.
func (r *productRepository) FindByIDForUpdate(id uint) (*model.Product, error) {
	logger.Debug("Locking product row in database", map[string]interface{}{
		"product_id": id,
	})

	query := r.db
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product model.Product
	if err := query.First(&product, id).Error; err != nil {
		logLookupError("Failed to lock product row in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindPage(limit, offset int) ([]model.Product, error) {
	logger.Debug("Finding product page in database", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var products []model.Product
	if err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		logger.Error("Failed to find product page in database", err, map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		})
		return nil, err
	}

	logger.Debug("Product page found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count products in database", err)
		return 0, err
	}
	return count, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// DecrementStock subtracts quantity only while enough stock remains, so the
// column never goes negative even if the caller's read was stale.
func (r *productRepository) DecrementStock(id uint, quantity int) error {
	logger.Debug("Decrementing product stock in database", map[string]interface{}{
		"product_id": id,
		"quantity":   quantity,
	})

	result := r.db.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement product stock in database", result.Error, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Stock decrement matched no row", map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return ErrStockConflict
	}
	return nil
}

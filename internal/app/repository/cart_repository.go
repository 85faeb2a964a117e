package repository

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cartItem *model.CartItem) error
	FindByOwner(owner model.CartOwner) ([]model.CartItem, error)
	FindByID(id uint) (*model.CartItem, error)
	FindByOwnerAndProduct(owner model.CartOwner, productID uint) (*model.CartItem, error)
	Update(cartItem *model.CartItem) error
	Delete(id uint) error
	DeleteByOwner(owner model.CartOwner) error
	RemoveOrdered(id uint, quantity int) error
	DeleteAnonymousBefore(cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

// ownedBy restricts a query to the owner's lines. The zero owner matches nothing.
func ownedBy(owner model.CartOwner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id, ok := owner.CustomerID(); ok {
			return db.Where("customer_id = ?", id)
		}
		if token, ok := owner.SessionToken(); ok {
			return db.Where("session_token = ? AND customer_id IS NULL", token)
		}
		return db.Where("1 = 0")
	}
}

func (r *cartRepository) Create(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"owner":      cartItem.Owner().String(),
		"product_id": cartItem.ProductID,
		"quantity":   cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"owner":      cartItem.Owner().String(),
			"product_id": cartItem.ProductID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"product_id":   cartItem.ProductID,
	})
	return nil
}

func (r *cartRepository) FindByOwner(owner model.CartOwner) ([]model.CartItem, error) {
	logger.Debug("Finding cart items by owner in database", map[string]interface{}{
		"owner": owner.String(),
	})

	var cartItems []model.CartItem
	err := r.db.Scopes(ownedBy(owner)).
		Preload("Product").
		Order("id ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by owner in database", err, map[string]interface{}{
			"owner": owner.String(),
		})
		return nil, err
	}

	logger.Debug("Cart items found by owner in database", map[string]interface{}{
		"owner": owner.String(),
		"count": len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindByID(id uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by ID in database", map[string]interface{}{
		"cart_item_id": id,
	})

	var cartItem model.CartItem
	if err := r.db.Preload("Product").First(&cartItem, id).Error; err != nil {
		logLookupError("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return nil, err
	}

	return &cartItem, nil
}

func (r *cartRepository) FindByOwnerAndProduct(owner model.CartOwner, productID uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by owner and product in database", map[string]interface{}{
		"owner":      owner.String(),
		"product_id": productID,
	})

	var cartItem model.CartItem
	err := r.db.Scopes(ownedBy(owner)).
		Where("product_id = ?", productID).
		First(&cartItem).Error
	if err != nil {
		logLookupError("Failed to find cart item by owner and product in database", err, map[string]interface{}{
			"owner":      owner.String(),
			"product_id": productID,
		})
		return nil, err
	}

	return &cartItem, nil
}

func (r *cartRepository) Update(cartItem *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"owner":        cartItem.Owner().String(),
		"quantity":     cartItem.Quantity,
	})

	// Omit the preloaded product so Save does not upsert it.
	if err := r.db.Omit("Product").Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByOwner(owner model.CartOwner) error {
	logger.Debug("Deleting cart items by owner from database", map[string]interface{}{
		"owner": owner.String(),
	})

	if err := r.db.Scopes(ownedBy(owner)).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items by owner from database", err, map[string]interface{}{
			"owner": owner.String(),
		})
		return err
	}
	return nil
}

// RemoveOrdered takes a checked-out quantity off a line. A line that grew
// after it was read keeps the difference.
func (r *cartRepository) RemoveOrdered(id uint, quantity int) error {
	logger.Debug("Removing ordered quantity from cart item in database", map[string]interface{}{
		"cart_item_id": id,
		"quantity":     quantity,
	})

	result := r.db.Where("id = ? AND quantity <= ?", id, quantity).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete ordered cart item from database", result.Error, map[string]interface{}{
			"cart_item_id": id,
		})
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	err := r.db.Model(&model.CartItem{}).
		Where("id = ? AND quantity > ?", id, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity)).Error
	if err != nil {
		logger.Error("Failed to reduce ordered cart item quantity in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

// DeleteAnonymousBefore purges session-owned lines untouched since cutoff.
func (r *cartRepository) DeleteAnonymousBefore(cutoff time.Time) (int64, error) {
	logger.Debug("Deleting stale anonymous cart items from database", map[string]interface{}{
		"cutoff": cutoff,
	})

	result := r.db.Where("customer_id IS NULL AND updated_at < ?", cutoff).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete stale anonymous cart items from database", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	logger.Debug("Stale anonymous cart items deleted from database", map[string]interface{}{
		"deleted": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartItemAccessDenied = errors.New("cart item belongs to another cart")
	ErrNoCartOwner          = errors.New("cart owner is required")
)

// InsufficientStockError names the product that could not be supplied.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type CartService interface {
	GetCart(owner model.CartOwner) ([]model.CartItem, error)
	AddToCart(owner model.CartOwner, productID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(owner model.CartOwner, cartItemID uint) error
	CalculateTotal(items []model.CartItem) decimal.Decimal
	ClearCart(owner model.CartOwner) error
	MergeOnLogin(sessionToken string, customerID uint) error
	PurgeAbandoned(olderThan time.Duration) (int64, error)
}

type cartService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(owner model.CartOwner) ([]model.CartItem, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"owner": owner.String(),
	})

	if owner.IsZero() {
		return []model.CartItem{}, nil
	}

	cartItems, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"owner": owner.String(),
		})
		return nil, err
	}
	return cartItems, nil
}

// AddToCart merges quantity into the owner's line for the product, creating
// the line if needed. Stock is checked against the requested quantity only;
// checkout re-validates the full line.
func (s *cartService) AddToCart(owner model.CartOwner, productID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"owner":      owner.String(),
		"product_id": productID,
		"quantity":   quantity,
	})

	if owner.IsZero() {
		return nil, ErrNoCartOwner
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var result *model.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		product, err := s.productRepo.WithTx(tx).FindByID(productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if !product.HasStock(quantity) {
			return &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   quantity,
			}
		}

		existing, err := cartRepo.FindByOwnerAndProduct(owner, productID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			existing.Quantity += quantity
			if err := cartRepo.Update(existing); err != nil {
				return err
			}
			result = existing
		} else {
			item := &model.CartItem{ProductID: productID, Quantity: quantity}
			item.SetOwner(owner)
			if err := cartRepo.Create(item); err != nil {
				return err
			}
			result = item
		}
		result.Product = *product
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrProductNotFound):
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"owner":      owner.String(),
				"product_id": productID,
			})
		case errors.As(err, &stockErr):
			logger.Warn("Cannot add to cart: insufficient product stock", map[string]interface{}{
				"owner":      owner.String(),
				"product_id": productID,
				"available":  stockErr.Available,
				"requested":  stockErr.Requested,
			})
		default:
			logger.Error("Failed to add item to cart", err, map[string]interface{}{
				"owner":      owner.String(),
				"product_id": productID,
			})
		}
		return nil, err
	}

	logger.Info("Item added to cart successfully", map[string]interface{}{
		"owner":        owner.String(),
		"cart_item_id": result.ID,
		"quantity":     result.Quantity,
	})
	return result, nil
}

func (s *cartService) RemoveFromCart(owner model.CartOwner, cartItemID uint) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"owner":        owner.String(),
		"cart_item_id": cartItemID,
	})

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if !owner.Owns(cartItem) {
		logger.Warn("Cart item access denied", map[string]interface{}{
			"owner":        owner.String(),
			"cart_item_id": cartItemID,
		})
		return ErrCartItemAccessDenied
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to remove cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	logger.Info("Item removed from cart successfully", map[string]interface{}{
		"owner":        owner.String(),
		"cart_item_id": cartItemID,
	})
	return nil
}

// CalculateTotal sums quantity times current price. Stock is not re-checked.
func (s *cartService) CalculateTotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}
	return total
}

func (s *cartService) ClearCart(owner model.CartOwner) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"owner": owner.String(),
	})

	if owner.IsZero() {
		return nil
	}

	if err := s.cartRepo.DeleteByOwner(owner); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"owner": owner.String(),
		})
		return err
	}
	return nil
}

// MergeOnLogin moves the anonymous cart identified by sessionToken into the
// customer's cart. Lines for products the customer already has are summed
// into the customer's line; the rest change owner unchanged.
func (s *cartService) MergeOnLogin(sessionToken string, customerID uint) error {
	anonymous := model.AnonymousOwner(sessionToken)
	account := model.AccountOwner(customerID)
	if anonymous.IsZero() || account.IsZero() {
		return nil
	}

	logger.Info("Merging session cart into customer cart", map[string]interface{}{
		"customer_id": customerID,
	})

	merged, moved := 0, 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		sessionItems, err := cartRepo.FindByOwner(anonymous)
		if err != nil {
			return err
		}

		for i := range sessionItems {
			item := &sessionItems[i]

			existing, err := cartRepo.FindByOwnerAndProduct(account, item.ProductID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if existing != nil {
				existing.Quantity += item.Quantity
				if err := cartRepo.Update(existing); err != nil {
					return err
				}
				if err := cartRepo.Delete(item.ID); err != nil {
					return err
				}
				merged++
				continue
			}

			item.SetOwner(account)
			if err := cartRepo.Update(item); err != nil {
				return err
			}
			moved++
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to merge session cart", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return err
	}

	logger.Info("Session cart merged successfully", map[string]interface{}{
		"customer_id": customerID,
		"merged":      merged,
		"moved":       moved,
	})
	return nil
}

// PurgeAbandoned deletes anonymous cart lines idle for longer than olderThan.
func (s *cartService) PurgeAbandoned(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	deleted, err := s.cartRepo.DeleteAnonymousBefore(cutoff)
	if err != nil {
		logger.Error("Failed to purge abandoned carts", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, err
	}

	if deleted > 0 {
		logger.Info("Abandoned cart lines purged", map[string]interface{}{
			"deleted": deleted,
			"cutoff":  cutoff,
		})
	}
	return deleted, nil
}

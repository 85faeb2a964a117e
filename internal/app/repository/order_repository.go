package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	CreateLines(lines []model.OrderLine) error
	CreatePayment(payment *model.Payment) error
	FindByID(id uint) (*model.Order, error)
	FindByCustomerID(customerID uint) ([]model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_lines.id ASC").Preload("Product")
	}).Preload("Payment")
}

// Create inserts the order row only; lines and payment are written separately.
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"customer_id": order.CustomerID,
		"total":       order.Total.String(),
		"status":      order.Status,
	})

	if err := r.db.Omit("Lines", "Payment").Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"customer_id": order.CustomerID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
	})
	return nil
}

func (r *orderRepository) CreateLines(lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	logger.Debug("Creating order lines in database", map[string]interface{}{
		"order_id": lines[0].OrderID,
		"count":    len(lines),
	})

	if err := r.db.Omit("Product").Create(&lines).Error; err != nil {
		logger.Error("Failed to create order lines in database", err, map[string]interface{}{
			"order_id": lines[0].OrderID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) CreatePayment(payment *model.Payment) error {
	logger.Debug("Creating payment in database", map[string]interface{}{
		"order_id": payment.OrderID,
		"method":   payment.Method,
		"status":   payment.Status,
	})

	if err := r.db.Create(payment).Error; err != nil {
		logger.Error("Failed to create payment in database", err, map[string]interface{}{
			"order_id": payment.OrderID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logLookupError("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"status":      order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindByCustomerID(customerID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Debug("Orders found by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
		"count":       len(orders),
	})
	return orders, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}
	return nil
}

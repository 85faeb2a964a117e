package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/events"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/payment"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MaxPaymentMethodLength = 50
	eventPublishTimeout    = 5 * time.Second
)

var (
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrPaymentMethodTooLong  = errors.New("payment method is too long")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAccessDenied     = errors.New("order belongs to another customer")
	ErrInvalidOrderStatus    = errors.New("invalid order status transition")
	ErrPaymentDeclined       = errors.New("payment was declined")
)

// CheckoutSummary is what the customer reviews before paying.
type CheckoutSummary struct {
	Customer *model.Customer  `json:"customer"`
	Items    []model.CartItem `json:"items"`
	Total    decimal.Decimal  `json:"total"`
}

type CheckoutService interface {
	Summary(customerID uint) (*CheckoutSummary, error)
	Finalize(ctx context.Context, customerID uint, paymentMethod string) (*model.Order, error)
	GetCustomerOrders(customerID uint) ([]model.Order, error)
	GetOrderForCustomer(customerID, orderID uint) (*model.Order, error)
}

type checkoutService struct {
	db           *gorm.DB
	customerRepo repository.CustomerRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	gateway      payment.Gateway
	publisher    events.Publisher
}

func NewCheckoutService(
	db *gorm.DB,
	customerRepo repository.CustomerRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	gateway payment.Gateway,
	publisher events.Publisher,
) CheckoutService {
	if gateway == nil {
		gateway = payment.NewSimulatedGateway()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &checkoutService{
		db:           db,
		customerRepo: customerRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		gateway:      gateway,
		publisher:    publisher,
	}
}

func (s *checkoutService) findCustomer(customerID uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout customer not found", map[string]interface{}{
				"customer_id": customerID,
			})
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to fetch checkout customer", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return customer, nil
}

func (s *checkoutService) Summary(customerID uint) (*CheckoutSummary, error) {
	customer, err := s.findCustomer(customerID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.FindByOwner(model.AccountOwner(customerID))
	if err != nil {
		logger.Error("Failed to fetch cart for checkout", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}

	return &CheckoutSummary{
		Customer: customer,
		Items:    items,
		Total:    total,
	}, nil
}

// Finalize turns the customer's cart into a confirmed, paid order in one
// transaction. Any failure leaves stock, orders and cart untouched.
func (s *checkoutService) Finalize(ctx context.Context, customerID uint, paymentMethod string) (*model.Order, error) {
	paymentMethod = strings.TrimSpace(paymentMethod)

	logger.Info("Finalizing checkout", map[string]interface{}{
		"customer_id":    customerID,
		"payment_method": paymentMethod,
	})

	if paymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}
	if len(paymentMethod) > MaxPaymentMethodLength {
		return nil, ErrPaymentMethodTooLong
	}

	customer, err := s.findCustomer(customerID)
	if err != nil {
		return nil, err
	}

	owner := model.AccountOwner(customerID)

	var orderID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cartItems, err := cartRepo.FindByOwner(owner)
		if err != nil {
			logger.Error("Failed to fetch cart for checkout", err, map[string]interface{}{
				"customer_id": customerID,
			})
			return err
		}
		if len(cartItems) == 0 {
			logger.Warn("Checkout attempted with empty cart", map[string]interface{}{
				"customer_id": customerID,
			})
			return ErrEmptyCart
		}

		// lock rows in a stable order so concurrent checkouts cannot deadlock
		sort.Slice(cartItems, func(i, j int) bool {
			return cartItems[i].ProductID < cartItems[j].ProductID
		})

		lines := make([]model.OrderLine, 0, len(cartItems))
		total := decimal.Zero
		for _, item := range cartItems {
			product, err := productRepo.FindByIDForUpdate(item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			if !product.HasStock(item.Quantity) {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   item.Quantity,
				}
			}

			line := model.OrderLine{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			}
			total = total.Add(line.Subtotal())
			lines = append(lines, line)
		}

		order := &model.Order{
			CustomerID: customerID,
			Total:      total,
			Status:     model.OrderStatusPending,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		for i := range lines {
			lines[i].OrderID = order.ID
			if err := productRepo.DecrementStock(lines[i].ProductID, lines[i].Quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					return s.stockConflict(productRepo, lines[i], cartItems[i].Product.Name)
				}
				return err
			}
		}
		if err := orderRepo.CreateLines(lines); err != nil {
			return err
		}

		approval, err := s.gateway.Approve(ctx, payment.Request{
			OrderID:    order.ID,
			CustomerID: customerID,
			Method:     paymentMethod,
			Amount:     total,
		})
		if err != nil {
			if errors.Is(err, payment.ErrDeclined) {
				return ErrPaymentDeclined
			}
			return fmt.Errorf("authorize payment: %w", err)
		}
		if err := orderRepo.CreatePayment(&model.Payment{
			OrderID:       order.ID,
			Method:        paymentMethod,
			Status:        model.PaymentStatusApproved,
			TransactionID: approval.TransactionID,
			PaidAt:        approval.ApprovedAt,
		}); err != nil {
			return err
		}

		if !order.Status.CanTransitionTo(model.OrderStatusConfirmed) {
			return ErrInvalidOrderStatus
		}
		if err := orderRepo.UpdateStatus(order.ID, model.OrderStatusConfirmed); err != nil {
			return err
		}

		// only what was ordered leaves the cart
		for _, item := range cartItems {
			if err := cartRepo.RemoveOrdered(item.ID, item.Quantity); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.Is(err, ErrEmptyCart) {
			return nil, err
		}
		if errors.As(err, &stockErr) {
			logger.Warn("Checkout aborted: insufficient stock", map[string]interface{}{
				"customer_id": customerID,
				"product_id":  stockErr.ProductID,
				"available":   stockErr.Available,
				"requested":   stockErr.Requested,
			})
		} else {
			logger.Error("Checkout transaction failed", err, map[string]interface{}{
				"customer_id": customerID,
			})
		}
		return nil, err
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		logger.Error("Failed to reload confirmed order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Order confirmed successfully", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": customerID,
		"total":       order.Total.String(),
		"lines":       len(order.Lines),
	})

	s.publishConfirmed(ctx, customer, order)
	return order, nil
}

// stockConflict reports a decrement that lost a race, with the stock the
// product has now.
func (s *checkoutService) stockConflict(productRepo repository.ProductRepository, line model.OrderLine, name string) error {
	stockErr := &InsufficientStockError{
		ProductID:   line.ProductID,
		ProductName: name,
		Requested:   line.Quantity,
	}
	if product, err := productRepo.FindByID(line.ProductID); err == nil {
		stockErr.ProductName = product.Name
		stockErr.Available = product.Stock
	}
	return stockErr
}

// publishConfirmed never fails the checkout; the order is already committed.
func (s *checkoutService) publishConfirmed(ctx context.Context, customer *model.Customer, order *model.Order) {
	event := events.OrderConfirmed{
		OrderID:       order.ID,
		CustomerID:    customer.ID,
		CustomerEmail: customer.Email,
		Total:         order.Total,
		ConfirmedAt:   order.UpdatedAt,
		Lines:         make([]events.OrderLineEvent, 0, len(order.Lines)),
	}
	if order.Payment != nil {
		event.PaymentMethod = order.Payment.Method
	}
	for _, line := range order.Lines {
		event.Lines = append(event.Lines, events.OrderLineEvent{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, eventPublishTimeout)
	defer cancel()

	if err := s.publisher.PublishOrderConfirmed(ctx, event); err != nil {
		logger.Error("Failed to publish order confirmed event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

func (s *checkoutService) GetCustomerOrders(customerID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByCustomerID(customerID)
	if err != nil {
		logger.Error("Failed to fetch customer orders", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *checkoutService) GetOrderForCustomer(customerID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.CustomerID != customerID {
		logger.Warn("Order access denied", map[string]interface{}{
			"order_id":    orderID,
			"customer_id": customerID,
		})
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

package controller

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
)

const checkoutPath = "/checkout"

type OrderController struct {
	checkoutService service.CheckoutService
}

func NewOrderController(checkoutService service.CheckoutService) *OrderController {
	return &OrderController{
		checkoutService: checkoutService,
	}
}

type CheckoutForm struct {
	PaymentMethod string `form:"metodo_pagamento"`
}

// CheckoutSummary shows the cart the customer is about to pay for
// GET /checkout
func (ctrl *OrderController) CheckoutSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	customerID, _ := middleware.GetCustomerID(c)

	summary, err := ctrl.checkoutService.Summary(customerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			expireSession(c)
		case errors.Is(err, service.ErrEmptyCart):
			redirectWithFlash(c, homePath, session.FlashWarning, "Your cart is empty.")
		default:
			log.Error("Failed to build checkout summary", err, map[string]interface{}{
				"customer_id": customerID,
			})
			apperrors.RespondWithParsedError(c, err, "checkout")
		}
		return
	}

	renderPage(c, "checkout", gin.H{
		"customer": summary.Customer,
		"items":    summary.Items,
		"total":    summary.Total,
	})
}

// Checkout places the order with a simulated, always-approved payment
// POST /checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	customerID, _ := middleware.GetCustomerID(c)

	var form CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, checkoutPath, session.FlashDanger, "Invalid checkout data.")
		return
	}

	order, err := ctrl.checkoutService.Finalize(c.Request.Context(), customerID, form.PaymentMethod)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrPaymentMethodRequired):
			redirectWithFlash(c, checkoutPath, session.FlashDanger, "Please select a payment method.")
		case errors.Is(err, service.ErrPaymentMethodTooLong):
			redirectWithFlash(c, checkoutPath, session.FlashDanger, "Invalid payment method.")
		case errors.Is(err, service.ErrCustomerNotFound):
			expireSession(c)
		case errors.Is(err, service.ErrEmptyCart):
			redirectWithFlash(c, homePath, session.FlashWarning, "Your cart is empty.")
		case errors.Is(err, service.ErrPaymentDeclined):
			redirectWithFlash(c, checkoutPath, session.FlashDanger, "Payment was declined. Please try another payment method.")
		case errors.As(err, &stockErr):
			redirectWithFlash(c, cartPath, session.FlashDanger,
				fmt.Sprintf("Insufficient stock for %s. Available: %d", stockErr.ProductName, stockErr.Available))
		case errors.Is(err, service.ErrProductNotFound):
			redirectWithFlash(c, cartPath, session.FlashDanger, "A product in your cart is no longer available.")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"customer_id": customerID,
			})
			redirectWithFlash(c, cartPath, session.FlashDanger, "Error processing your order. Please try again.")
		}
		return
	}

	redirectWithFlash(c, fmt.Sprintf("/pedido_confirmado/%d", order.ID), session.FlashSuccess,
		fmt.Sprintf("Order #%d placed successfully! Payment approved.", order.ID))
}

// OrderConfirmation shows a freshly placed order
// GET /pedido_confirmado/:pedido_id
func (ctrl *OrderController) OrderConfirmation(c *gin.Context) {
	ctrl.renderOrder(c, "order_confirmation")
}

// GetOrder shows one of the customer's orders
// GET /pedido/:pedido_id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	ctrl.renderOrder(c, "order")
}

func (ctrl *OrderController) renderOrder(c *gin.Context, page string) {
	orderID, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	customerID, _ := middleware.GetCustomerID(c)

	order, err := ctrl.checkoutService.GetOrderForCustomer(customerID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found.")
		case errors.Is(err, service.ErrOrderAccessDenied):
			redirectWithFlash(c, profilePath, session.FlashDanger, "You do not have access to this order.")
		default:
			middleware.GetLoggerFromContext(c).Error("Failed to fetch order", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.RespondWithParsedError(c, err, "order")
		}
		return
	}

	renderPage(c, page, gin.H{
		"order": order,
		"lines": orderLineViews(order),
	})
}

// OrderLineView adds the frozen subtotal to an order line.
type OrderLineView struct {
	model.OrderLine
	Subtotal string `json:"subtotal"`
}

func orderLineViews(order *model.Order) []OrderLineView {
	views := make([]OrderLineView, 0, len(order.Lines))
	for _, line := range order.Lines {
		views = append(views, OrderLineView{
			OrderLine: line,
			Subtotal:  line.Subtotal().StringFixed(2),
		})
	}
	return views
}

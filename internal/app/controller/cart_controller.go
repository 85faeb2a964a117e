package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
)

const cartPath = "/carrinho"

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// cartOwnerForWrite returns the owner for a mutation, creating the session
// cart token for anonymous visitors.
func cartOwnerForWrite(state *session.State) model.CartOwner {
	if id, ok := state.CustomerID(); ok {
		return model.AccountOwner(id)
	}
	return model.AnonymousOwner(state.EnsureCartToken())
}

// GetCart shows the cart
// GET /carrinho
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	state := middleware.GetSession(c)

	items := []model.CartItem{}
	if owner := state.Owner(); !owner.IsZero() {
		found, err := ctrl.cartService.GetCart(owner)
		if err != nil {
			log.Error("Failed to fetch cart", err, map[string]interface{}{
				"owner": owner.String(),
			})
			apperrors.RespondWithParsedError(c, err, "cart")
			return
		}
		items = found
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	renderPage(c, "cart", gin.H{
		"items": items,
		"total": ctrl.cartService.CalculateTotal(items),
		"count": count,
	})
}

// AddToCart adds a product to the session or account cart
// POST /adicionar_carrinho/:produto_id
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "produto_id")
	if !ok {
		return
	}

	quantity := 1
	if raw := strings.TrimSpace(c.PostForm("quantidade")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			redirectWithFlash(c, cartPath, session.FlashDanger, "Invalid quantity.")
			return
		}
		quantity = n
	}
	if quantity < 1 {
		redirectWithFlash(c, cartPath, session.FlashDanger, "Quantity must be at least 1.")
		return
	}

	state := middleware.GetSession(c)
	item, err := ctrl.cartService.AddToCart(cartOwnerForWrite(state), productID, quantity)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			redirectWithFlash(c, cartPath, session.FlashDanger, "Product not found.")
		case errors.As(err, &stockErr):
			redirectWithFlash(c, cartPath, session.FlashDanger,
				fmt.Sprintf("Insufficient stock for %s. Available: %d", stockErr.ProductName, stockErr.Available))
		default:
			log.Error("Failed to add to cart", err, map[string]interface{}{
				"product_id": productID,
			})
			redirectWithFlash(c, cartPath, session.FlashDanger, apperrors.ParseError(err, "add to cart").Message)
		}
		return
	}

	redirectWithFlash(c, cartPath, session.FlashSuccess,
		fmt.Sprintf("%dx %s added to cart.", quantity, item.Product.Name))
}

// RemoveFromCart deletes one line from the visitor's own cart
// POST /remover_carrinho/:item_id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	state := middleware.GetSession(c)
	err := ctrl.cartService.RemoveFromCart(state.Owner(), itemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			redirectWithFlash(c, cartPath, session.FlashWarning, "Item is no longer in your cart.")
		case errors.Is(err, service.ErrCartItemAccessDenied):
			redirectWithFlash(c, cartPath, session.FlashDanger, "You cannot remove this item.")
		default:
			log.Error("Failed to remove cart item", err, map[string]interface{}{
				"cart_item_id": itemID,
			})
			redirectWithFlash(c, cartPath, session.FlashDanger, apperrors.ParseError(err, "remove from cart").Message)
		}
		return
	}

	redirectWithFlash(c, cartPath, session.FlashInfo, "Item removed from cart.")
}

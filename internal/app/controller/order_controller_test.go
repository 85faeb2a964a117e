package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPage struct {
	pageBody
	Order model.Order     `json:"order"`
	Lines []OrderLineView `json:"lines"`
}

func TestOrderController_RequiresLogin(t *testing.T) {
	env := setupControllerTest(t)
	b := env.newBrowser(t)

	for _, path := range []string{"/checkout", "/perfil", "/pedido/1", "/pedido_confirmado/1"} {
		w := b.get(path)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}

	flashes := b.flashesOn("/login")
	require.NotEmpty(t, flashes)
	assert.Equal(t, "warning", flashes[0].Category)
}

func TestOrderController_CheckoutSummary_EmptyCart(t *testing.T) {
	env := setupControllerTest(t)
	env.createCustomer(t, "Ana", "ana@example.com", "secret123")
	b := env.newBrowser(t)
	b.login("ana@example.com", "secret123")

	w := b.get("/checkout")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestOrderController_Checkout_Success(t *testing.T) {
	env := setupControllerTest(t)
	env.createCustomer(t, "Ana", "ana@example.com", "secret123")
	a := env.createProduct(t, "Notebook", "100.00", 5)
	c := env.createProduct(t, "Pen", "50.00", 10)

	b := env.newBrowser(t)
	b.login("ana@example.com", "secret123")
	b.post("/adicionar_carrinho/"+itoa(a.ID), url.Values{"quantidade": {"2"}})
	b.post("/adicionar_carrinho/"+itoa(c.ID), url.Values{"quantidade": {"1"}})
	b.get("/carrinho")

	w := b.get("/checkout")
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		pageBody
		Items []model.CartItem `json:"items"`
		Total string           `json:"total"`
	}
	decodePage(t, w, &summary)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, "250", summary.Total)

	w = b.post("/checkout", url.Values{"metodo_pagamento": {"pix"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var order model.Order
	require.NoError(t, env.db.First(&order).Error)
	assert.Equal(t, fmt.Sprintf("/pedido_confirmado/%d", order.ID), w.Header().Get("Location"))
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)

	w = b.get(w.Header().Get("Location"))
	require.Equal(t, http.StatusOK, w.Code)
	var page orderPage
	decodePage(t, w, &page)
	assert.Equal(t, "order_confirmation", page.Page)
	assert.Equal(t, "250", page.Order.Total.String())
	require.NotNil(t, page.Order.Payment)
	assert.Equal(t, "pix", page.Order.Payment.Method)
	require.Len(t, page.Lines, 2)
	assert.Equal(t, "200.00", page.Lines[0].Subtotal)
	require.Len(t, page.Flashes, 1)
	assert.Equal(t, fmt.Sprintf("Order #%d placed successfully! Payment approved.", order.ID), page.Flashes[0].Message)

	var reloaded model.Product
	require.NoError(t, env.db.First(&reloaded, a.ID).Error)
	assert.Equal(t, 3, reloaded.Stock)

	var cartCount int64
	env.db.Model(&model.CartItem{}).Count(&cartCount)
	assert.Zero(t, cartCount)

	assert.Len(t, env.publisher.Events, 1)

	// order history lists it
	w = b.get("/perfil")
	var profile struct {
		Orders []model.Order `json:"orders"`
	}
	decodePage(t, w, &profile)
	require.Len(t, profile.Orders, 1)
	assert.Equal(t, order.ID, profile.Orders[0].ID)
}

func TestOrderController_Checkout_MissingPaymentMethod(t *testing.T) {
	env := setupControllerTest(t)
	env.createCustomer(t, "Ana", "ana@example.com", "secret123")
	product := env.createProduct(t, "Notebook", "100.00", 5)

	b := env.newBrowser(t)
	b.login("ana@example.com", "secret123")
	b.post("/adicionar_carrinho/"+itoa(product.ID), nil)
	b.get("/carrinho")

	w := b.post("/checkout", url.Values{"metodo_pagamento": {"  "}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout", w.Header().Get("Location"))

	var orders int64
	env.db.Model(&model.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestOrderController_Checkout_InsufficientStock(t *testing.T) {
	env := setupControllerTest(t)
	env.createCustomer(t, "Ana", "ana@example.com", "secret123")
	product := env.createProduct(t, "Notebook", "100.00", 5)

	b := env.newBrowser(t)
	b.login("ana@example.com", "secret123")
	b.post("/adicionar_carrinho/"+itoa(product.ID), url.Values{"quantidade": {"4"}})
	b.get("/carrinho")

	// someone else bought most of it meanwhile
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", product.ID).Update("stock", 2).Error)

	w := b.post("/checkout", url.Values{"metodo_pagamento": {"card"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/carrinho", w.Header().Get("Location"))

	var page cartPage
	decodePage(t, b.get("/carrinho"), &page)
	require.Len(t, page.Items, 1)
	require.Len(t, page.Flashes, 1)
	assert.Equal(t, "Insufficient stock for Notebook. Available: 2", page.Flashes[0].Message)

	var orders int64
	env.db.Model(&model.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestOrderController_GetOrder_Ownership(t *testing.T) {
	env := setupControllerTest(t)
	owner := env.createCustomer(t, "Ana", "ana@example.com", "secret123")
	env.createCustomer(t, "Bruno", "bruno@example.com", "secret123")
	product := env.createProduct(t, "Notebook", "100.00", 5)

	order := &model.Order{CustomerID: owner.ID, Total: product.Price, Status: model.OrderStatusConfirmed}
	require.NoError(t, env.db.Create(order).Error)

	t.Run("owner sees order", func(t *testing.T) {
		b := env.newBrowser(t)
		b.login("ana@example.com", "secret123")

		w := b.get("/pedido/" + itoa(order.ID))
		require.Equal(t, http.StatusOK, w.Code)
		var page orderPage
		decodePage(t, w, &page)
		assert.Equal(t, "order", page.Page)
		assert.Equal(t, order.ID, page.Order.ID)
	})

	t.Run("other customer is redirected", func(t *testing.T) {
		b := env.newBrowser(t)
		b.login("bruno@example.com", "secret123")

		w := b.get("/pedido/" + itoa(order.ID))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/perfil", w.Header().Get("Location"))
	})

	t.Run("unknown order", func(t *testing.T) {
		b := env.newBrowser(t)
		b.login("ana@example.com", "secret123")

		w := b.get("/pedido/999")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), apperrors.OrderNotFound)
	})
}

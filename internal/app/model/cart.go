package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ownerKind uint8

const (
	ownerNone ownerKind = iota
	ownerAccount
	ownerAnonymous
)

// CartOwner identifies whose cart a line belongs to: a customer account or an
// anonymous browser session. The zero value owns nothing.
type CartOwner struct {
	kind       ownerKind
	customerID uint
	token      string
}

// AccountOwner returns the owner for a logged-in customer's cart.
func AccountOwner(customerID uint) CartOwner {
	if customerID == 0 {
		return CartOwner{}
	}
	return CartOwner{kind: ownerAccount, customerID: customerID}
}

// AnonymousOwner returns the owner for a session cart identified by token.
func AnonymousOwner(token string) CartOwner {
	if token == "" {
		return CartOwner{}
	}
	return CartOwner{kind: ownerAnonymous, token: token}
}

func (o CartOwner) IsZero() bool {
	return o.kind == ownerNone
}

func (o CartOwner) IsAccount() bool {
	return o.kind == ownerAccount
}

func (o CartOwner) CustomerID() (uint, bool) {
	return o.customerID, o.kind == ownerAccount
}

func (o CartOwner) SessionToken() (string, bool) {
	return o.token, o.kind == ownerAnonymous
}

// Owns reports whether item belongs to this owner.
func (o CartOwner) Owns(item *CartItem) bool {
	return !o.IsZero() && item.Owner() == o
}

func (o CartOwner) String() string {
	switch o.kind {
	case ownerAccount:
		return fmt.Sprintf("customer:%d", o.customerID)
	case ownerAnonymous:
		return "session:" + o.token
	default:
		return "none"
	}
}

// CartItem is one product line in a cart. Exactly one of CustomerID and
// SessionToken is set; use Owner and SetOwner instead of touching them.
type CartItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CustomerID   *uint     `gorm:"uniqueIndex:idx_cart_customer_product" json:"-"`
	SessionToken *string   `gorm:"size:64;uniqueIndex:idx_cart_session_product" json:"-"`
	ProductID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_customer_product;uniqueIndex:idx_cart_session_product" json:"product_id"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i *CartItem) Owner() CartOwner {
	switch {
	case i.CustomerID != nil:
		return AccountOwner(*i.CustomerID)
	case i.SessionToken != nil:
		return AnonymousOwner(*i.SessionToken)
	default:
		return CartOwner{}
	}
}

func (i *CartItem) SetOwner(owner CartOwner) {
	i.CustomerID = nil
	i.SessionToken = nil
	if id, ok := owner.CustomerID(); ok {
		i.CustomerID = &id
	}
	if token, ok := owner.SessionToken(); ok {
		i.SessionToken = &token
	}
}

// Subtotal is quantity times the product's current price.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string   // order lifecycle state
type PaymentStatus string // payment outcome

const (
	OrderStatusPending   OrderStatus = "pending"   // created, checkout in progress
	OrderStatusConfirmed OrderStatus = "confirmed" // paid and stock reserved
	OrderStatusShipped   OrderStatus = "shipped"   // handed to the carrier
	OrderStatusDelivered OrderStatus = "delivered" // received by the customer
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled before shipping

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDeclined PaymentStatus = "declined"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Statuses only move forward; cancellation is possible until the order ships.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return s == OrderStatusPending || s == OrderStatusConfirmed
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	return ok && to > from
}

type Order struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status     OrderStatus     `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Lines   []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
	Payment *Payment    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine freezes the unit price paid at checkout.
type OrderLine struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Payment struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	OrderID       uint          `gorm:"not null;uniqueIndex" json:"order_id"`
	Method        string        `gorm:"size:50;not null" json:"method"` // pix, boleto, card...
	Status        PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	TransactionID string        `gorm:"size:64" json:"transaction_id"`
	PaidAt        time.Time     `json:"paid_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// Package payment authorizes order payments.
//
// The storefront has no real payment provider; SimulatedGateway approves
// every well-formed request and hands out a transaction ID so the stored
// payment looks like one a provider would return.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid payment request")

	// ErrDeclined is returned when the provider refuses the payment
	ErrDeclined = errors.New("payment declined")
)

// Request is one payment to authorize.
type Request struct {
	OrderID    uint
	CustomerID uint
	Method     string
	Amount     decimal.Decimal
}

func (r Request) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("%w: order id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Method) == "" {
		return fmt.Errorf("%w: method is required", ErrInvalidRequest)
	}
	if r.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidRequest)
	}
	return nil
}

// Approval is the provider's answer to an accepted request.
type Approval struct {
	TransactionID string
	ApprovedAt    time.Time
}

type Gateway interface {
	Approve(ctx context.Context, req Request) (*Approval, error)
}

// SimulatedGateway approves every valid request.
type SimulatedGateway struct {
	now func() time.Time
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{now: time.Now}
}

func (g *SimulatedGateway) Approve(ctx context.Context, req Request) (*Approval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Approval{
		TransactionID: "SIM-" + strings.ToUpper(uuid.NewString()),
		ApprovedAt:    g.now(),
	}, nil
}

// DecliningGateway refuses every request. Used to exercise rollback paths.
type DecliningGateway struct{}

func (DecliningGateway) Approve(context.Context, Request) (*Approval, error) {
	return nil, ErrDeclined
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes kitchen lifecycle of an order.
type OrderStatus int

const (
	OrderStatusPlaced    OrderStatus = 0
	OrderStatusPreparing OrderStatus = 1
	OrderStatusPacking   OrderStatus = 2
	OrderStatusReady     OrderStatus = 3
	OrderStatusCompleted OrderStatus = 4
)

// String returns the status name.
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPlaced:
		return "PLACED"
	case OrderStatusPreparing:
		return "PREPARING"
	case OrderStatusPacking:
		return "PACKING"
	case OrderStatusReady:
		return "READY"
	case OrderStatusCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// PaymentMethod identifies how the non-wallet part of an order is paid.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "CARD"
	PaymentCash   PaymentMethod = "CASH"
	PaymentWallet PaymentMethod = "WALLET"
)

// Valid reports whether the method is known.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentWallet:
		return true
	}
	return false
}

// Payment is metadata supplied by the payment collaborator.
type Payment struct {
	Method    PaymentMethod
	Reference string
}

// CartLine is one product line in the customer's cart.
type CartLine struct {
	ProductID int64
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal
	VAT       decimal.Decimal
}

// Order is one persisted line of a checkout. All lines of one checkout share
// OrderNumber; WalletAmountApplied is non-zero on the first line only.
type Order struct {
	ID                  int64
	OrderNumber         string
	CustomerID          int64
	ProductID           int64
	UnitPrice           decimal.Decimal
	Discount            decimal.Decimal
	VAT                 decimal.Decimal
	GrossTotal          decimal.Decimal
	WalletAmountApplied decimal.Decimal
	Quantity            int
	PaidTotal           decimal.Decimal
	Status              OrderStatus
	Payment             Payment
	EstimatedReadyAt    time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CheckoutRequest is the input of the checkout entry point.
type CheckoutRequest struct {
	CustomerID   int64
	WalletAmount decimal.Decimal
	Payment      Payment
}

// CheckoutResult is returned after a committed checkout.
type CheckoutResult struct {
	OrderNumber    string
	WalletUsed     decimal.Decimal
	GrossTotal     decimal.Decimal
	PaidTotal      decimal.Decimal
	PointsAccrued  int64
	ReferralCredit bool
}

// ReadyOrder is an order number that has just been transitioned to READY.
type ReadyOrder struct {
	OrderNumber string
	CustomerID  int64
}

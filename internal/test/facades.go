package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	AddFn  func(context.Context, int64, model.CartLine) error
	CartFn func(context.Context, int64) ([]model.CartLine, error)
}

// AddToCart delegates to provided function or accepts the line.
func (s CartFacadeStub) AddToCart(ctx context.Context, customerID int64, line model.CartLine) error {
	if s.AddFn != nil {
		return s.AddFn(ctx, customerID, line)
	}
	return nil
}

// Cart returns predefined cart lines.
func (s CartFacadeStub) Cart(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, customerID)
	}
	return []model.CartLine{{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 1}}, nil
}

// CheckoutFacadeStub simulates order placement.
type CheckoutFacadeStub struct {
	CheckoutFn func(context.Context, model.CheckoutRequest) (*model.CheckoutResult, error)
}

// Checkout returns configured result or a default placed order.
func (s CheckoutFacadeStub) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, req)
	}
	return &model.CheckoutResult{
		OrderNumber: "order-1",
		WalletUsed:  req.WalletAmount,
		GrossTotal:  decimal.NewFromInt(10),
		PaidTotal:   decimal.NewFromInt(10).Sub(req.WalletAmount),
	}, nil
}

// OrderFacadeStub provides controllable behaviour for order history.
type OrderFacadeStub struct {
	OrdersFn func(context.Context, int64) ([]model.Order, error)
}

// Orders returns predefined orders for given customer.
func (s OrderFacadeStub) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, customerID)
	}
	return []model.Order{{ID: 1, OrderNumber: "order-1", CustomerID: customerID, Quantity: 1}}, nil
}

// WalletFacadeStub simulates wallet and loyalty operations.
type WalletFacadeStub struct {
	WalletFn func(context.Context, int64) (*model.WalletSummary, error)
	RedeemFn func(context.Context, int64) (*model.RedemptionResult, error)
}

// Wallet returns stored summary or default data.
func (s WalletFacadeStub) Wallet(ctx context.Context, customerID int64) (*model.WalletSummary, error) {
	if s.WalletFn != nil {
		return s.WalletFn(ctx, customerID)
	}
	return &model.WalletSummary{Balance: decimal.NewFromInt(5), SpendablePoints: 12}, nil
}

// RedeemPoints returns configured redemption result.
func (s WalletFacadeStub) RedeemPoints(ctx context.Context, customerID int64) (*model.RedemptionResult, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, customerID)
	}
	return &model.RedemptionResult{
		PointsRedeemed:       10,
		WalletAmountCredited: decimal.NewFromInt(1),
		NewWalletBalance:     decimal.NewFromInt(6),
	}, nil
}

// SweeperStub mimics the readiness sweep used by the background worker.
type SweeperStub struct {
	SweepFn func(context.Context, int) (int, error)

	mu     sync.Mutex
	limits []int
}

// SweepReady records the call and delegates to SweepFn.
func (s *SweeperStub) SweepReady(ctx context.Context, limit int) (int, error) {
	s.mu.Lock()
	s.limits = append(s.limits, limit)
	s.mu.Unlock()
	if s.SweepFn != nil {
		return s.SweepFn(ctx, limit)
	}
	time.Sleep(time.Millisecond)
	return 0, nil
}

// Calls returns limits passed to SweepReady so far.
func (s *SweeperStub) Calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.limits...)
}

// NotifierStub records notifications and optionally fails.
type NotifierStub struct {
	Err error

	mu   sync.Mutex
	sent []model.Notification
}

// Notify stores the notification and returns Err.
func (s *NotifierStub) Notify(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.Err
}

// Sent returns recorded notifications.
func (s *NotifierStub) Sent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.sent...)
}

package app

import (
	"context"

	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/usecase"
)

// DineFacade is the single entry point used by HTTP handlers and the worker.
type DineFacade struct {
	auth     *usecase.AuthUseCase
	carts    *usecase.CartUseCase
	checkout *usecase.CheckoutUseCase
	orders   *usecase.OrderUseCase
	balance  *usecase.BalanceUseCase
	loyalty  *usecase.LoyaltyEngine
}

func NewDineFacade(
	auth *usecase.AuthUseCase,
	carts *usecase.CartUseCase,
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	balance *usecase.BalanceUseCase,
	loyalty *usecase.LoyaltyEngine,
) *DineFacade {
	return &DineFacade{auth: auth, carts: carts, checkout: checkout, orders: orders, balance: balance, loyalty: loyalty}
}

func (f *DineFacade) Register(ctx context.Context, login, password, referralCode string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, referralCode)
	return token, err
}

func (f *DineFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *DineFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *DineFacade) AddToCart(ctx context.Context, customerID int64, line model.CartLine) error {
	return f.carts.Add(ctx, customerID, line)
}

func (f *DineFacade) Cart(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	return f.carts.Lines(ctx, customerID)
}

func (f *DineFacade) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	return f.checkout.Checkout(ctx, req)
}

func (f *DineFacade) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	return f.orders.ListByCustomer(ctx, customerID)
}

func (f *DineFacade) Wallet(ctx context.Context, customerID int64) (*model.WalletSummary, error) {
	return f.balance.Summary(ctx, customerID)
}

func (f *DineFacade) RedeemPoints(ctx context.Context, customerID int64) (*model.RedemptionResult, error) {
	return f.loyalty.RedeemAll(ctx, customerID)
}

func (f *DineFacade) SweepReady(ctx context.Context, limit int) (int, error) {
	return f.orders.SweepReady(ctx, limit)
}

package handlers

import (
	"context"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password, referralCode string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CartFacade manages the customer's pending cart.
type CartFacade interface {
	AddToCart(ctx context.Context, customerID int64, line model.CartLine) error
	Cart(ctx context.Context, customerID int64) ([]model.CartLine, error)
}

// CheckoutFacade places orders.
type CheckoutFacade interface {
	Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error)
}

// OrderFacade exposes order history.
type OrderFacade interface {
	Orders(ctx context.Context, customerID int64) ([]model.Order, error)
}

// WalletFacade provides wallet and loyalty operations.
type WalletFacade interface {
	Wallet(ctx context.Context, customerID int64) (*model.WalletSummary, error)
	RedeemPoints(ctx context.Context, customerID int64) (*model.RedemptionResult, error)
}

// DineFacade aggregates the full set of operations used across handlers.
type DineFacade interface {
	AuthFacade
	CartFacade
	CheckoutFacade
	OrderFacade
	WalletFacade
}

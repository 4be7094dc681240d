package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Customers() CustomerRepository
	Wallets() WalletRepository
	Orders() OrderRepository
	Loyalty() LoyaltyRepository
	Carts() CartRepository
	Settings() SettingsRepository
}

// Tx exposes repositories bound to one database transaction.
type Tx interface {
	Factory
}

// UnitOfWork runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

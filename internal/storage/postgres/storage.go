package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool        pgxPool
	lockTimeout time.Duration
	logger      *slog.Logger
}

// New creates storage with schema initialization. lockTimeout bounds row lock
// waits inside WithinTransaction; zero leaves the server default.
func New(ctx context.Context, dsn string, lockTimeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, lockTimeout: lockTimeout, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories outside of a transaction.
func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{q: s.pool}
}

func (s *Storage) Wallets() repository.WalletRepository {
	return &walletRepository{q: s.pool}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{q: s.pool}
}

func (s *Storage) Loyalty() repository.LoyaltyRepository {
	return &loyaltyRepository{q: s.pool}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{q: s.pool}
}

func (s *Storage) Settings() repository.SettingsRepository {
	return &settingsRepository{q: s.pool}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            referral_code TEXT UNIQUE NOT NULL,
            referred_by BIGINT REFERENCES customers(id),
            referral_bonus_awarded BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS wallets (
            customer_id BIGINT PRIMARY KEY REFERENCES customers(id),
            balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            type TEXT NOT NULL CHECK (type IN ('CREDIT', 'DEBIT')),
            amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
            balance_after NUMERIC(14,2) NOT NULL CHECK (balance_after >= 0),
            source TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            order_number TEXT NOT NULL,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            product_id BIGINT NOT NULL,
            unit_price NUMERIC(14,2) NOT NULL,
            discount NUMERIC(14,2) NOT NULL DEFAULT 0,
            vat NUMERIC(14,2) NOT NULL DEFAULT 0,
            gross_total NUMERIC(14,2) NOT NULL,
            wallet_amount_applied NUMERIC(14,2) NOT NULL DEFAULT 0,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            paid_total NUMERIC(14,2) NOT NULL CHECK (paid_total >= 0),
            status SMALLINT NOT NULL DEFAULT 0,
            payment_method TEXT NOT NULL,
            payment_reference TEXT NOT NULL DEFAULT '',
            estimated_ready_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS loyalty_earnings (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            order_id BIGINT NOT NULL UNIQUE REFERENCES orders(id),
            points_earned BIGINT NOT NULL CHECK (points_earned > 0),
            points_remaining BIGINT NOT NULL CHECK (points_remaining >= 0 AND points_remaining <= points_earned),
            available_from TIMESTAMPTZ NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS loyalty_redemptions (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            points_redeemed BIGINT NOT NULL CHECK (points_redeemed > 0),
            wallet_amount_credited NUMERIC(14,2) NOT NULL,
            wallet_transaction_id BIGINT NOT NULL REFERENCES wallet_transactions(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS settings (
            id BIGSERIAL PRIMARY KEY,
            minimum_order NUMERIC(14,2) NOT NULL DEFAULT 0,
            minimum_cart_total NUMERIC(14,2) NOT NULL DEFAULT 0,
            signup_bonus NUMERIC(14,2) NOT NULL DEFAULT 0,
            referral_bonus NUMERIC(14,2) NOT NULL DEFAULT 0,
            points_per_unit NUMERIC(10,4) NOT NULL DEFAULT 1,
            redeem_rate_points BIGINT NOT NULL DEFAULT 10 CHECK (redeem_rate_points > 0),
            redeem_rate_value NUMERIC(14,2) NOT NULL DEFAULT 1,
            accrual_delay_hours INTEGER NOT NULL DEFAULT 24,
            expiry_days INTEGER NOT NULL DEFAULT 30,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            product_id BIGINT NOT NULL,
            unit_price NUMERIC(14,2) NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            discount NUMERIC(14,2) NOT NULL DEFAULT 0,
            vat NUMERIC(14,2) NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_number ON orders(order_number)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ready ON orders(status, estimated_ready_at)`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_transactions_customer ON wallet_transactions(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_loyalty_earnings_customer ON loyalty_earnings(customer_id, expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_customer ON cart_items(customer_id, id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes fn inside a READ COMMITTED transaction. Row locks
// are taken explicitly by the repositories with SELECT ... FOR UPDATE.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return translateError(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && s.logger != nil {
				s.logger.Warn("rollback failed", slog.Any("error", rbErr))
			}
			err = translateError(err)
		} else if err = tx.Commit(ctx); err != nil {
			err = translateError(err)
		}
	}()

	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", s.lockTimeout.Milliseconds())
		if _, err = tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	err = fn(ctx, newTxRepositories(tx))
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

type txRepositories struct {
	tx pgx.Tx
}

func newTxRepositories(tx pgx.Tx) *txRepositories {
	return &txRepositories{tx: tx}
}

func (t *txRepositories) Customers() repository.CustomerRepository {
	return &customerRepository{q: t.tx}
}

func (t *txRepositories) Wallets() repository.WalletRepository {
	return &walletRepository{q: t.tx}
}

func (t *txRepositories) Orders() repository.OrderRepository {
	return &orderRepository{q: t.tx}
}

func (t *txRepositories) Loyalty() repository.LoyaltyRepository {
	return &loyaltyRepository{q: t.tx}
}

func (t *txRepositories) Carts() repository.CartRepository {
	return &cartRepository{q: t.tx}
}

func (t *txRepositories) Settings() repository.SettingsRepository {
	return &settingsRepository{q: t.tx}
}

// PostgreSQL error codes that mean a lock or statement wait gave up.
const (
	codeLockNotAvailable     = "55P03"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
	codeQueryCanceled        = "57014"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
)

func translateError(err error) error {
	if err == nil || errors.Is(err, domainErrors.ErrConcurrencyTimeout) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFailure, codeQueryCanceled:
			return &domainErrors.ConcurrencyTimeoutError{Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domainErrors.ConcurrencyTimeoutError{Err: err}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

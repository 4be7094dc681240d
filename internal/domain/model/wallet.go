package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a wallet movement.
type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)

// TransactionSource tells why the wallet balance changed.
type TransactionSource string

const (
	SourceSignupBonus       TransactionSource = "SIGNUP_BONUS"
	SourceReferralBonus     TransactionSource = "REFERRAL_BONUS"
	SourceLoyaltyRedemption TransactionSource = "LOYALTY_REDEMPTION"
	SourceOrderPayment      TransactionSource = "ORDER_PAYMENT"
)

// Wallet is the stored-value balance of a customer.
type Wallet struct {
	CustomerID int64
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WalletTransaction is an append-only ledger entry. BalanceAfter is the wallet
// balance immediately after this entry was applied.
type WalletTransaction struct {
	ID           int64
	CustomerID   int64
	Type         TransactionType
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Source       TransactionSource
	Description  string
	CreatedAt    time.Time
}

// WalletSummary aggregates balance information shown to a customer.
type WalletSummary struct {
	Balance         decimal.Decimal
	SpendablePoints int64
	Transactions    []WalletTransaction
}

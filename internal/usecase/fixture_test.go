package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherdine/internal/config"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	testhelpers "github.com/polkiloo/gopherdine/internal/test"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSettings() model.Settings {
	return model.Settings{
		MinimumOrder:      dec("20"),
		MinimumCartTotal:  dec("10"),
		SignupBonus:       decimal.Zero,
		ReferralBonus:     dec("5"),
		PointsPerUnit:     dec("1"),
		RedeemRatePoints:  10,
		RedeemRateValue:   dec("1"),
		AccrualDelayHours: 24,
		ExpiryDays:        30,
	}
}

type fixture struct {
	ledger   *testhelpers.MemoryLedger
	notifier *testhelpers.NotifierStub
	wallet   *WalletEngine
	loyalty  *LoyaltyEngine
	referral *ReferralEngine
	checkout *CheckoutUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := func() time.Time { return testNow }
	ledger := testhelpers.NewMemoryLedger()
	ledger.Now = clock
	ledger.SetSettings(testSettings())

	logger := discardLogger()
	notifier := &testhelpers.NotifierStub{}
	wallet := NewWalletEngine()
	loyalty := NewLoyaltyEngine(ledger, ledger.Settings(), wallet, logger)
	loyalty.now = clock
	referral := NewReferralEngine(wallet)

	checkout := NewCheckoutUseCase(ledger, ledger.Settings(), ledger.Carts(), wallet, loyalty, referral, notifier,
		&config.Config{PreparationTime: 20 * time.Minute}, logger)
	checkout.now = clock
	seq := 0
	checkout.newOrderNumber = func() string {
		seq++
		return fmt.Sprintf("order-%d", seq)
	}

	return &fixture{
		ledger:   ledger,
		notifier: notifier,
		wallet:   wallet,
		loyalty:  loyalty,
		referral: referral,
		checkout: checkout,
	}
}

func cartLine(price string, qty int) model.CartLine {
	return model.CartLine{ProductID: 1, UnitPrice: dec(price), Quantity: qty, Discount: decimal.Zero, VAT: decimal.Zero}
}

// requireBalanceChain checks that balance_after of every ledger entry follows
// from the previous one and that the last one equals the stored balance.
func requireBalanceChain(t *testing.T, ledger *testhelpers.MemoryLedger, customerID int64, opening decimal.Decimal) {
	t.Helper()
	running := opening
	for _, txn := range ledger.WalletTransactions(customerID) {
		switch txn.Type {
		case model.TransactionCredit:
			running = running.Add(txn.Amount)
		case model.TransactionDebit:
			running = running.Sub(txn.Amount)
		}
		if !running.Equal(txn.BalanceAfter) {
			t.Fatalf("transaction %d: balance_after %s, expected %s", txn.ID, txn.BalanceAfter, running)
		}
		if running.IsNegative() {
			t.Fatalf("transaction %d: negative balance %s", txn.ID, running)
		}
	}
	if balance := ledger.Balance(customerID); !balance.Equal(running) {
		t.Fatalf("stored balance %s, chain ends at %s", balance, running)
	}
}

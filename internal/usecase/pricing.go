package usecase

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// PricedLine is a cart line with its computed totals.
type PricedLine struct {
	model.CartLine
	GrossTotal    decimal.Decimal
	WalletApplied decimal.Decimal
	PaidTotal     decimal.Decimal
}

// OrderTotals is the priced form of a whole cart.
type OrderTotals struct {
	Lines         []PricedLine
	GrossTotal    decimal.Decimal
	WalletApplied decimal.Decimal
	PaidTotal     decimal.Decimal
}

// BuildOrder prices cart lines and applies the requested wallet amount to the
// first line. It performs no I/O.
func BuildOrder(lines []model.CartLine, walletRequested decimal.Decimal, settings model.Settings) (OrderTotals, error) {
	if len(lines) == 0 {
		return OrderTotals{}, domainErrors.NewValidation("cart is empty")
	}
	if walletRequested.IsNegative() {
		return OrderTotals{}, domainErrors.NewValidation("wallet amount must not be negative")
	}

	totals := OrderTotals{
		Lines:         make([]PricedLine, 0, len(lines)),
		GrossTotal:    decimal.Zero,
		WalletApplied: walletRequested.Round(2),
	}
	for _, line := range lines {
		if err := validateCartLine(line); err != nil {
			return OrderTotals{}, err
		}
		gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).
			Sub(line.Discount).
			Add(line.VAT).
			Round(2)
		totals.Lines = append(totals.Lines, PricedLine{
			CartLine:      line,
			GrossTotal:    gross,
			WalletApplied: decimal.Zero,
			PaidTotal:     gross,
		})
		totals.GrossTotal = totals.GrossTotal.Add(gross)
	}

	if totals.GrossTotal.LessThan(settings.MinimumCartTotal) {
		return OrderTotals{}, domainErrors.NewValidation("cart total %s is below minimum %s",
			totals.GrossTotal.StringFixed(2), settings.MinimumCartTotal.StringFixed(2))
	}

	first := &totals.Lines[0]
	first.WalletApplied = totals.WalletApplied
	first.PaidTotal = floorZero(first.GrossTotal.Sub(totals.WalletApplied))
	totals.PaidTotal = floorZero(totals.GrossTotal.Sub(totals.WalletApplied))

	return totals, nil
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

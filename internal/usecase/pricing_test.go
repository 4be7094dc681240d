package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

func TestBuildOrderAppliesWalletToFirstLine(t *testing.T) {
	lines := []model.CartLine{
		{ProductID: 1, UnitPrice: dec("12.50"), Quantity: 2, Discount: dec("5"), VAT: dec("2.5")},
		{ProductID: 2, UnitPrice: dec("10"), Quantity: 1, Discount: decimal.Zero, VAT: decimal.Zero},
	}

	totals, err := BuildOrder(lines, dec("30"), testSettings())
	require.NoError(t, err)
	require.Len(t, totals.Lines, 2)
	require.True(t, totals.GrossTotal.Equal(dec("32.5")))
	require.True(t, totals.WalletApplied.Equal(dec("30")))
	require.True(t, totals.PaidTotal.Equal(dec("2.5")))

	require.True(t, totals.Lines[0].GrossTotal.Equal(dec("22.5")))
	require.True(t, totals.Lines[0].WalletApplied.Equal(dec("30")))
	require.True(t, totals.Lines[0].PaidTotal.IsZero())
	require.True(t, totals.Lines[1].WalletApplied.IsZero())
	require.True(t, totals.Lines[1].PaidTotal.Equal(dec("10")))
}

func TestBuildOrderWithoutWallet(t *testing.T) {
	totals, err := BuildOrder([]model.CartLine{cartLine("50", 1)}, decimal.Zero, testSettings())
	require.NoError(t, err)
	require.True(t, totals.PaidTotal.Equal(dec("50")))
	require.True(t, totals.WalletApplied.IsZero())
}

func TestBuildOrderRoundsToCents(t *testing.T) {
	totals, err := BuildOrder([]model.CartLine{cartLine("3.333", 3)}, dec("0.004"), testSettings())
	require.NoError(t, err)
	require.Equal(t, "10.00", totals.GrossTotal.StringFixed(2))
	require.True(t, totals.WalletApplied.IsZero())
}

func TestBuildOrderRejections(t *testing.T) {
	cases := map[string]struct {
		lines  []model.CartLine
		wallet decimal.Decimal
	}{
		"empty cart":      {nil, decimal.Zero},
		"negative wallet": {[]model.CartLine{cartLine("50", 1)}, dec("-1")},
		"below minimum":   {[]model.CartLine{cartLine("9.99", 1)}, decimal.Zero},
		"zero quantity":   {[]model.CartLine{cartLine("50", 0)}, decimal.Zero},
		"negative price":  {[]model.CartLine{cartLine("-5", 1)}, decimal.Zero},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildOrder(tc.lines, tc.wallet, testSettings())
			require.ErrorIs(t, err, domainErrors.ErrValidation)
			var verr *domainErrors.ValidationError
			require.True(t, errors.As(err, &verr))
			require.NotEmpty(t, verr.Reason)
		})
	}
}

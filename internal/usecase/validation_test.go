package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

func TestValidateCartLine(t *testing.T) {
	require.NoError(t, validateCartLine(cartLine("1", 1)))

	invalid := []model.CartLine{
		{ProductID: 0, UnitPrice: dec("1"), Quantity: 1},
		{ProductID: 1, UnitPrice: dec("1"), Quantity: -1},
		{ProductID: 1, UnitPrice: dec("-1"), Quantity: 1},
		{ProductID: 1, UnitPrice: dec("1"), Quantity: 1, Discount: dec("-0.01")},
		{ProductID: 1, UnitPrice: dec("1"), Quantity: 1, Discount: decimal.Zero, VAT: dec("-2")},
	}
	for _, line := range invalid {
		require.ErrorIs(t, validateCartLine(line), domainErrors.ErrValidation, "line %+v", line)
	}
}

func TestNormalizeReferralCode(t *testing.T) {
	code, ok := NormalizeReferralCode("  ab12cd ")
	require.True(t, ok)
	require.Equal(t, "AB12CD", code)

	for _, bad := range []string{"", "   ", "ab-12", "code!"} {
		_, ok := NormalizeReferralCode(bad)
		require.False(t, ok, bad)
	}
}

package usecase

import (
	"strings"
	"unicode"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

func validateCartLine(line model.CartLine) error {
	switch {
	case line.ProductID <= 0:
		return domainErrors.NewValidation("product id must be positive")
	case line.Quantity <= 0:
		return domainErrors.NewValidation("quantity must be positive")
	case line.UnitPrice.IsNegative():
		return domainErrors.NewValidation("unit price must not be negative")
	case line.Discount.IsNegative():
		return domainErrors.NewValidation("discount must not be negative")
	case line.VAT.IsNegative():
		return domainErrors.NewValidation("vat must not be negative")
	}
	return nil
}

// NormalizeReferralCode upper-cases a referral code and reports whether it
// consists only of letters and digits.
func NormalizeReferralCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", false
		}
	}
	return code, true
}

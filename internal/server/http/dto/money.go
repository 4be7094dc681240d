package dto

import "github.com/shopspring/decimal"

// Money formats an amount with two decimal places for responses.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

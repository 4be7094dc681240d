package model

import "time"

// Customer is a registered diner. ReferredBy points to the customer whose
// referral code was used at signup.
type Customer struct {
	ID                   int64
	Login                string
	PasswordHash         string
	ReferralCode         string
	ReferredBy           *int64
	ReferralBonusAwarded bool
	CreatedAt            time.Time
}

// NewCustomer carries the fields needed to insert a customer.
type NewCustomer struct {
	Login        string
	PasswordHash string
	ReferralCode string
	ReferredBy   *int64
}

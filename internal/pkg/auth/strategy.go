package auth

import "time"

// Strategy issues and verifies bearer tokens bound to a customer.
type Strategy interface {
	IssueToken(customerID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

// Options tune token issuing.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}

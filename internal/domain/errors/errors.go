package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientFunds   = errors.New("insufficient wallet funds")
	ErrInsufficientPoints  = errors.New("insufficient loyalty points")
	ErrConcurrencyTimeout  = errors.New("concurrency timeout")
	ErrPersistence         = errors.New("persistence failure")
)

// ValidationError reports rejected input before any mutation took place.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation builds a ValidationError with a formatted reason.
func NewValidation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError is returned when a wallet debit exceeds what may be used.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	MaxUsable decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet funds: requested %s, max usable %s",
		e.Requested.StringFixed(2), e.MaxUsable.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// InsufficientPointsError is returned when spendable points do not cover a redemption unit.
type InsufficientPointsError struct {
	Spendable int64
	Required  int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient loyalty points: spendable %d, required %d", e.Spendable, e.Required)
}

func (e *InsufficientPointsError) Unwrap() error { return ErrInsufficientPoints }

// ConcurrencyTimeoutError wraps a lock wait that exceeded its bound.
// Callers may retry the whole operation.
type ConcurrencyTimeoutError struct {
	Err error
}

func (e *ConcurrencyTimeoutError) Error() string {
	if e.Err == nil {
		return ErrConcurrencyTimeout.Error()
	}
	return "concurrency timeout: " + e.Err.Error()
}

func (e *ConcurrencyTimeoutError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConcurrencyTimeout}
	}
	return []error{ErrConcurrencyTimeout, e.Err}
}

// PersistenceError wraps any other storage failure of operation Op.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persistence failure: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// IsRetryable reports whether the caller may safely repeat the operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyTimeout)
}

// Persistence wraps err unless it is already one of the typed ledger errors.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientPoints),
		errors.Is(err, ErrConcurrencyTimeout),
		errors.Is(err, ErrPersistence),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidReferralCode):
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

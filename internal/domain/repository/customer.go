package repository

import (
	"context"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// CustomerRepository describes persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer model.NewCustomer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetByLogin(ctx context.Context, login string) (*model.Customer, error)
	GetByReferralCode(ctx context.Context, code string) (*model.Customer, error)
	// LockByID reads the customer row under an exclusive row lock.
	LockByID(ctx context.Context, id int64) (*model.Customer, error)
	MarkReferralBonusAwarded(ctx context.Context, id int64) error
}

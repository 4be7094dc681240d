package repository

import (
	"context"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// CartRepository stores cart lines of customers.
type CartRepository interface {
	Lines(ctx context.Context, customerID int64) ([]model.CartLine, error)
	Add(ctx context.Context, customerID int64, line model.CartLine) error
	Clear(ctx context.Context, customerID int64) error
}

package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

// CartUseCase manages cart lines before checkout.
type CartUseCase struct {
	carts repository.CartRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository) *CartUseCase {
	return &CartUseCase{carts: carts}
}

// Add validates and appends a line to the customer's cart.
func (u *CartUseCase) Add(ctx context.Context, customerID int64, line model.CartLine) error {
	if err := validateCartLine(line); err != nil {
		return err
	}
	line.UnitPrice = line.UnitPrice.Round(2)
	line.Discount = line.Discount.Round(2)
	line.VAT = line.VAT.Round(2)
	if err := u.carts.Add(ctx, customerID, line); err != nil {
		return domainErrors.Persistence("add cart line", err)
	}
	return nil
}

// Lines returns the current cart.
func (u *CartUseCase) Lines(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	lines, err := u.carts.Lines(ctx, customerID)
	if err != nil {
		return nil, domainErrors.Persistence("load cart", err)
	}
	return lines, nil
}

// Clear empties the cart.
func (u *CartUseCase) Clear(ctx context.Context, customerID int64) error {
	if err := u.carts.Clear(ctx, customerID); err != nil {
		return domainErrors.Persistence("clear cart", err)
	}
	return nil
}

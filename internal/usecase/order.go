package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic outside of checkout.
type OrderUseCase struct {
	orders   repository.OrderRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, notifier Notifier, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, notifier: notifier, logger: logger, now: time.Now}
}

// ListByCustomer returns order lines of the customer, newest first.
func (u *OrderUseCase) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	orders, err := u.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, domainErrors.Persistence("list orders", err)
	}
	return orders, nil
}

// SweepReady moves up to limit due order numbers to READY and notifies their
// customers. It returns how many order numbers were transitioned.
func (u *OrderUseCase) SweepReady(ctx context.Context, limit int) (int, error) {
	ready, err := u.orders.MarkReadyDue(ctx, u.now(), limit)
	if err != nil {
		return 0, domainErrors.Persistence("mark orders ready", err)
	}

	for _, o := range ready {
		notifyAndLog(ctx, u.notifier, u.logger, model.Notification{
			UserType: model.UserTypeCustomer,
			UserID:   o.CustomerID,
			Title:    "Order ready",
			Body:     fmt.Sprintf("Your order %s is ready", o.OrderNumber),
			Data: map[string]string{
				"order_number": o.OrderNumber,
				"status":       model.OrderStatusReady.String(),
			},
		})
	}

	return len(ready), nil
}

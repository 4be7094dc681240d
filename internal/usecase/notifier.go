package usecase

import (
	"context"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// Notifier dispatches push notifications. Delivery failures never affect
// ledger operations.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

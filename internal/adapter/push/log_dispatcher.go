package push

import (
	"context"
	"log/slog"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// LogDispatcher records notifications in the log instead of delivering them.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher constructs LogDispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Notify(ctx context.Context, n model.Notification) error {
	d.logger.InfoContext(ctx, "notification",
		slog.String("user_type", n.UserType),
		slog.Int64("customer_id", n.UserID),
		slog.String("title", n.Title),
		slog.String("body", n.Body),
	)
	return nil
}

package push

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gopherdine/internal/config"
	"github.com/polkiloo/gopherdine/internal/usecase"
)

// Module exposes the notification dispatcher to fx graph.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (usecase.Notifier, error) {
	if p.Config.NotificationAddress == "" {
		return NewLogDispatcher(p.Logger), nil
	}
	return NewHTTPClient(p.Config.NotificationAddress, p.Logger)
}

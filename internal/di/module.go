package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/gopherdine/internal/adapter/push"
	"github.com/polkiloo/gopherdine/internal/app"
	"github.com/polkiloo/gopherdine/internal/config"
	"github.com/polkiloo/gopherdine/internal/logger"
	"github.com/polkiloo/gopherdine/internal/pkg/auth"
	"github.com/polkiloo/gopherdine/internal/server/http/handlers"
	"github.com/polkiloo/gopherdine/internal/server/http/router"
	"github.com/polkiloo/gopherdine/internal/storage/postgres"
	"github.com/polkiloo/gopherdine/internal/usecase"
)

// Module composes the full application graph. Extra options are appended last
// so callers can replace any component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		push.Module,
		usecase.Module,
		fx.Provide(func(facade *app.DineFacade) handlers.DineFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

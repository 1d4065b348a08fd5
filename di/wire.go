//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"evotodo/config"
	"evotodo/infras/jwks"
	"evotodo/infras/otel"
	"evotodo/infras/postgres"
	"evotodo/infras/redis"
	"evotodo/infras/token"
	"evotodo/shared/cache"
	"evotodo/transport/http"
	"evotodo/transport/http/middleware"
	"evotodo/transport/http/router"

	todoRepository "evotodo/internal/domains/todo/repository"
	todoService "evotodo/internal/domains/todo/service"
	userRepository "evotodo/internal/domains/user/repository"
	userService "evotodo/internal/domains/user/service"

	healthHandler "evotodo/internal/handlers/health"
	todoHandler "evotodo/internal/handlers/todo"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwks.New,
	token.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var domains = wire.NewSet(
	todoDomain,
	userDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	todoHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

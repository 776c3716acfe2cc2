//go:build wireinject
// +build wireinject

// Wire依赖注入配置,修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/application/assistant"
	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	appcart "github.com/xiebiao/bookshelf/internal/application/cart"
	apporder "github.com/xiebiao/bookshelf/internal/application/order"
	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
)

// infrastructureSet 存储、缓存、消息队列、AI
var infrastructureSet = wire.NewSet(
	provideRepositories,
	wire.FieldsOf(new(persistence.Repositories), "Books", "Carts", "Orders", "Users", "Tx"),
	provideRedis,
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	provideListCache,
	providePublisher,
	provideGenerator,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewProfileUseCase,
	appuser.NewListUsersUseCase,
	appuser.NewDeleteUserUseCase,
	appuser.NewEnsureAdminUseCase,

	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewSetStockUseCase,

	appcart.NewGetCartUseCase,
	appcart.NewAddToCartUseCase,
	appcart.NewRemoveFromCartUseCase,

	apporder.NewCheckoutUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewListAllOrdersUseCase,
	apporder.NewSetStatusUseCase,

	assistant.NewSummaryUseCase,
	assistant.NewRoadmapUseCase,
	assistant.NewChatUseCase,
)

// middlewareSet JWT与中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	router.NewAIRateLimiter,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewAdminHandler,
	handler.NewAIHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用,cleanup按创建的逆序释放连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}

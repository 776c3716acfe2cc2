// Package router HTTP路由注册
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User  *handler.UserHandler
	Book  *handler.BookHandler
	Cart  *handler.CartHandler
	Order *handler.OrderHandler
	Admin *handler.AdminHandler
	AI    *handler.AIHandler
}

// NewAIRateLimiter AI接口限流器
func NewAIRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.AI.RatePerMinute, cfg.AI.Burst)
}

// New 创建Gin引擎并注册全部路由
//
//	公开:   /ping /metrics /swagger/*any, 注册登录, 图书查询, AI(限流)
//	登录:   购物车、结算、我的订单、个人信息、登出
//	管理员: 图书维护、订单状态、用户管理
func New(
	cfg *config.Config,
	h Handlers,
	auth *middleware.AuthMiddleware,
	aiLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	if err := validator.Register(); err != nil {
		logger.Error("注册校验规则失败", zap.Error(err))
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Metrics(),
		middleware.CORS(cfg.Server.AllowOrigins),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/refresh", h.User.RefreshToken)
			users.POST("/logout", auth.RequireAuth(), h.User.Logout)
		}

		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)

			admin := books.Group("", auth.RequireAuth(), auth.RequireAdmin())
			admin.POST("", h.Book.CreateBook)
			admin.DELETE("/:id", h.Book.DeleteBook)
			admin.PATCH("/:id/stock", h.Book.SetStock)
		}

		authorized := v1.Group("", auth.RequireAuth())
		{
			authorized.GET("/profile", h.User.GetProfile)

			authorized.GET("/cart", h.Cart.GetCart)
			authorized.POST("/cart/items", h.Cart.AddItem)
			authorized.DELETE("/cart/items/:id", h.Cart.RemoveItem)

			authorized.POST("/orders/checkout", h.Order.Checkout)
			authorized.GET("/orders", h.Order.ListOrders)
		}

		admin := v1.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
		{
			admin.GET("/orders", h.Admin.ListAllOrders)
			admin.PUT("/orders/:id/status", h.Admin.SetOrderStatus)
			admin.GET("/users", h.Admin.ListUsers)
			admin.DELETE("/users/:id", h.Admin.DeleteUser)
		}

		ai := v1.Group("/ai", aiLimiter.Middleware())
		{
			ai.POST("/summary", h.AI.Summary)
			ai.POST("/roadmap", h.AI.Roadmap)
			ai.POST("/chat", h.AI.Chat)
		}
	}

	return r
}

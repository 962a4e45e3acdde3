// Package router 组装gin引擎与全部路由
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Auth        *handler.AuthHandler
	Genre       *handler.GenreHandler
	Book        *handler.BookHandler
	Transaction *handler.TransactionHandler
}

// Options 引擎选项
type Options struct {
	Mode    string // gin运行模式: debug/release/test
	Swagger bool   // 是否挂载/swagger

	// ServiceName 非空时为每个请求创建服务端Span(需要先初始化Tracer)
	ServiceName string
}

// New 创建gin引擎
// 中间件顺序: 请求日志(分配请求ID) -> panic恢复 -> 指标 -> 链路追踪 -> 业务路由
func New(h Handlers, auth *middleware.AuthMiddleware, logger *zap.Logger, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	handler.RegisterValidatorTagName()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.Metrics(),
	)
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, "pong", gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	requireAuth := auth.RequireAuth()

	// 认证模块(注册、登录、刷新为公开接口)
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.GET("/me", requireAuth, h.Auth.Me)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
	}

	genres := v1.Group("/genre", requireAuth)
	{
		genres.POST("", h.Genre.Create)
		genres.GET("", h.Genre.List)
		genres.GET("/:id", h.Genre.Get)
		genres.PATCH("/:id", h.Genre.Update)
		genres.DELETE("/:id", h.Genre.Delete)
	}

	books := v1.Group("/books", requireAuth)
	{
		books.POST("", h.Book.Create)
		books.GET("", h.Book.List)
		books.GET("/genre/:genreId", h.Book.ListByGenre)
		books.GET("/:id", h.Book.Get)
		books.PATCH("/:id", h.Book.Update)
		books.DELETE("/:id", h.Book.Delete)
	}

	transactions := v1.Group("/transactions", requireAuth)
	{
		transactions.POST("", h.Transaction.Create)
		transactions.GET("", h.Transaction.List)
		transactions.GET("/statistics", h.Transaction.Statistics)
		transactions.GET("/:id", h.Transaction.Get)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound.WithMessage("接口不存在"))
	})

	return r
}

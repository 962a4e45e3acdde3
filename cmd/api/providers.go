package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appuser "github.com/xiebiao/bookstore-api/internal/application/user"
	"github.com/xiebiao/bookstore-api/internal/domain/user"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-api/internal/interface/http/router"
	"github.com/xiebiao/bookstore-api/pkg/jwt"
)

// =========================================
// 需要从Config中提取参数的Provider
// main.go手动组装与wire.go共用
// =========================================

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideUserService bcrypt成本使用默认值
func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo, user.DefaultBcryptCost)
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(
	cfg *config.Config,
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions appuser.SessionStore,
	logger *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessions, cfg.JWT.RefreshTokenExpire, logger)
}

// provideEngine release模式下不挂载Swagger,启用追踪时记录HTTP Span
func provideEngine(
	cfg *config.Config,
	handlers router.Handlers,
	auth *middleware.AuthMiddleware,
	logger *zap.Logger,
) *gin.Engine {
	opts := router.Options{
		Mode:    cfg.Server.Mode,
		Swagger: cfg.Server.Mode != gin.ReleaseMode,
	}
	if cfg.Tracing.Enabled {
		opts.ServiceName = cfg.Tracing.ServiceName
	}
	return router.New(handlers, auth, logger, opts)
}

//go:build wireinject
// +build wireinject

// Wire依赖注入配置(生产环境:MySQL + Redis + RabbitMQ)
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go。
// 本地开发使用内存存储或按需关闭Redis/MQ时,走main.go中的buildApp手动组装。

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	appgenre "github.com/xiebiao/bookstore-api/internal/application/genre"
	apptx "github.com/xiebiao/bookstore-api/internal/application/transaction"
	appuser "github.com/xiebiao/bookstore-api/internal/application/user"
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/messaging"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-api/internal/interface/http/router"
	"github.com/xiebiao/bookstore-api/pkg/mq"
)

// infrastructureSet 数据库、Redis、消息队列连接
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	provideMQPublisher,
	wire.Bind(new(messaging.Publisher), new(*mq.Publisher)),
)

// repositorySet 仓储与事务管理器
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewGenreRepository,
	mysql.NewBookRepository,
	mysql.NewTransactionRepository,
	mysql.NewTxManager,
	wire.Bind(new(apptx.TxManager), new(*mysql.TxManager)),
)

// cacheSet 会话、Token黑名单、统计缓存
var cacheSet = wire.NewSet(
	redis.NewSessionStore,
	provideStatsCache,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	wire.Bind(new(apptx.StatsCache), new(*redis.StatsCache)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	genre.NewService,
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewMeUseCase,
	appgenre.NewGenreUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	apptx.NewCreateTransactionUseCase,
	apptx.NewListTransactionsUseCase,
	apptx.NewGetTransactionUseCase,
	apptx.NewGetStatisticsUseCase,
	messaging.NewTransactionPublisher,
	wire.Bind(new(apptx.EventPublisher), new(*messaging.TransactionPublisher)),
)

// interfaceSet 处理器、中间件与路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewGenreHandler,
	handler.NewBookHandler,
	handler.NewTransactionHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
)

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, closeDB(db), nil
}

func provideRedisClient(ctx context.Context, cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideMQPublisher(cfg *config.Config, logger *zap.Logger) (*mq.Publisher, func(), error) {
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, logger)
	if err != nil {
		return nil, nil, err
	}
	return pub, func() { _ = pub.Close() }, nil
}

func provideStatsCache(client *goredis.Client, cfg *config.Config) *redis.StatsCache {
	return redis.NewStatsCache(client, cfg.Cache.StatisticsTTL)
}

// InitializeApp 组装生产环境的Gin引擎,cleanup按创建的逆序关闭连接
func InitializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		cacheSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}

// @title           Bookstore API
// @version         1.0
// @description     图书、分类、交易与统计接口
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/xiebiao/bookstore-api/docs"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	appgenre "github.com/xiebiao/bookstore-api/internal/application/genre"
	apptx "github.com/xiebiao/bookstore-api/internal/application/transaction"
	appuser "github.com/xiebiao/bookstore-api/internal/application/user"
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/internal/domain/user"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/messaging"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-api/internal/interface/http/router"
	"github.com/xiebiao/bookstore-api/pkg/logger"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/mq"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// main 主程序入口
// 依赖链: Repository ← Service ← UseCase ← Handler
// MySQL/内存存储二选一,Redis、RabbitMQ、链路追踪按配置启用
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.ReplaceGlobals(zl)()
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, cleanup, err := buildApp(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zl.Info("服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("database", cfg.Database.Driver),
			zap.Bool("redis", cfg.Redis.Enabled),
			zap.Bool("mq", cfg.MQ.Enabled),
			zap.Bool("tracing", cfg.Tracing.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("服务异常退出", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("关闭服务失败", zap.Error(err))
	}
}

// repositories 一种存储驱动下的全部仓储
type repositories struct {
	txManager    apptx.TxManager
	users        user.Repository
	genres       genre.Repository
	books        book.Repository
	transactions transaction.Repository
}

// buildApp 手动组装依赖,返回的cleanup按创建的逆序释放资源
func buildApp(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*gin.Engine, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*gin.Engine, func(), error) {
		cleanup()
		return nil, nil, err
	}

	metrics.InitMetrics()

	// 1. 链路追踪
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			if err := shutdown(context.Background()); err != nil {
				zl.Warn("关闭Tracer失败", zap.Error(err))
			}
		})
	}

	// 2. 存储
	repos, closeDB, err := newRepositories(cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeDB)

	// 3. Redis(可选):会话、Token黑名单、统计缓存
	var (
		sessions  appuser.SessionStore
		blacklist middleware.TokenBlacklist
		cache     apptx.StatsCache
	)
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = client.Close() })

		store := redis.NewSessionStore(client)
		sessions, blacklist = store, store
		cache = redis.NewStatsCache(client, cfg.Cache.StatisticsTTL)
	}

	// 4. RabbitMQ(可选):交易事件
	var events apptx.EventPublisher = messaging.NopPublisher{}
	if cfg.MQ.Enabled {
		pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, zl)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = pub.Close() })
		events = messaging.NewTransactionPublisher(pub, zl)
	}

	// 5. 领域层
	jwtManager := provideJWTManager(cfg)
	userService := provideUserService(repos.users)
	genreService := genre.NewService(repos.genres)
	bookService := book.NewService(repos.books, repos.genres)

	// 6. 应用层 + 接口层
	handlers := router.Handlers{
		Auth: handler.NewAuthHandler(
			appuser.NewRegisterUseCase(userService),
			provideLoginUseCase(cfg, userService, jwtManager, sessions, zl),
			appuser.NewRefreshTokenUseCase(jwtManager, repos.users),
			appuser.NewLogoutUseCase(sessions),
			appuser.NewMeUseCase(repos.users),
		),
		Genre: handler.NewGenreHandler(appgenre.NewGenreUseCase(genreService)),
		Book: handler.NewBookHandler(
			appbook.NewCreateBookUseCase(bookService),
			appbook.NewGetBookUseCase(bookService),
			appbook.NewListBooksUseCase(bookService),
			appbook.NewUpdateBookUseCase(bookService),
			appbook.NewDeleteBookUseCase(bookService),
		),
		Transaction: handler.NewTransactionHandler(
			apptx.NewCreateTransactionUseCase(repos.txManager, repos.books, repos.transactions, cache, events, zl),
			apptx.NewListTransactionsUseCase(repos.transactions),
			apptx.NewGetTransactionUseCase(repos.transactions),
			apptx.NewGetStatisticsUseCase(repos.transactions, repos.books, repos.genres, cache, zl),
		),
	}
	auth := middleware.NewAuthMiddleware(jwtManager, blacklist)

	return provideEngine(cfg, handlers, auth, zl), cleanup, nil
}

// newRepositories 按database.driver选择存储实现
func newRepositories(cfg *config.Config) (*repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.L().Warn("使用内存存储,进程退出后数据丢失")
		store := memory.NewStore()
		return &repositories{
			txManager:    store,
			users:        memory.NewUserRepository(store),
			genres:       memory.NewGenreRepository(store),
			books:        memory.NewBookRepository(store),
			transactions: memory.NewTransactionRepository(store),
		}, func() {}, nil
	default:
		db, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return &repositories{
			txManager:    mysql.NewTxManager(db),
			users:        mysql.NewUserRepository(db),
			genres:       mysql.NewGenreRepository(db),
			books:        mysql.NewBookRepository(db),
			transactions: mysql.NewTransactionRepository(db),
		}, closeDB(db), nil
	}
}

func closeDB(db *gorm.DB) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

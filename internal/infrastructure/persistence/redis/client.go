// Package redis 会话、Token黑名单与统计缓存
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/pkg/logger"
)

const defaultPingTimeout = 3 * time.Second

// NewClient 创建Redis客户端并Ping一次
// redis.enabled=false时调用方不应创建客户端,相关功能退化为无缓存、无黑名单
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rc := cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})

	timeout := rc.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接Redis %s 失败: %w", rc.Addr(), err)
	}

	logger.L().Info("Redis连接成功",
		zap.String("addr", rc.Addr()),
		zap.Int("db", rc.DB),
		zap.Int("pool_size", rc.PoolSize))
	return client, nil
}

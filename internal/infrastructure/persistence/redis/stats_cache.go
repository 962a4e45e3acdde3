package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
)

const (
	statisticsKey        = "stats:transactions"
	statisticsVersionKey = "stats:transactions:version"
)

// setIfVersion 版本号未变化时才写入统计结果
// KEYS[1]=版本号 KEYS[2]=统计结果 ARGV[1]=读取时的版本 ARGV[2]=值 ARGV[3]=TTL(毫秒)
var setIfVersion = redis.NewScript(`
if (redis.call("GET", KEYS[1]) or "0") == ARGV[1] then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`)

// StatsCache 交易统计缓存（Cache-Aside + 版本号）
// 1. 查询统计时先读缓存，未命中时记下版本号再聚合，写回时版本号必须未变
// 2. 新交易提交后版本号加一并删除缓存，聚合期间提交的交易不会被旧结果覆盖
// 3. TTL兜底，Invalidate失败时最多返回TTL内的旧数据
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache 创建统计缓存
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

type cachedStatistics struct {
	TotalTransactions int64   `json:"totalTransactions"`
	AverageAmount     float64 `json:"averageAmount"`
	MostPopularGenre  *string `json:"mostPopularGenre"`
	LeastPopularGenre *string `json:"leastPopularGenre"`
}

// Get 读取缓存，未命中时返回(nil, nil)
func (c *StatsCache) Get(ctx context.Context) (*transaction.Statistics, error) {
	val, err := c.client.Get(ctx, statisticsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取统计缓存失败: %w", err)
	}

	var cached cachedStatistics
	if err := json.Unmarshal(val, &cached); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}
	return &transaction.Statistics{
		TotalTransactions: cached.TotalTransactions,
		AverageAmount:     cached.AverageAmount,
		MostPopularGenre:  cached.MostPopularGenre,
		LeastPopularGenre: cached.LeastPopularGenre,
	}, nil
}

// Version 当前版本号，从未失效过时为0
func (c *StatsCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, statisticsVersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("获取统计缓存版本失败: %w", err)
	}
	return v, nil
}

// Set 写入缓存，版本号已不是version时放弃写入
func (c *StatsCache) Set(ctx context.Context, s *transaction.Statistics, version int64) error {
	val, err := json.Marshal(cachedStatistics{
		TotalTransactions: s.TotalTransactions,
		AverageAmount:     s.AverageAmount,
		MostPopularGenre:  s.MostPopularGenre,
		LeastPopularGenre: s.LeastPopularGenre,
	})
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	keys := []string{statisticsVersionKey, statisticsKey}
	err = setIfVersion.Run(ctx, c.client, keys, version, val, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("设置统计缓存失败: %w", err)
	}
	return nil
}

// Invalidate 版本号加一并删除缓存
func (c *StatsCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, statisticsVersionKey)
		pipe.Del(ctx, statisticsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("删除统计缓存失败: %w", err)
	}
	return nil
}

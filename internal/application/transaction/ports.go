package transaction

import (
	"context"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
)

// TxManager 原子执行单元(mysql.TxManager / memory.Store)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 交易事件发布(messaging.TransactionPublisher / messaging.NopPublisher)
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, t *transaction.Transaction) error
}

// StatsCache 统计结果缓存(redis.StatsCache),未启用Redis时为nil
// Get未命中时返回(nil, nil);Set只在版本号仍等于聚合前读到的version时写入,
// 聚合期间发生的Invalidate会让这次写入作废
type StatsCache interface {
	Get(ctx context.Context) (*transaction.Statistics, error)
	Version(ctx context.Context) (int64, error)
	Set(ctx context.Context, s *transaction.Statistics, version int64) error
	Invalidate(ctx context.Context) error
}

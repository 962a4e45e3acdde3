// Package messaging 领域事件的消息队列适配
package messaging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
)

// Publisher 底层消息发布能力(*mq.Publisher)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
	Exchange() string
}

// TransactionPublisher 发布交易事件
// 发布经过熔断器:broker不可用时快速失败,不拖慢下单请求
type TransactionPublisher struct {
	pub     Publisher
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

// NewTransactionPublisher 创建交易事件发布者
func NewTransactionPublisher(pub Publisher, logger *zap.Logger) *TransactionPublisher {
	const name = "mq-publisher"

	breaker := circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logger.Warn("熔断器状态变化",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))

	return &TransactionPublisher{
		pub:     pub,
		breaker: breaker,
		timeout: 3 * time.Second,
		logger:  logger,
	}
}

// PublishTransactionCreated 发布transaction.created事件
func (p *TransactionPublisher) PublishTransactionCreated(ctx context.Context, t *transaction.Transaction) error {
	event := transaction.NewCreatedEvent(t)

	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.pub.Publish(ctx, transaction.RoutingKeyCreated, event)
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordCircuitBreakerRequest(p.breaker.Name(), "rejected")
	case err != nil:
		metrics.RecordCircuitBreakerRequest(p.breaker.Name(), "failure")
	default:
		metrics.RecordCircuitBreakerRequest(p.breaker.Name(), "success")
	}
	metrics.RecordMessagePublished(p.pub.Exchange(), transaction.RoutingKeyCreated, err)
	return err
}

// NopPublisher 未启用MQ时使用,丢弃事件
type NopPublisher struct{}

// PublishTransactionCreated 不做任何事
func (NopPublisher) PublishTransactionCreated(context.Context, *transaction.Transaction) error {
	return nil
}

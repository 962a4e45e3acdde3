// Package metrics Prometheus指标定义
//
// 指标类型:
//   - Counter: 只增不减(请求总数、交易创建数)
//   - Gauge: 可增可减(正在处理的请求数、熔断器状态)
//   - Histogram: 分布统计(请求耗时、交易金额)
//
// 命名规范: {namespace}_{name}_{unit},计数器以_total结尾,耗时以_seconds结尾
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// ========== HTTP指标 ==========

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ========== 交易指标 ==========

	TransactionsCreatedTotal    prometheus.Counter
	TransactionsFailedTotal     *prometheus.CounterVec // 标签reason: validation/not_found/insufficient_stock/conflict/internal
	TransactionCreationDuration prometheus.Histogram
	TransactionAmount           prometheus.Histogram
	TransactionsInProgress      prometheus.Gauge
	StatisticsCacheTotal        *prometheus.CounterVec // 标签result: hit/miss/error

	// ========== 熔断器指标 ==========

	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// ========== 消息队列指标 ==========

	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册全部指标(可重复调用)
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	TransactionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookstore_transactions_created_total",
			Help: "交易创建成功总数",
		},
	)

	TransactionsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_transactions_failed_total",
			Help: "交易创建失败总数",
		},
		[]string{"reason"},
	)

	TransactionCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookstore_transaction_creation_duration_seconds",
			Help:    "交易创建耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	TransactionAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookstore_transaction_amount",
			Help:    "交易金额分布（最小货币单位）",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		},
	)

	TransactionsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookstore_transactions_in_progress",
			Help: "正在处理的交易数",
		},
	)

	StatisticsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_statistics_cache_total",
			Help: "统计缓存访问次数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // result: success/failure/rejected
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
}

// Handler /metrics端点
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordTransactionCreated 记录交易创建成功
func RecordTransactionCreated(elapsed time.Duration, amount int64) {
	InitMetrics()
	TransactionsCreatedTotal.Inc()
	TransactionCreationDuration.Observe(elapsed.Seconds())
	TransactionAmount.Observe(float64(amount))
}

// RecordTransactionFailed 记录交易创建失败
func RecordTransactionFailed(reason string, elapsed time.Duration) {
	InitMetrics()
	TransactionsFailedTotal.WithLabelValues(reason).Inc()
	TransactionCreationDuration.Observe(elapsed.Seconds())
}

// RecordStatisticsCache 记录统计缓存命中情况
func RecordStatisticsCache(result string) {
	InitMetrics()
	StatisticsCacheTotal.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState 记录熔断器状态
func SetCircuitBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRequest 记录经过熔断器的请求
func RecordCircuitBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordMessagePublished 记录消息发布结果
func RecordMessagePublished(exchange, routingKey string, err error) {
	InitMetrics()
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, result).Inc()
}

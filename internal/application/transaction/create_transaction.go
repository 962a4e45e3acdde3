// Package transaction 交易用例:下单(扣库存+写交易)、查询、统计
package transaction

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// CreateTransactionUseCase 创建交易用例
//
// 防超卖:快照检查只用于给出友好的"库存不足"提示,真正的保证是事务内的条件扣减
//
//	UPDATE books SET stock_quantity = stock_quantity - ? WHERE id = ? AND stock_quantity >= ?
//
// 两个请求同时通过快照检查时,后提交的一方条件扣减命中0行,整个事务回滚并返回409,
// 调用方可以原样重试。不使用进程内锁,多实例部署同样成立。
type CreateTransactionUseCase struct {
	txManager    TxManager
	books        book.Repository
	transactions transaction.Repository
	cache        StatsCache
	events       EventPublisher
	logger       *zap.Logger
}

// NewCreateTransactionUseCase 创建下单用例,cache可以为nil
func NewCreateTransactionUseCase(
	txManager TxManager,
	books book.Repository,
	transactions transaction.Repository,
	cache StatsCache,
	events EventPublisher,
	logger *zap.Logger,
) *CreateTransactionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateTransactionUseCase{
		txManager:    txManager,
		books:        books,
		transactions: transactions,
		cache:        cache,
		events:       events,
		logger:       logger,
	}
}

// Execute 执行下单
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, req CreateTransactionRequest) (resp *TransactionResponse, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "transaction.Create")
	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int("line_count", len(req.Items)),
	)
	defer func() {
		tracing.End(span, err)
		if err != nil {
			metrics.RecordTransactionFailed(failureReason(err), time.Since(start))
		}
	}()

	// 交易必须归属于已认证的用户
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apperrors.ErrUnauthorized
	}

	// 1. 校验并合并同一本书的多行
	lines, err := transaction.MergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	// 2. 一次批量查询所有图书(排除已删除)
	snapshot, err := uc.loadBooks(ctx, lines)
	if err != nil {
		return nil, err
	}

	// 3. 快照库存检查,任何一本不足都不会修改库存
	for _, l := range lines {
		b := snapshot[l.BookID]
		if !b.HasStock(l.Quantity) {
			return nil, apperrors.InsufficientStock(b.ID, b.Title, l.Quantity, b.StockQuantity)
		}
	}

	// 4. 按快照价格计算总额
	t := transaction.NewTransaction(req.UserID, lines, snapshot)
	t.Username = req.Username

	// 5. 原子执行:条件扣减 + 写入交易和明细
	// 扣减按BookID排序,并发请求以相同顺序加行锁,降低死锁概率
	decrements := make([]transaction.Line, len(lines))
	copy(decrements, lines)
	sort.Slice(decrements, func(i, j int) bool { return decrements[i].BookID < decrements[j].BookID })

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		for _, l := range decrements {
			if err := uc.books.DecrementStock(ctx, l.BookID, l.Quantity); err != nil {
				return err
			}
		}
		return uc.transactions.Create(ctx, t)
	})
	if err != nil {
		if apperrors.GetAppError(err).Code == apperrors.ErrCodeConflict {
			return nil, apperrors.Conflict(err)
		}
		return nil, err
	}

	metrics.RecordTransactionCreated(time.Since(start), t.TotalAmount)
	uc.afterCommit(ctx, t)

	out := toTransactionResponse(t)
	return &out, nil
}

// loadBooks 批量查询并检查缺失,NotFound列出全部缺失的ID
func (uc *CreateTransactionUseCase) loadBooks(ctx context.Context, lines []transaction.Line) (map[string]*book.Book, error) {
	found, err := uc.books.FindByIDs(ctx, transaction.BookIDs(lines), true)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]*book.Book, len(found))
	for _, b := range found {
		snapshot[b.ID] = b
	}

	var missing []string
	for _, l := range lines {
		if _, ok := snapshot[l.BookID]; !ok {
			missing = append(missing, l.BookID)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NotFound(transaction.ErrBooksNotFound, missing...)
	}
	return snapshot, nil
}

// afterCommit 提交后的附带动作,失败只记录日志,不影响已提交的交易
func (uc *CreateTransactionUseCase) afterCommit(ctx context.Context, t *transaction.Transaction) {
	ctx = context.WithoutCancel(ctx)

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("删除统计缓存失败", zap.String("transaction_id", t.ID), zap.Error(err))
		}
	}

	if err := uc.events.PublishTransactionCreated(ctx, t); err != nil {
		uc.logger.Warn("发布交易事件失败",
			zap.String("transaction_id", t.ID),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
	}
}

// failureReason 失败原因(指标标签)
func failureReason(err error) string {
	switch code := apperrors.GetAppError(err).Code; {
	case code == apperrors.ErrCodeValidation:
		return "validation"
	case code == apperrors.ErrCodeUnauthorized:
		return "unauthorized"
	case code/100 == 404:
		return "not_found"
	case code == apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	case code == apperrors.ErrCodeConflict:
		return "conflict"
	default:
		return "internal"
	}
}

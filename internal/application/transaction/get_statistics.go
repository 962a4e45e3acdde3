package transaction

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// GetStatisticsUseCase 交易统计用例(只读)
type GetStatisticsUseCase struct {
	transactions transaction.Repository
	books        book.Repository
	genres       genre.Repository
	cache        StatsCache
	logger       *zap.Logger
}

// NewGetStatisticsUseCase 创建统计用例,cache可以为nil
func NewGetStatisticsUseCase(
	transactions transaction.Repository,
	books book.Repository,
	genres genre.Repository,
	cache StatsCache,
	logger *zap.Logger,
) *GetStatisticsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GetStatisticsUseCase{
		transactions: transactions,
		books:        books,
		genres:       genres,
		cache:        cache,
		logger:       logger,
	}
}

// Execute 查询统计,优先读缓存
func (uc *GetStatisticsUseCase) Execute(ctx context.Context) (resp *StatisticsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "transaction.Statistics")
	defer func() { tracing.End(span, err) }()

	if cached := uc.fromCache(ctx); cached != nil {
		return toStatisticsResponse(cached), nil
	}

	// 聚合之前记下版本号,聚合期间有新交易提交时不写回旧结果
	version, cacheable := uc.cacheVersion(ctx)

	stats, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.cache.Set(ctx, stats, version); err != nil {
			uc.logger.Warn("写入统计缓存失败", zap.Error(err))
		}
	}
	return toStatisticsResponse(stats), nil
}

func (uc *GetStatisticsUseCase) cacheVersion(ctx context.Context) (int64, bool) {
	if uc.cache == nil {
		return 0, false
	}
	version, err := uc.cache.Version(ctx)
	if err != nil {
		uc.logger.Warn("读取统计缓存版本失败", zap.Error(err))
		return 0, false
	}
	return version, true
}

func (uc *GetStatisticsUseCase) fromCache(ctx context.Context) *transaction.Statistics {
	if uc.cache == nil {
		return nil
	}

	stats, err := uc.cache.Get(ctx)
	switch {
	case err != nil:
		metrics.RecordStatisticsCache("error")
		uc.logger.Warn("读取统计缓存失败", zap.Error(err))
		return nil
	case stats == nil:
		metrics.RecordStatisticsCache("miss")
		return nil
	default:
		metrics.RecordStatisticsCache("hit")
		return stats
	}
}

// compute 聚合统计
// 三个聚合查询互不依赖,并发执行;任一失败取消其余查询
func (uc *GetStatisticsUseCase) compute(ctx context.Context) (*transaction.Statistics, error) {
	var (
		stats transaction.Statistics
		sold  []transaction.BookQuantity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.transactions.Count(gctx)
		stats.TotalTransactions = n
		return err
	})
	g.Go(func() error {
		avg, err := uc.transactions.AverageTotalAmount(gctx)
		stats.AverageAmount = avg
		return err
	})
	g.Go(func() error {
		var err error
		sold, err = uc.transactions.SumQuantityByBook(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tally, err := uc.tallyGenres(ctx, sold)
	if err != nil {
		return nil, err
	}
	stats.MostPopularGenre, stats.LeastPopularGenre = tally.Extremes()
	return &stats, nil
}

// tallyGenres 销量映射到分类
// 已删除的图书仍然计入(历史销量有效);分类已删除或无法解析的不计入
func (uc *GetStatisticsUseCase) tallyGenres(ctx context.Context, sold []transaction.BookQuantity) (*transaction.GenreTally, error) {
	if len(sold) == 0 {
		return transaction.NewGenreTally(), nil
	}

	bookIDs := make([]string, len(sold))
	for i, s := range sold {
		bookIDs[i] = s.BookID
	}
	books, err := uc.books.FindByIDs(ctx, bookIDs, false)
	if err != nil {
		return nil, err
	}

	bookGenre := make(map[string]string, len(books))
	seen := make(map[string]struct{})
	var genreIDs []string
	for _, b := range books {
		bookGenre[b.ID] = b.GenreID
		if _, ok := seen[b.GenreID]; !ok {
			seen[b.GenreID] = struct{}{}
			genreIDs = append(genreIDs, b.GenreID)
		}
	}

	genres, err := uc.genres.FindByIDs(ctx, genreIDs, true)
	if err != nil {
		return nil, err
	}
	genreNames := make(map[string]string, len(genres))
	for _, g := range genres {
		genreNames[g.ID] = g.Name
	}

	return transaction.TallyGenres(sold, bookGenre, genreNames), nil
}

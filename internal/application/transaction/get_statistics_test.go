package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
)

func TestGetStatistics_NoTransactions(t *testing.T) {
	f := newFixture(t)

	stats, err := f.statisticsUseCase().Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalTransactions)
	assert.Zero(t, stats.AverageAmount)
	assert.Nil(t, stats.MostPopularGenre)
	assert.Nil(t, stats.LeastPopularGenre)
}

func TestGetStatistics_Aggregates(t *testing.T) {
	f := newFixture(t)
	f.genre(t, "g1", "小说")
	f.genre(t, "g2", "历史")
	f.book(t, "a1", "g2", 1000, 100)
	f.book(t, "b1", "g1", 500, 100)
	f.book(t, "c1", "g2", 200, 100)

	f.buy(t, "u1", transaction.Line{BookID: "a1", Quantity: 1}, transaction.Line{BookID: "b1", Quantity: 4})
	f.buy(t, "u1", transaction.Line{BookID: "b1", Quantity: 1}, transaction.Line{BookID: "c1", Quantity: 1})

	stats, err := f.statisticsUseCase().Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalTransactions)
	assert.InDelta(t, float64(3000+700)/2, stats.AverageAmount, 1e-9)
	require.NotNil(t, stats.MostPopularGenre)
	require.NotNil(t, stats.LeastPopularGenre)
	assert.Equal(t, "小说", *stats.MostPopularGenre) // 5本
	assert.Equal(t, "历史", *stats.LeastPopularGenre) // 2本
}

func TestGetStatistics_TieGoesToFirstGenre(t *testing.T) {
	t.Run("两个分类销量相同", func(t *testing.T) {
		f := newFixture(t)
		f.genre(t, "g1", "科幻")
		f.genre(t, "g2", "历史")
		f.book(t, "b1", "g1", 100, 10)
		f.book(t, "b2", "g2", 100, 10)
		f.buy(t, "u1", transaction.Line{BookID: "b2", Quantity: 3}, transaction.Line{BookID: "b1", Quantity: 3})

		stats, err := f.statisticsUseCase().Execute(context.Background())
		require.NoError(t, err)

		// 销量按BookID升序遍历,b1的分类先出现
		assert.Equal(t, "科幻", *stats.MostPopularGenre)
		assert.Equal(t, "科幻", *stats.LeastPopularGenre)
	})

	t.Run("最低销量并列", func(t *testing.T) {
		f := newFixture(t)
		f.genre(t, "g1", "科幻")
		f.genre(t, "g2", "历史")
		f.genre(t, "g3", "诗歌")
		f.book(t, "b1", "g1", 100, 10)
		f.book(t, "b2", "g2", 100, 10)
		f.book(t, "b3", "g3", 100, 10)
		f.buy(t, "u1",
			transaction.Line{BookID: "b3", Quantity: 2},
			transaction.Line{BookID: "b2", Quantity: 2},
			transaction.Line{BookID: "b1", Quantity: 5},
		)

		stats, err := f.statisticsUseCase().Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "科幻", *stats.MostPopularGenre)
		assert.Equal(t, "历史", *stats.LeastPopularGenre)
	})
}

func TestGetStatistics_DeletedRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.genre(t, "g1", "小说")
	f.genre(t, "g2", "已下架分类")
	f.book(t, "b1", "g1", 100, 10)
	f.book(t, "b2", "g2", 100, 100)
	f.buy(t, "u1", transaction.Line{BookID: "b1", Quantity: 1}, transaction.Line{BookID: "b2", Quantity: 50})

	require.NoError(t, f.genres.Delete(ctx, "g2"))
	require.NoError(t, f.books.Delete(ctx, "b1"))

	stats, err := f.statisticsUseCase().Execute(ctx)
	require.NoError(t, err)

	// 分类已删除的销量不计入;图书删除不影响历史销量
	assert.Equal(t, int64(1), stats.TotalTransactions)
	assert.Equal(t, "小说", *stats.MostPopularGenre)
	assert.Equal(t, "小说", *stats.LeastPopularGenre)
}

func TestGetStatistics_OnlyUnmappableItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.genre(t, "g1", "小说")
	f.book(t, "b1", "g1", 100, 10)
	f.buy(t, "u1", transaction.Line{BookID: "b1", Quantity: 2})
	require.NoError(t, f.genres.Delete(ctx, "g1"))

	stats, err := f.statisticsUseCase().Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalTransactions)
	assert.Equal(t, float64(200), stats.AverageAmount)
	assert.Nil(t, stats.MostPopularGenre)
	assert.Nil(t, stats.LeastPopularGenre)
}

func TestGetStatistics_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("命中时直接返回缓存", func(t *testing.T) {
		f := newFixture(t)
		name := "缓存分类"
		f.cache.stats = &transaction.Statistics{TotalTransactions: 42, AverageAmount: 10, MostPopularGenre: &name}

		stats, err := f.statisticsUseCase().Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(42), stats.TotalTransactions)
		assert.Equal(t, "缓存分类", *stats.MostPopularGenre)
		assert.Zero(t, f.cache.sets)
	})

	t.Run("未命中时聚合并写回", func(t *testing.T) {
		f := newFixture(t)
		f.genre(t, "g1", "小说")
		f.book(t, "b1", "g1", 100, 10)
		f.buy(t, "u1", transaction.Line{BookID: "b1", Quantity: 1})

		stats, err := f.statisticsUseCase().Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalTransactions)
		assert.Equal(t, 1, f.cache.sets)
		require.NotNil(t, f.cache.stats)
		assert.Equal(t, int64(1), f.cache.stats.TotalTransactions)
	})

	t.Run("新交易使缓存失效", func(t *testing.T) {
		f := newFixture(t)
		f.genre(t, "g1", "小说")
		f.book(t, "b1", "g1", 100, 10)
		uc := f.statisticsUseCase()

		_, err := uc.Execute(ctx)
		require.NoError(t, err)
		f.buy(t, "u1", transaction.Line{BookID: "b1", Quantity: 1})

		stats, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalTransactions)
	})

	t.Run("聚合期间提交的交易不会被旧结果覆盖", func(t *testing.T) {
		f := newFixture(t)
		f.genre(t, "g1", "小说")
		f.book(t, "b1", "g1", 100, 10)

		var buyErr error
		txs := &committingTransactions{Repository: f.txs, commit: func() {
			_, buyErr = f.createUseCase().Execute(ctx, CreateTransactionRequest{
				UserID: "u1",
				Items:  []transaction.Line{{BookID: "b1", Quantity: 1}},
			})
		}}
		uc := NewGetStatisticsUseCase(txs, f.books, f.genres, f.cache, nil)

		_, err := uc.Execute(ctx)
		require.NoError(t, err)
		require.NoError(t, buyErr)
		assert.Equal(t, 1, f.cache.invalidations)
		assert.Equal(t, 1, f.cache.staleSets)
		assert.Zero(t, f.cache.sets)
		assert.Nil(t, f.cache.stats)

		stats, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalTransactions)
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("缓存故障时降级为直接聚合", func(t *testing.T) {
		f := newFixture(t)
		f.cache.getErr = errors.New("redis timeout")

		stats, err := f.statisticsUseCase().Execute(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalTransactions)
	})
}

// committingTransactions 第一次Count之前提交一笔交易,模拟聚合期间的并发下单
type committingTransactions struct {
	transaction.Repository
	commit func()
}

func (c *committingTransactions) Count(ctx context.Context) (int64, error) {
	if fn := c.commit; fn != nil {
		c.commit = nil
		fn()
	}
	return c.Repository.Count(ctx)
}

type failingTransactions struct {
	transaction.Repository
}

func (failingTransactions) Count(context.Context) (int64, error) {
	return 0, errors.New("db down")
}

func TestGetStatistics_RepositoryError(t *testing.T) {
	f := newFixture(t)
	uc := NewGetStatisticsUseCase(failingTransactions{f.txs}, f.books, f.genres, nil, nil)

	_, err := uc.Execute(context.Background())
	assert.EqualError(t, err, "db down")
}

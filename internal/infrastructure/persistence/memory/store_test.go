package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

func seedBook(t *testing.T, store *Store, stock int) *book.Book {
	t.Helper()
	ctx := context.Background()

	g := genre.NewGenre("分类-" + t.Name())
	require.NoError(t, NewGenreRepository(store).Create(ctx, g))

	b := book.NewBook(book.Details{
		Title: "活着", Writer: "余华", Publisher: "作家出版社",
		PublicationYear: 2012, Price: 2000, StockQuantity: stock, GenreID: g.ID,
	})
	require.NoError(t, NewBookRepository(store).Create(ctx, b))
	return b
}

func TestStore_TransactionRollback(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, store, 5)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, books.DecrementStock(ctx, b.ID, 3))

		// 事务内可以看到自己的修改
		inTx, err := books.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, inTx.StockQuantity)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.StockQuantity, "失败的事务不应留下任何修改")
}

func TestBookRepository_DecrementStock(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, store, 5)
	ctx := context.Background()

	t.Run("库存足够时扣减", func(t *testing.T) {
		require.NoError(t, books.DecrementStock(ctx, b.ID, 5))
		after, _ := books.FindByID(ctx, b.ID)
		assert.Equal(t, 0, after.StockQuantity)
	})

	t.Run("库存不足时未命中", func(t *testing.T) {
		err := books.DecrementStock(ctx, b.ID, 1)
		assert.ErrorIs(t, err, book.ErrStockConflict)
	})

	t.Run("已删除的图书未命中", func(t *testing.T) {
		other := seedBook(t, store, 10)
		require.NoError(t, books.Delete(ctx, other.ID))
		assert.ErrorIs(t, books.DecrementStock(ctx, other.ID, 1), book.ErrStockConflict)
	})
}

func TestBookRepository_ReturnsCopies(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, store, 5)
	ctx := context.Background()

	found, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	found.StockQuantity = 999

	again, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.StockQuantity)
}

func TestBookRepository_ListExcludesDeletedGenre(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	b := seedBook(t, store, 5)
	books := NewBookRepository(store)

	list, total, err := books.List(ctx, book.ListParams{Page: pagination.Params{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	require.NoError(t, NewGenreRepository(store).Delete(ctx, b.GenreID))

	list, total, err = books.List(ctx, book.ListParams{Page: pagination.Params{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, list)
}

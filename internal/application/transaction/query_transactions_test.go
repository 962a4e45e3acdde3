package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

func TestListTransactions(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	f.genre(t, "g1", "小说")
	f.book(t, "b1", "g1", 100, 100)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, f.buy(t, u.ID, transaction.Line{BookID: "b1", Quantity: i + 1}).ID)
		time.Sleep(2 * time.Millisecond) // 保证创建时间不同
	}

	uc := NewListTransactionsUseCase(f.txs)
	resp, err := uc.Execute(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	require.Len(t, resp.List, 2)
	assert.Equal(t, ids[2], resp.List[0].ID, "最新的在前")
	assert.Equal(t, ids[1], resp.List[1].ID)
	assert.Equal(t, UserSummary{ID: u.ID, Username: "alice"}, resp.List[0].User)
	assert.Equal(t, "书-b1", resp.List[0].Items[0].Book.Title)

	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.Nil(t, resp.Meta.Prev)
	require.NotNil(t, resp.Meta.Next)
	assert.Equal(t, 2, *resp.Meta.Next)
}

func TestGetTransaction(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "bob")
	f.genre(t, "g1", "小说")
	f.book(t, "b1", "g1", 250, 10)
	created := f.buy(t, u.ID, transaction.Line{BookID: "b1", Quantity: 2})

	uc := NewGetTransactionUseCase(f.txs)

	t.Run("存在", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(500), resp.TotalAmount)
		assert.Equal(t, "bob", resp.User.Username)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, int64(500), resp.Items[0].Subtotal)
	})

	t.Run("不存在", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), "nope")
		require.ErrorIs(t, err, transaction.ErrTransactionNotFound)
		assert.Equal(t, 404, apperrors.GetAppError(err).Status())
	})
}

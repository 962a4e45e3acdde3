package transaction

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

func TestMergeLines(t *testing.T) {
	t.Run("空列表返回校验错误", func(t *testing.T) {
		_, err := MergeLines(nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))

		appErr := apperrors.GetAppError(err)
		require.Len(t, appErr.Details, 1)
		assert.Equal(t, "items", appErr.Details[0].Path)
	})

	t.Run("列出所有出错字段", func(t *testing.T) {
		_, err := MergeLines([]Line{
			{BookID: "a", Quantity: 1},
			{BookID: "", Quantity: 0},
			{BookID: "b", Quantity: -2},
		})
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		assert.Equal(t, 422, appErr.Status())
		paths := make([]string, 0, len(appErr.Details))
		for _, d := range appErr.Details {
			paths = append(paths, d.Path)
		}
		assert.Equal(t, []string{"items[1].bookId", "items[1].quantity", "items[2].quantity"}, paths)
	})

	t.Run("重复图书合并数量并保持首次出现顺序", func(t *testing.T) {
		merged, err := MergeLines([]Line{
			{BookID: "b", Quantity: 2},
			{BookID: "a", Quantity: 1},
			{BookID: "b", Quantity: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, []Line{{BookID: "b", Quantity: 5}, {BookID: "a", Quantity: 1}}, merged)
		assert.Equal(t, []string{"b", "a"}, BookIDs(merged))
	})

	t.Run("单行数量超过上限", func(t *testing.T) {
		_, err := MergeLines([]Line{{BookID: "a", Quantity: math.MaxInt}})
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		require.Len(t, appErr.Details, 1)
		assert.Equal(t, "items[0].quantity", appErr.Details[0].Path)
	})

	t.Run("合并后数量超过上限不会回绕", func(t *testing.T) {
		_, err := MergeLines([]Line{
			{BookID: "a", Quantity: MaxLineQuantity},
			{BookID: "b", Quantity: 1},
			{BookID: "a", Quantity: 1},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))

		appErr := apperrors.GetAppError(err)
		require.Len(t, appErr.Details, 1)
		assert.Equal(t, "items[2].quantity", appErr.Details[0].Path)
	})

	t.Run("合并后恰好等于上限", func(t *testing.T) {
		merged, err := MergeLines([]Line{
			{BookID: "a", Quantity: MaxLineQuantity - 1},
			{BookID: "a", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, MaxLineQuantity, merged[0].Quantity)
	})
}

func TestNewTransaction(t *testing.T) {
	books := map[string]*book.Book{
		"a": {ID: "a", Title: "深入理解计算机系统", Price: 1000, StockQuantity: 10},
		"b": {ID: "b", Title: "Go程序设计语言", Price: 250, StockQuantity: 3},
	}

	tx := NewTransaction("user-1", []Line{{BookID: "a", Quantity: 3}, {BookID: "b", Quantity: 2}}, books)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "user-1", tx.UserID)
	assert.Equal(t, int64(3500), tx.TotalAmount)
	require.Len(t, tx.Items, 2)
	assert.Equal(t, "a", tx.Items[0].BookID)
	assert.Equal(t, "深入理解计算机系统", tx.Items[0].BookTitle)
	assert.Equal(t, int64(1000), tx.Items[0].Price)
	assert.Equal(t, tx.ID, tx.Items[1].TransactionID)
}

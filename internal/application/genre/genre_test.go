package genre

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

func newUseCase() *GenreUseCase {
	store := memory.NewStore()
	return NewGenreUseCase(genre.NewService(memory.NewGenreRepository(store)))
}

func TestGenreUseCase_Create(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	g, err := uc.Create(ctx, "  科幻 ")
	require.NoError(t, err)
	assert.Equal(t, "科幻", g.Name)

	t.Run("重名", func(t *testing.T) {
		_, err := uc.Create(ctx, "科幻")
		require.ErrorIs(t, err, genre.ErrGenreDuplicate)
		assert.Equal(t, 409, apperrors.GetAppError(err).Status())
	})

	t.Run("名称校验", func(t *testing.T) {
		for _, name := range []string{"", "   ", strings.Repeat("长", genre.MaxNameLength+1)} {
			_, err := uc.Create(ctx, name)
			require.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, "name", apperrors.GetAppError(err).Details[0].Path)
		}
	})

	t.Run("删除后可以重新使用名称", func(t *testing.T) {
		require.NoError(t, uc.Delete(ctx, g.ID))
		_, err := uc.Create(ctx, "科幻")
		require.NoError(t, err)
	})
}

func TestGenreUseCase_RenameAndDelete(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	a, err := uc.Create(ctx, "小说")
	require.NoError(t, err)
	_, err = uc.Create(ctx, "历史")
	require.NoError(t, err)

	renamed, err := uc.Rename(ctx, a.ID, "长篇小说")
	require.NoError(t, err)
	assert.Equal(t, "长篇小说", renamed.Name)

	// 改成自己当前的名字不算重名
	_, err = uc.Rename(ctx, a.ID, "长篇小说")
	require.NoError(t, err)

	_, err = uc.Rename(ctx, a.ID, "历史")
	require.ErrorIs(t, err, genre.ErrGenreDuplicate)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.Get(ctx, a.ID)
	require.ErrorIs(t, err, genre.ErrGenreNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), genre.ErrGenreNotFound)
	_, err = uc.Rename(ctx, a.ID, "随便")
	assert.ErrorIs(t, err, genre.ErrGenreNotFound)
}

func TestGenreUseCase_List(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()
	for _, name := range []string{"b-历史", "a-科幻", "c-科普"} {
		_, err := uc.Create(ctx, name)
		require.NoError(t, err)
	}

	resp, err := uc.List(ctx, ListGenresRequest{Page: pagination.Params{Page: 1, Limit: 2}, OrderByName: "asc"})
	require.NoError(t, err)
	require.Len(t, resp.List, 2)
	assert.Equal(t, "a-科幻", resp.List[0].Name)
	assert.Equal(t, "b-历史", resp.List[1].Name)
	assert.Equal(t, int64(3), resp.Meta.Total)
	require.NotNil(t, resp.Meta.Next)

	resp, err = uc.List(ctx, ListGenresRequest{Search: "科"})
	require.NoError(t, err)
	assert.Len(t, resp.List, 2)
}

package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

type fixture struct {
	genres  genre.Repository
	service book.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	genres := memory.NewGenreRepository(store)
	return &fixture{
		genres:  genres,
		service: book.NewService(memory.NewBookRepository(store), genres),
	}
}

func (f *fixture) genre(t *testing.T, name string) string {
	t.Helper()
	g := genre.NewGenre(name)
	require.NoError(t, f.genres.Create(context.Background(), g))
	return g.ID
}

func validRequest(genreID string) CreateBookRequest {
	return CreateBookRequest{
		Title:           "三体",
		Writer:          "刘慈欣",
		Publisher:       "重庆出版社",
		PublicationYear: 2008,
		Description:     "地球往事三部曲之一",
		Condition:       "NEW",
		Price:           2300,
		StockQuantity:   10,
		GenreID:         genreID,
	}
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("成功", func(t *testing.T) {
		f := newFixture(t)
		uc := NewCreateBookUseCase(f.service)

		resp, err := uc.Execute(ctx, validRequest(f.genre(t, "科幻")))
		require.NoError(t, err)
		assert.False(t, resp.Restored)
		assert.NotEmpty(t, resp.Book.ID)
		assert.Equal(t, "三体", resp.Book.Title)
		assert.Equal(t, int64(2300), resp.Book.Price)
	})

	t.Run("参数校验", func(t *testing.T) {
		f := newFixture(t)
		uc := NewCreateBookUseCase(f.service)

		req := validRequest(f.genre(t, "科幻"))
		req.Price = 0
		req.StockQuantity = -1
		req.PublicationYear = 9999

		_, err := uc.Execute(ctx, req)
		require.ErrorIs(t, err, apperrors.ErrValidation)
		var paths []string
		for _, d := range apperrors.GetAppError(err).Details {
			paths = append(paths, d.Path)
		}
		assert.ElementsMatch(t, []string{"price", "stockQuantity", "publicationYear"}, paths)
	})

	t.Run("品相和出版年份范围", func(t *testing.T) {
		f := newFixture(t)
		uc := NewCreateBookUseCase(f.service)

		req := validRequest(f.genre(t, "科幻"))
		req.Condition = "new"
		req.PublicationYear = 1449

		_, err := uc.Execute(ctx, req)
		require.ErrorIs(t, err, apperrors.ErrValidation)
		var paths []string
		for _, d := range apperrors.GetAppError(err).Details {
			paths = append(paths, d.Path)
		}
		assert.ElementsMatch(t, []string{"condition", "publicationYear"}, paths)

		req.Condition = book.ConditionLikeNew
		req.PublicationYear = book.MinPublicationYear
		resp, err := uc.Execute(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "LIKE_NEW", resp.Book.Condition)
	})

	t.Run("分类不存在", func(t *testing.T) {
		f := newFixture(t)
		_, err := NewCreateBookUseCase(f.service).Execute(ctx, validRequest("missing"))
		require.ErrorIs(t, err, genre.ErrGenreNotFound)
		assert.Equal(t, 404, apperrors.GetAppError(err).Status())
	})

	t.Run("重复图书", func(t *testing.T) {
		f := newFixture(t)
		uc := NewCreateBookUseCase(f.service)
		req := validRequest(f.genre(t, "科幻"))

		_, err := uc.Execute(ctx, req)
		require.NoError(t, err)
		_, err = uc.Execute(ctx, req)
		require.ErrorIs(t, err, book.ErrBookDuplicate)
		assert.Equal(t, 409, apperrors.GetAppError(err).Status())
	})

	t.Run("恢复已删除的重复图书", func(t *testing.T) {
		f := newFixture(t)
		uc := NewCreateBookUseCase(f.service)
		req := validRequest(f.genre(t, "科幻"))

		first, err := uc.Execute(ctx, req)
		require.NoError(t, err)
		require.NoError(t, NewDeleteBookUseCase(f.service).Execute(ctx, first.Book.ID))

		req.Price = 2600
		again, err := uc.Execute(ctx, req)
		require.NoError(t, err)
		assert.True(t, again.Restored)
		assert.Equal(t, first.Book.ID, again.Book.ID)
		assert.Equal(t, int64(2600), again.Book.Price)

		got, err := NewGetBookUseCase(f.service).Execute(ctx, first.Book.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2600), got.Price)
	})
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	genreID := f.genre(t, "科幻")
	create := NewCreateBookUseCase(f.service)
	update := NewUpdateBookUseCase(f.service)

	a, err := create.Execute(ctx, validRequest(genreID))
	require.NoError(t, err)
	other := validRequest(genreID)
	other.Title = "球状闪电"
	b, err := create.Execute(ctx, other)
	require.NoError(t, err)

	t.Run("部分更新", func(t *testing.T) {
		stock := 42
		resp, err := update.Execute(ctx, UpdateBookRequest{ID: a.Book.ID, Patch: book.Patch{StockQuantity: &stock}})
		require.NoError(t, err)
		assert.Equal(t, 42, resp.StockQuantity)
		assert.Equal(t, "三体", resp.Title)
	})

	t.Run("书名重复", func(t *testing.T) {
		title := "球状闪电"
		_, err := update.Execute(ctx, UpdateBookRequest{ID: a.Book.ID, Patch: book.Patch{Title: &title}})
		require.ErrorIs(t, err, book.ErrTitleDuplicate)
	})

	t.Run("已删除", func(t *testing.T) {
		require.NoError(t, NewDeleteBookUseCase(f.service).Execute(ctx, b.Book.ID))

		price := int64(100)
		_, err := update.Execute(ctx, UpdateBookRequest{ID: b.Book.ID, Patch: book.Patch{Price: &price}})
		require.ErrorIs(t, err, book.ErrBookNotFound)

		err = NewDeleteBookUseCase(f.service).Execute(ctx, b.Book.ID)
		require.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("分类不存在", func(t *testing.T) {
		missing := "missing"
		_, err := update.Execute(ctx, UpdateBookRequest{ID: a.Book.ID, Patch: book.Patch{GenreID: &missing}})
		require.ErrorIs(t, err, genre.ErrGenreNotFound)
	})
}

// racingRepository 第一次FindByID返回之后执行afterFind,模拟读取与写入之间成交的交易
type racingRepository struct {
	book.Repository
	afterFind func()
}

func (r *racingRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	b, err := r.Repository.FindByID(ctx, id)
	if fn := r.afterFind; fn != nil {
		r.afterFind = nil
		fn()
	}
	return b, err
}

func TestUpdateBook_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*racingRepository, *UpdateBookUseCase, string) {
		t.Helper()
		store := memory.NewStore()
		genres := memory.NewGenreRepository(store)
		g := genre.NewGenre("科幻")
		require.NoError(t, genres.Create(ctx, g))

		repo := &racingRepository{Repository: memory.NewBookRepository(store)}
		svc := book.NewService(repo, genres)
		resp, err := NewCreateBookUseCase(svc).Execute(ctx, validRequest(g.ID))
		require.NoError(t, err)
		return repo, NewUpdateBookUseCase(svc), resp.Book.ID
	}

	t.Run("改书名不会覆盖期间扣减的库存", func(t *testing.T) {
		repo, update, id := setup(t)
		repo.afterFind = func() {
			require.NoError(t, repo.DecrementStock(ctx, id, 3))
		}

		title := "三体(典藏版)"
		resp, err := update.Execute(ctx, UpdateBookRequest{ID: id, Patch: book.Patch{Title: &title}})
		require.NoError(t, err)
		assert.Equal(t, title, resp.Title)
		assert.Equal(t, 7, resp.StockQuantity)

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 7, got.StockQuantity)
	})

	t.Run("改库存时库存已被扣减返回冲突", func(t *testing.T) {
		repo, update, id := setup(t)
		repo.afterFind = func() {
			require.NoError(t, repo.DecrementStock(ctx, id, 3))
		}

		stock := 50
		_, err := update.Execute(ctx, UpdateBookRequest{ID: id, Patch: book.Patch{StockQuantity: &stock}})
		require.ErrorIs(t, err, book.ErrStockConflict)
		assert.Equal(t, 409, apperrors.GetAppError(err).Status())

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 7, got.StockQuantity)
	})

	t.Run("期间被删除的图书不会被恢复", func(t *testing.T) {
		repo, update, id := setup(t)
		repo.afterFind = func() {
			require.NoError(t, repo.Delete(ctx, id))
		}

		price := int64(100)
		_, err := update.Execute(ctx, UpdateBookRequest{ID: id, Patch: book.Patch{Price: &price}})
		require.ErrorIs(t, err, book.ErrBookNotFound)

		_, err = repo.FindByID(ctx, id)
		require.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	scifi := f.genre(t, "科幻")
	history := f.genre(t, "历史")
	create := NewCreateBookUseCase(f.service)

	for _, r := range []struct {
		title, genreID string
		year           int
	}{
		{"三体", scifi, 2008},
		{"流浪地球", scifi, 2000},
		{"万历十五年", history, 1982},
	} {
		req := validRequest(r.genreID)
		req.Title = r.title
		req.PublicationYear = r.year
		_, err := create.Execute(ctx, req)
		require.NoError(t, err)
	}

	uc := NewListBooksUseCase(f.service)

	t.Run("全部", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListBooksRequest{Page: pagination.Params{Page: 1, Limit: 10}, OrderByPublishDate: "asc"})
		require.NoError(t, err)
		require.Len(t, resp.List, 3)
		assert.Equal(t, "万历十五年", resp.List[0].Title)
		assert.Equal(t, int64(3), resp.Meta.Total)
	})

	t.Run("按分类", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListBooksRequest{GenreID: scifi, OrderByTitle: "desc"})
		require.NoError(t, err)
		require.Len(t, resp.List, 2)
		assert.Equal(t, "流浪地球", resp.List[0].Title)
	})

	t.Run("搜索", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListBooksRequest{Search: "三"})
		require.NoError(t, err)
		require.Len(t, resp.List, 1)
		assert.Equal(t, "三体", resp.List[0].Title)
	})

	t.Run("分类不存在", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListBooksRequest{GenreID: "missing"})
		require.ErrorIs(t, err, genre.ErrGenreNotFound)
	})

	t.Run("分类删除后其图书不再出现", func(t *testing.T) {
		require.NoError(t, f.genres.Delete(ctx, history))
		resp, err := uc.Execute(ctx, ListBooksRequest{})
		require.NoError(t, err)
		assert.Len(t, resp.List, 2)
	})
}

package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// BookRepository 图书仓储内存实现
type BookRepository struct {
	store *Store
}

// NewBookRepository 创建图书仓储
func NewBookRepository(store *Store) book.Repository {
	return &BookRepository{store: store}
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	return r.store.write(ctx, func(st *state) error {
		st.books[b.ID] = copyBook(b)
		return nil
	})
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var found *book.Book
	err := r.store.read(ctx, func(st *state) error {
		b, ok := st.books[id]
		if !ok || b.IsDeleted() {
			return book.ErrBookNotFound
		}
		found = copyBook(b)
		return nil
	})
	return found, err
}

func (r *BookRepository) FindByIDs(ctx context.Context, ids []string, excludeDeleted bool) ([]*book.Book, error) {
	var found []*book.Book
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range ids {
			b, ok := st.books[id]
			if !ok || (excludeDeleted && b.IsDeleted()) {
				continue
			}
			found = append(found, copyBook(b))
		}
		return nil
	})
	return found, err
}

func (r *BookRepository) FindDuplicate(ctx context.Context, title, writer, publisher string) (*book.Book, error) {
	var found *book.Book
	err := r.store.read(ctx, func(st *state) error {
		for _, b := range st.books {
			if b.Title == title && b.Writer == writer && b.Publisher == publisher {
				// 优先返回未删除的记录
				if found == nil || !b.IsDeleted() {
					found = copyBook(b)
				}
			}
		}
		if found == nil {
			return book.ErrBookNotFound
		}
		return nil
	})
	return found, err
}

func (r *BookRepository) FindByTitle(ctx context.Context, title string) (*book.Book, error) {
	var found *book.Book
	err := r.store.read(ctx, func(st *state) error {
		for _, b := range st.books {
			if !b.IsDeleted() && b.Title == title {
				found = copyBook(b)
				return nil
			}
		}
		return book.ErrBookNotFound
	})
	return found, err
}

func (r *BookRepository) Restore(ctx context.Context, b *book.Book) error {
	return r.store.write(ctx, func(st *state) error {
		existing, ok := st.books[b.ID]
		if !ok {
			return book.ErrBookNotFound
		}
		if !existing.IsDeleted() {
			return book.ErrBookDuplicate
		}
		st.books[b.ID] = copyBook(b)
		return nil
	})
}

func (r *BookRepository) Patch(ctx context.Context, id string, p book.Patch, expectedStock int) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.books[id]
		if !ok || b.IsDeleted() {
			return book.ErrBookNotFound
		}
		if p.StockQuantity != nil && b.StockQuantity != expectedStock {
			return book.ErrStockConflict
		}
		b.ApplyPatch(p)
		return nil
	})
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.books[id]
		if !ok || b.IsDeleted() {
			return book.ErrBookNotFound
		}
		now := time.Now()
		b.DeletedAt = &now
		return nil
	})
}

func (r *BookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var all []*book.Book
	err := r.store.read(ctx, func(st *state) error {
		search := strings.ToLower(params.Search)
		for _, b := range st.books {
			if b.IsDeleted() {
				continue
			}
			if g, ok := st.genres[b.GenreID]; !ok || g.IsDeleted() {
				continue
			}
			if params.GenreID != "" && b.GenreID != params.GenreID {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(b.Title), search) {
				continue
			}
			if params.Condition != "" && b.Condition != params.Condition {
				continue
			}
			all = append(all, copyBook(b))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, c := all[i], all[j]
		if params.OrderByTitle != "" && a.Title != c.Title {
			return (a.Title < c.Title) == (params.OrderByTitle == "asc")
		}
		if params.OrderByPublishDate != "" && a.PublicationYear != c.PublicationYear {
			return (a.PublicationYear < c.PublicationYear) == (params.OrderByPublishDate == "asc")
		}
		if params.OrderByTitle == "" && params.OrderByPublishDate == "" {
			return a.CreatedAt.After(c.CreatedAt)
		}
		return false
	})

	p := params.Page.Normalize()
	return paginate(all, p.Offset(), p.Limit), int64(len(all)), nil
}

// DecrementStock 条件扣减：图书存在、未删除且库存足够时才扣减
func (r *BookRepository) DecrementStock(ctx context.Context, id string, amount int) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.books[id]
		if !ok || b.IsDeleted() || !b.HasStock(amount) {
			return book.ErrStockConflict
		}
		return b.DecrStock(amount)
	})
}

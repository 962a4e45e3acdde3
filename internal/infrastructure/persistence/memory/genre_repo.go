package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/genre"
)

// GenreRepository 分类仓储内存实现
type GenreRepository struct {
	store *Store
}

// NewGenreRepository 创建分类仓储
func NewGenreRepository(store *Store) genre.Repository {
	return &GenreRepository{store: store}
}

func (r *GenreRepository) Create(ctx context.Context, g *genre.Genre) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.genres {
			if !existing.IsDeleted() && existing.Name == g.Name {
				return genre.ErrGenreDuplicate
			}
		}
		st.genres[g.ID] = copyGenre(g)
		return nil
	})
}

func (r *GenreRepository) FindByID(ctx context.Context, id string) (*genre.Genre, error) {
	var found *genre.Genre
	err := r.store.read(ctx, func(st *state) error {
		g, ok := st.genres[id]
		if !ok || g.IsDeleted() {
			return genre.ErrGenreNotFound
		}
		found = copyGenre(g)
		return nil
	})
	return found, err
}

func (r *GenreRepository) FindByName(ctx context.Context, name string) (*genre.Genre, error) {
	var found *genre.Genre
	err := r.store.read(ctx, func(st *state) error {
		for _, g := range st.genres {
			if !g.IsDeleted() && g.Name == name {
				found = copyGenre(g)
				return nil
			}
		}
		return genre.ErrGenreNotFound
	})
	return found, err
}

func (r *GenreRepository) FindByIDs(ctx context.Context, ids []string, excludeDeleted bool) ([]*genre.Genre, error) {
	var found []*genre.Genre
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range ids {
			g, ok := st.genres[id]
			if !ok || (excludeDeleted && g.IsDeleted()) {
				continue
			}
			found = append(found, copyGenre(g))
		}
		return nil
	})
	return found, err
}

func (r *GenreRepository) Update(ctx context.Context, g *genre.Genre) error {
	return r.store.write(ctx, func(st *state) error {
		existing, ok := st.genres[g.ID]
		if !ok || existing.IsDeleted() {
			return genre.ErrGenreNotFound
		}
		existing.Name = g.Name
		existing.UpdatedAt = g.UpdatedAt
		return nil
	})
}

func (r *GenreRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(st *state) error {
		g, ok := st.genres[id]
		if !ok || g.IsDeleted() {
			return genre.ErrGenreNotFound
		}
		now := time.Now()
		g.DeletedAt = &now
		return nil
	})
}

func (r *GenreRepository) List(ctx context.Context, params genre.ListParams) ([]*genre.Genre, int64, error) {
	var all []*genre.Genre
	err := r.store.read(ctx, func(st *state) error {
		search := strings.ToLower(params.Search)
		for _, g := range st.genres {
			if g.IsDeleted() {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(g.Name), search) {
				continue
			}
			all = append(all, copyGenre(g))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		switch params.OrderByName {
		case "asc":
			return all[i].Name < all[j].Name
		case "desc":
			return all[i].Name > all[j].Name
		default:
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
	})

	p := params.Page.Normalize()
	return paginate(all, p.Offset(), p.Limit), int64(len(all)), nil
}

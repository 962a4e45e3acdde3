// Package genre 分类用例
package genre

import (
	"context"
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// GenreResponse 分类DTO
type GenreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListGenresRequest 列表查询请求
type ListGenresRequest struct {
	Page        pagination.Params
	Search      string
	OrderByName string
}

// ListGenresResponse 分页列表
type ListGenresResponse struct {
	List []GenreResponse
	Meta pagination.Meta
}

// GenreUseCase 分类的增删改查
// 每个操作都只是领域服务的一次调用加DTO转换,合并为一个用例对象
type GenreUseCase struct {
	genreService genre.Service
}

// NewGenreUseCase 创建分类用例
func NewGenreUseCase(genreService genre.Service) *GenreUseCase {
	return &GenreUseCase{genreService: genreService}
}

// Create 创建分类,重名时返回ErrGenreDuplicate
func (uc *GenreUseCase) Create(ctx context.Context, name string) (*GenreResponse, error) {
	g, err := uc.genreService.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return toGenreResponse(g), nil
}

// Get 分类详情
func (uc *GenreUseCase) Get(ctx context.Context, id string) (*GenreResponse, error) {
	g, err := uc.genreService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGenreResponse(g), nil
}

// Rename 修改名称
func (uc *GenreUseCase) Rename(ctx context.Context, id, name string) (*GenreResponse, error) {
	g, err := uc.genreService.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	return toGenreResponse(g), nil
}

// Delete 软删除
func (uc *GenreUseCase) Delete(ctx context.Context, id string) error {
	return uc.genreService.Delete(ctx, id)
}

// List 分页查询
func (uc *GenreUseCase) List(ctx context.Context, req ListGenresRequest) (*ListGenresResponse, error) {
	page := req.Page.Normalize()
	list, total, err := uc.genreService.List(ctx, genre.ListParams{
		Page:        page,
		Search:      req.Search,
		OrderByName: req.OrderByName,
	})
	if err != nil {
		return nil, err
	}

	resp := &ListGenresResponse{
		List: make([]GenreResponse, len(list)),
		Meta: pagination.NewMeta(page, total),
	}
	for i, g := range list {
		resp.List[i] = *toGenreResponse(g)
	}
	return resp, nil
}

func toGenreResponse(g *genre.Genre) *GenreResponse {
	return &GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

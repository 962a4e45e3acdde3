package genre

import (
	"context"

	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// Repository 分类仓储接口
// 说明:除FindByIDs外,所有查询都排除已软删除的记录
type Repository interface {
	// Create 创建分类
	Create(ctx context.Context, genre *Genre) error

	// FindByID 根据ID查找分类,不存在或已删除时返回ErrGenreNotFound
	FindByID(ctx context.Context, id string) (*Genre, error)

	// FindByName 根据名称查找未删除的分类,不存在时返回ErrGenreNotFound
	FindByName(ctx context.Context, name string) (*Genre, error)

	// FindByIDs 批量查找分类(一次查询)
	// excludeDeleted=true时排除已软删除的分类;不存在的ID直接忽略,由调用方比对
	FindByIDs(ctx context.Context, ids []string, excludeDeleted bool) ([]*Genre, error)

	// Update 更新分类
	Update(ctx context.Context, genre *Genre) error

	// Delete 软删除分类
	Delete(ctx context.Context, id string) error

	// List 分页查询分类
	List(ctx context.Context, params ListParams) ([]*Genre, int64, error)
}

// ListParams 分类列表查询参数
type ListParams struct {
	Page        pagination.Params
	Search      string // 名称模糊匹配
	OrderByName string // asc/desc,为空时按创建时间倒序
}

package book

import (
	"context"

	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// Repository 图书仓储接口
// DDD设计说明:
// 1. 接口定义在domain层(依赖倒置原则)
// 2. 具体实现在infrastructure/persistence层(mysql、memory)
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找未删除的图书,不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// FindByIDs 批量查找图书(一次查询)
	// excludeDeleted=true时排除已软删除的图书;不存在的ID直接忽略,由调用方比对
	FindByIDs(ctx context.Context, ids []string, excludeDeleted bool) ([]*Book, error)

	// FindDuplicate 按(书名,作者,出版社)查找图书,包含已软删除的
	// 不存在时返回ErrBookNotFound
	FindDuplicate(ctx context.Context, title, writer, publisher string) (*Book, error)

	// FindByTitle 按书名查找未删除的图书,不存在时返回ErrBookNotFound
	FindByTitle(ctx context.Context, title string) (*Book, error)

	// Restore 恢复已软删除的图书并写入全部属性
	// 只对仍处于删除状态的行生效,期间已被其他请求恢复时返回ErrBookDuplicate
	Restore(ctx context.Context, book *Book) error

	// Patch 只写入p中非nil的字段,不触碰其他列,已删除的图书返回ErrBookNotFound
	// 修改库存时以expectedStock为条件:读取之后库存被交易扣减过则返回ErrStockConflict
	Patch(ctx context.Context, id string, p Patch, expectedStock int) error

	// Delete 软删除图书
	Delete(ctx context.Context, id string) error

	// List 分页查询图书(排除已删除的图书以及分类已删除的图书)
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// DecrementStock 条件扣减库存
	// 语义: UPDATE ... SET stock = stock - amount WHERE id = ? AND stock >= amount AND 未删除
	// 未命中任何行时返回ErrStockConflict;在事务中调用时,失败会使整个事务回滚
	DecrementStock(ctx context.Context, id string, amount int) error
}

// ListParams 图书列表查询参数
type ListParams struct {
	Page               pagination.Params
	GenreID            string // 非空时只查该分类
	Search             string // 书名模糊匹配
	Condition          string // 品相精确匹配
	OrderByTitle       string // asc/desc
	OrderByPublishDate string // asc/desc(按出版年份)
}

package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 库存扣减使用条件更新,不做"先查后改"
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	if err := getDB(ctx, r.db).Create(toBookModel(b)).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrBookDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByIDs 批量查询,一条 SELECT ... WHERE id IN (...)
func (r *bookRepository) FindByIDs(ctx context.Context, ids []string, excludeDeleted bool) ([]*book.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := getDB(ctx, r.db)
	if !excludeDeleted {
		db = db.Unscoped()
	}

	var models []BookModel
	if err := db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "批量查询图书失败")
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, nil
}

// FindDuplicate 包含已软删除的记录,未删除的优先
func (r *bookRepository) FindDuplicate(ctx context.Context, title, writer, publisher string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Unscoped().
		Where("title = ? AND writer = ? AND publisher = ?", title, writer, publisher).
		Order("deleted_at IS NULL DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) FindByTitle(ctx context.Context, title string) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).Where("title = ?", title).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Restore 恢复软删除的图书并写入全部属性
// 条件 deleted_at IS NOT NULL,两个请求同时恢复时只有一个成功
func (r *bookRepository) Restore(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Unscoped().Model(&BookModel{}).
		Where("id = ? AND deleted_at IS NOT NULL", b.ID).
		Updates(map[string]interface{}{
			"title":            b.Title,
			"writer":           b.Writer,
			"publisher":        b.Publisher,
			"isbn":             b.ISBN,
			"description":      b.Description,
			"publication_year": b.PublicationYear,
			"book_condition":   b.Condition,
			"price":            b.Price,
			"stock_quantity":   b.StockQuantity,
			"genre_id":         b.GenreID,
			"updated_at":       b.UpdatedAt,
			"deleted_at":       nil,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrBookDuplicate
		}
		return apperrors.Wrap(result.Error, "恢复图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookDuplicate
	}
	return nil
}

// Patch 部分更新,只写入请求中出现的列
// 带库存时追加 stock_quantity = expectedStock 条件,与交易的条件扣减互斥
func (r *bookRepository) Patch(ctx context.Context, id string, p book.Patch, expectedStock int) error {
	db := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", id)
	if p.StockQuantity != nil {
		db = db.Where("stock_quantity = ?", expectedStock)
	}

	result := db.Updates(patchColumns(p))
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrTitleDuplicate
		}
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// 0行:图书已删除,或者库存在读取之后被修改
	if p.StockQuantity != nil {
		if _, err := r.FindByID(ctx, id); err == nil {
			return book.ErrStockConflict
		}
	}
	return book.ErrBookNotFound
}

func patchColumns(p book.Patch) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": time.Now()}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Writer != nil {
		cols["writer"] = *p.Writer
	}
	if p.Publisher != nil {
		cols["publisher"] = *p.Publisher
	}
	if p.ISBN != nil {
		cols["isbn"] = *p.ISBN
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.PublicationYear != nil {
		cols["publication_year"] = *p.PublicationYear
	}
	if p.Condition != nil {
		cols["book_condition"] = *p.Condition
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.StockQuantity != nil {
		cols["stock_quantity"] = *p.StockQuantity
	}
	if p.GenreID != nil {
		cols["genre_id"] = *p.GenreID
	}
	return cols
}

// Delete 软删除(GORM自动设置deleted_at)
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&BookModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询
// 通过JOIN排除分类已删除的图书
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	db := getDB(ctx, r.db).Model(&BookModel{}).
		Joins("JOIN genres ON genres.id = books.genre_id AND genres.deleted_at IS NULL")

	if params.GenreID != "" {
		db = db.Where("books.genre_id = ?", params.GenreID)
	}
	if params.Search != "" {
		db = db.Where("books.title LIKE ?", "%"+params.Search+"%")
	}
	if params.Condition != "" {
		db = db.Where("books.book_condition = ?", params.Condition)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	if params.OrderByTitle != "" {
		db = db.Order("books.title " + orderDirection(params.OrderByTitle))
	}
	if params.OrderByPublishDate != "" {
		db = db.Order("books.publication_year " + orderDirection(params.OrderByPublishDate))
	}
	if params.OrderByTitle == "" && params.OrderByPublishDate == "" {
		db = db.Order("books.created_at DESC")
	}

	p := params.Page.Normalize()
	var models []BookModel
	if err := db.Select("books.*").Offset(p.Offset()).Limit(p.Limit).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, total, nil
}

// DecrementStock 条件扣减库存
// 生成的SQL:
//
//	UPDATE books SET stock_quantity = stock_quantity - ?, updated_at = ?
//	WHERE id = ? AND stock_quantity >= ? AND deleted_at IS NULL
//
// 条件判断与扣减在同一条语句中完成(行锁保护),并发请求不会把库存扣成负数;
// 影响行数为0说明库存在检查之后被改动,返回ErrStockConflict让整个事务回滚。
func (r *bookRepository) DecrementStock(ctx context.Context, id string, amount int) error {
	if amount <= 0 {
		return book.ErrInvalidQuantity
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND stock_quantity >= ?", id, amount).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", amount))
	if result.Error != nil {
		if isConflictError(result.Error) {
			return apperrors.Conflict(result.Error)
		}
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrStockConflict
	}
	return nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Writer:          b.Writer,
		Publisher:       b.Publisher,
		ISBN:            b.ISBN,
		Description:     b.Description,
		PublicationYear: b.PublicationYear,
		Condition:       b.Condition,
		Price:           b.Price,
		StockQuantity:   b.StockQuantity,
		GenreID:         b.GenreID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		DeletedAt:       fromDeletedAt(b.DeletedAt),
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Writer:          model.Writer,
		Publisher:       model.Publisher,
		ISBN:            model.ISBN,
		Description:     model.Description,
		PublicationYear: model.PublicationYear,
		Condition:       model.Condition,
		Price:           model.Price,
		StockQuantity:   model.StockQuantity,
		GenreID:         model.GenreID,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		DeletedAt:       toDeletedAt(model.DeletedAt),
	}
}

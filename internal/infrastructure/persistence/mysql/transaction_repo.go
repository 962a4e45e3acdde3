package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// transactionRepository 交易仓储实现(MySQL)
// 交易与明细只插入不修改
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建交易仓储
func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &transactionRepository{db: db}
}

// Create 插入交易,GORM会在同一事务内插入Items关联
func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	if err := getDB(ctx, r.db).Create(toTransactionModel(t)).Error; err != nil {
		if isConflictError(err) {
			return apperrors.Conflict(err)
		}
		return apperrors.Wrap(err, "创建交易失败")
	}
	return nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	var model TransactionModel
	if err := r.withAssociations(getDB(ctx, r.db)).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(err, "查询交易失败")
	}
	return toTransactionEntity(&model), nil
}

func (r *transactionRepository) List(ctx context.Context, params pagination.Params) ([]*transaction.Transaction, int64, error) {
	db := getDB(ctx, r.db)

	var total int64
	if err := db.Model(&TransactionModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询交易总数失败")
	}

	p := params.Normalize()
	var models []TransactionModel
	err := r.withAssociations(db).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询交易列表失败")
	}

	list := make([]*transaction.Transaction, 0, len(models))
	for i := range models {
		list = append(list, toTransactionEntity(&models[i]))
	}
	return list, total, nil
}

func (r *transactionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := getDB(ctx, r.db).Model(&TransactionModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计交易数量失败")
	}
	return n, nil
}

// AverageTotalAmount 没有记录时AVG返回NULL,用COALESCE转成0
func (r *transactionRepository) AverageTotalAmount(ctx context.Context) (float64, error) {
	var avg float64
	err := getDB(ctx, r.db).Model(&TransactionModel{}).
		Select("COALESCE(AVG(total_amount), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计平均金额失败")
	}
	return avg, nil
}

// SumQuantityByBook 按book_id分组求和,ORDER BY保证顺序固定
func (r *transactionRepository) SumQuantityByBook(ctx context.Context) ([]transaction.BookQuantity, error) {
	var rows []struct {
		BookID   string
		Quantity int64
	}
	err := getDB(ctx, r.db).Model(&TransactionItemModel{}).
		Select("book_id, SUM(quantity) AS quantity").
		Group("book_id").
		Order("book_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "按图书统计销量失败")
	}

	result := make([]transaction.BookQuantity, 0, len(rows))
	for _, row := range rows {
		result = append(result, transaction.BookQuantity{BookID: row.BookID, Quantity: row.Quantity})
	}
	return result, nil
}

// withAssociations 预加载明细(按序号)、图书(含已删除)、用户
func (r *transactionRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Preload("Items.Book", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("User")
}

func toTransactionModel(t *transaction.Transaction) *TransactionModel {
	model := &TransactionModel{
		ID:          t.ID,
		UserID:      t.UserID,
		TotalAmount: t.TotalAmount,
		CreatedAt:   t.CreatedAt,
		Items:       make([]TransactionItemModel, 0, len(t.Items)),
	}
	for i, item := range t.Items {
		model.Items = append(model.Items, TransactionItemModel{
			ID:            item.ID,
			TransactionID: t.ID,
			Seq:           i,
			BookID:        item.BookID,
			Quantity:      item.Quantity,
			Price:         item.Price,
		})
	}
	return model
}

func toTransactionEntity(model *TransactionModel) *transaction.Transaction {
	t := &transaction.Transaction{
		ID:          model.ID,
		UserID:      model.UserID,
		TotalAmount: model.TotalAmount,
		CreatedAt:   model.CreatedAt,
		Items:       make([]transaction.Item, 0, len(model.Items)),
	}
	if model.User != nil {
		t.Username = model.User.Username
	}
	for _, item := range model.Items {
		entity := transaction.Item{
			ID:            item.ID,
			TransactionID: item.TransactionID,
			BookID:        item.BookID,
			Quantity:      item.Quantity,
			Price:         item.Price,
		}
		if item.Book != nil {
			entity.BookTitle = item.Book.Title
		}
		t.Items = append(t.Items, entity)
	}
	return t
}

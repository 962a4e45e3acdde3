package transaction

import (
	"context"

	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// Repository 交易仓储接口
// 交易只追加不修改,因此统计查询不会与写入产生行级竞争
type Repository interface {
	// Create 写入交易及其全部明细
	// 需要在TxManager.Transaction内与库存扣减一起调用
	Create(ctx context.Context, t *Transaction) error

	// FindByID 查询交易(含明细、书名、用户名),不存在时返回ErrTransactionNotFound
	FindByID(ctx context.Context, id string) (*Transaction, error)

	// List 按创建时间倒序分页查询
	List(ctx context.Context, params pagination.Params) ([]*Transaction, int64, error)

	// Count 交易总数
	Count(ctx context.Context) (int64, error)

	// AverageTotalAmount 平均交易金额,没有交易时为0
	AverageTotalAmount(ctx context.Context) (float64, error)

	// SumQuantityByBook 按图书汇总销量,按BookID升序返回(顺序固定)
	SumQuantityByBook(ctx context.Context) ([]BookQuantity, error)
}

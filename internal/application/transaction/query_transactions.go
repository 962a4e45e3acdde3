package transaction

import (
	"context"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// ListTransactionsUseCase 交易列表(按创建时间倒序)
type ListTransactionsUseCase struct {
	transactions transaction.Repository
}

// NewListTransactionsUseCase 创建列表用例
func NewListTransactionsUseCase(transactions transaction.Repository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactions: transactions}
}

// Execute 分页查询
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, params pagination.Params) (*ListTransactionsResponse, error) {
	params = params.Normalize()

	list, total, err := uc.transactions.List(ctx, params)
	if err != nil {
		return nil, err
	}

	resp := &ListTransactionsResponse{
		List: make([]TransactionResponse, len(list)),
		Meta: pagination.NewMeta(params, total),
	}
	for i, t := range list {
		resp.List[i] = toTransactionResponse(t)
	}
	return resp, nil
}

// GetTransactionUseCase 交易详情
type GetTransactionUseCase struct {
	transactions transaction.Repository
}

// NewGetTransactionUseCase 创建详情用例
func NewGetTransactionUseCase(transactions transaction.Repository) *GetTransactionUseCase {
	return &GetTransactionUseCase{transactions: transactions}
}

// Execute 查询单个交易,不存在时返回ErrTransactionNotFound
func (uc *GetTransactionUseCase) Execute(ctx context.Context, id string) (*TransactionResponse, error) {
	t, err := uc.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTransactionResponse(t)
	return &resp, nil
}

package dto

import "github.com/xiebiao/bookstore-api/internal/domain/transaction"

// CreateTransactionRequest HTTP下单请求
type CreateTransactionRequest struct {
	Items []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransactionItemRequest 购买行,同一本书可以出现多次(数量合并)
type TransactionItemRequest struct {
	BookID   string `json:"bookId" binding:"required" example:"6f1c2a8e-0b7e-4d5e-9f55-3c1d2b0a9e11"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=1000000" example:"2"`
}

// Lines 转换为领域层的购买行
func (r CreateTransactionRequest) Lines() []transaction.Line {
	lines := make([]transaction.Line, len(r.Items))
	for i, it := range r.Items {
		lines[i] = transaction.Line{BookID: it.BookID, Quantity: it.Quantity}
	}
	return lines
}

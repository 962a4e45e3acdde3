// Package book 图书用例
// 应用层只做编排和DTO转换,业务规则(价格、库存、重复、分类存在)在领域服务中
package book

import (
	"context"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// CreateBookUseCase 图书上架用例
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// CreateBookRequest 上架请求
type CreateBookRequest struct {
	Title           string
	Writer          string
	Publisher       string
	ISBN            string
	Description     string
	PublicationYear int
	Condition       string
	Price           int64
	StockQuantity   int
	GenreID         string
}

// CreateBookResponse 上架结果
// Restored=true表示恢复了一本已删除的同名图书
type CreateBookResponse struct {
	Book     BookResponse
	Restored bool
}

// Execute 执行上架
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	b, restored, err := uc.bookService.Create(ctx, book.Details{
		Title:           req.Title,
		Writer:          req.Writer,
		Publisher:       req.Publisher,
		ISBN:            req.ISBN,
		Description:     req.Description,
		PublicationYear: req.PublicationYear,
		Condition:       req.Condition,
		Price:           req.Price,
		StockQuantity:   req.StockQuantity,
		GenreID:         req.GenreID,
	})
	if err != nil {
		return nil, err
	}

	return &CreateBookResponse{Book: toBookResponse(b), Restored: restored}, nil
}

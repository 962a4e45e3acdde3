package book

import (
	"context"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// UpdateBookUseCase 图书部分更新用例
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 更新请求,nil字段保持原值
type UpdateBookRequest struct {
	ID    string
	Patch book.Patch
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.Update(ctx, req.ID, req.Patch)
	if err != nil {
		return nil, err
	}
	resp := toBookResponse(b)
	return &resp, nil
}

// DeleteBookUseCase 图书下架(软删除)用例
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

// Execute 执行下架
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) error {
	return uc.bookService.Delete(ctx, id)
}

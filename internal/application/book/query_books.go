package book

import (
	"context"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 查询详情,不存在或已删除时返回ErrBookNotFound
func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookResponse, error) {
	b, err := uc.bookService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toBookResponse(b)
	return &resp, nil
}

// ListBooksUseCase 图书列表查询用例
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page               pagination.Params
	GenreID            string // 非空时只查该分类,分类必须存在
	Search             string
	Condition          string
	OrderByTitle       string
	OrderByPublishDate string
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	page := req.Page.Normalize()
	params := book.ListParams{
		Page:               page,
		Search:             req.Search,
		Condition:          req.Condition,
		OrderByTitle:       req.OrderByTitle,
		OrderByPublishDate: req.OrderByPublishDate,
	}

	var (
		list  []*book.Book
		total int64
		err   error
	)
	if req.GenreID != "" {
		list, total, err = uc.bookService.ListByGenre(ctx, req.GenreID, params)
	} else {
		list, total, err = uc.bookService.List(ctx, params)
	}
	if err != nil {
		return nil, err
	}
	return toListResponse(list, total, page), nil
}

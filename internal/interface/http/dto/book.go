package dto

import (
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// CreateBookRequest HTTP上架请求
type CreateBookRequest struct {
	Title           string `json:"title" binding:"required,max=200" example:"三体"`
	Writer          string `json:"writer" binding:"required,max=100" example:"刘慈欣"`
	Publisher       string `json:"publisher" binding:"required,max=100" example:"重庆出版社"`
	ISBN            string `json:"isbn" binding:"omitempty,max=20" example:"9787536692930"`
	Description     string `json:"description" binding:"max=5000" example:"地球往事三部曲之一"`
	PublicationYear int    `json:"publicationYear" binding:"required,min=1450" example:"2008"`
	Condition       string `json:"condition" binding:"omitempty,oneof=NEW LIKE_NEW VERY_GOOD GOOD ACCEPTABLE POOR" example:"NEW"`
	Price           int64  `json:"price" binding:"required,min=1" example:"2300"` // 价格(分)
	StockQuantity   *int   `json:"stockQuantity" binding:"required,min=0" example:"10"`
	GenreID         string `json:"genreId" binding:"required" example:"6f1c2a8e-0b7e-4d5e-9f55-3c1d2b0a9e11"`
}

// UpdateBookRequest HTTP部分更新请求,未出现的字段保持原值
type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=200"`
	Writer          *string `json:"writer" binding:"omitempty,min=1,max=100"`
	Publisher       *string `json:"publisher" binding:"omitempty,min=1,max=100"`
	ISBN            *string `json:"isbn" binding:"omitempty,max=20"`
	Description     *string `json:"description" binding:"omitempty,max=5000"`
	PublicationYear *int    `json:"publicationYear" binding:"omitempty,min=1450"`
	Condition       *string `json:"condition" binding:"omitempty,oneof=NEW LIKE_NEW VERY_GOOD GOOD ACCEPTABLE POOR"`
	Price           *int64  `json:"price" binding:"omitempty,min=1"`
	StockQuantity   *int    `json:"stockQuantity" binding:"omitempty,min=0"`
	GenreID         *string `json:"genreId" binding:"omitempty,min=1"`
}

// Patch 转换为领域层的部分更新
func (r UpdateBookRequest) Patch() book.Patch {
	return book.Patch{
		Title:           r.Title,
		Writer:          r.Writer,
		Publisher:       r.Publisher,
		ISBN:            r.ISBN,
		Description:     r.Description,
		PublicationYear: r.PublicationYear,
		Condition:       r.Condition,
		Price:           r.Price,
		StockQuantity:   r.StockQuantity,
		GenreID:         r.GenreID,
	}
}

// ListBooksQuery 图书列表查询参数
// page/limit非法时回退为默认值,不报错
type ListBooksQuery struct {
	Page               string `form:"page" example:"1"`
	Limit              string `form:"limit" example:"10"`
	Search             string `form:"search" binding:"omitempty,max=100"`
	Condition          string `form:"condition" binding:"omitempty,oneof=NEW LIKE_NEW VERY_GOOD GOOD ACCEPTABLE POOR"`
	OrderByTitle       string `form:"orderByTitle" binding:"omitempty,oneof=asc desc"`
	OrderByPublishDate string `form:"orderByPublishDate" binding:"omitempty,oneof=asc desc"`
}

// Pagination 解析分页参数
func (q ListBooksQuery) Pagination() pagination.Params {
	return pagination.Parse(q.Page, q.Limit)
}

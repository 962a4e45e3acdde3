package book

import (
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// BookResponse 图书详情DTO
type BookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Writer          string    `json:"writer"`
	Publisher       string    `json:"publisher"`
	ISBN            string    `json:"isbn,omitempty"`
	Description     string    `json:"description"`
	PublicationYear int       `json:"publicationYear"`
	Condition       string    `json:"condition,omitempty"`
	Price           int64     `json:"price"` // 价格(分)
	StockQuantity   int       `json:"stockQuantity"`
	GenreID         string    `json:"genreId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ListBooksResponse 分页列表
type ListBooksResponse struct {
	List []BookResponse
	Meta pagination.Meta
}

func toBookResponse(b *book.Book) BookResponse {
	return BookResponse{
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
	}
}

func toListResponse(list []*book.Book, total int64, p pagination.Params) *ListBooksResponse {
	resp := &ListBooksResponse{
		List: make([]BookResponse, len(list)),
		Meta: pagination.NewMeta(p, total),
	}
	for i, b := range list {
		resp.List[i] = toBookResponse(b)
	}
	return resp
}

package dto

import "github.com/xiebiao/bookstore-api/pkg/pagination"

// GenreRequest 创建/重命名分类
type GenreRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"科幻"`
}

// ListGenresQuery 分类列表查询参数
type ListGenresQuery struct {
	Page        string `form:"page"`
	Limit       string `form:"limit"`
	Search      string `form:"search" binding:"omitempty,max=100"`
	OrderByName string `form:"orderByName" binding:"omitempty,oneof=asc desc"`
}

// Pagination 解析分页参数
func (q ListGenresQuery) Pagination() pagination.Params {
	return pagination.Parse(q.Page, q.Limit)
}

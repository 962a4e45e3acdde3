package pagination

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params 分页参数
type Params struct {
	Page  int
	Limit int
}

// Parse 从查询字符串解析分页参数，非法值回退为默认值
func Parse(page, limit string) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	if v, err := strconv.Atoi(page); err == nil && v >= 1 {
		p.Page = v
	}
	if v, err := strconv.Atoi(limit); err == nil && v >= 1 && v <= MaxLimit {
		p.Limit = v
	}
	return p
}

// Normalize 修正越界参数（仓储层直接使用前调用）
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta 分页元信息
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Prev       *int  `json:"prev"`
	Next       *int  `json:"next"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta 根据总数生成分页元信息，没有上一页/下一页时对应字段为null
func NewMeta(p Params, total int64) Meta {
	p = p.Normalize()
	totalPages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		totalPages++
	}

	meta := Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
	if p.Page > 1 {
		prev := p.Page - 1
		meta.Prev = &prev
	}
	if p.Page < totalPages {
		next := p.Page + 1
		meta.Next = &next
	}
	return meta
}

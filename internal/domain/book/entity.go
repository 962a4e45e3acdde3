package book

import (
	"time"

	"github.com/google/uuid"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 价格使用int64存储最小货币单位(避免浮点数精度问题)
// 2. StockQuantity永远不能为负数,扣减库存只通过仓储的条件更新完成
// 3. GenreID只保存分类ID,不直接引用Genre对象(避免跨聚合引用)
// 4. DeletedAt非空表示已软删除
type Book struct {
	ID              string
	Title           string
	Writer          string // 作者
	Publisher       string // 出版社
	ISBN            string
	Description     string
	PublicationYear int
	Condition       string // 品相,取值见Conditions,可以为空
	Price           int64
	StockQuantity   int
	GenreID         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// 品相
const (
	ConditionNew        = "NEW"
	ConditionLikeNew    = "LIKE_NEW"
	ConditionVeryGood   = "VERY_GOOD"
	ConditionGood       = "GOOD"
	ConditionAcceptable = "ACCEPTABLE"
	ConditionPoor       = "POOR"
)

// Conditions 全部合法品相
var Conditions = []string{
	ConditionNew, ConditionLikeNew, ConditionVeryGood,
	ConditionGood, ConditionAcceptable, ConditionPoor,
}

// MinPublicationYear 出版年份下限
const MinPublicationYear = 1450

// Details 创建或恢复图书时的完整属性
type Details struct {
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

// Patch 部分更新,nil字段保持原值
type Patch struct {
	Title           *string
	Writer          *string
	Publisher       *string
	ISBN            *string
	Description     *string
	PublicationYear *int
	Condition       *string
	Price           *int64
	StockQuantity   *int
	GenreID         *string
}

// NewBook 创建新图书(工厂方法,调用方需先校验Details)
func NewBook(d Details) *Book {
	now := time.Now()
	b := &Book{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	b.apply(d)
	b.UpdatedAt = now
	return b
}

// Restore 恢复已软删除的图书,并用新属性覆盖
func (b *Book) Restore(d Details) {
	b.apply(d)
	b.DeletedAt = nil
	b.UpdatedAt = time.Now()
}

// ApplyPatch 应用部分更新
func (b *Book) ApplyPatch(p Patch) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Writer != nil {
		b.Writer = *p.Writer
	}
	if p.Publisher != nil {
		b.Publisher = *p.Publisher
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.PublicationYear != nil {
		b.PublicationYear = *p.PublicationYear
	}
	if p.Condition != nil {
		b.Condition = *p.Condition
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.StockQuantity != nil {
		b.StockQuantity = *p.StockQuantity
	}
	if p.GenreID != nil {
		b.GenreID = *p.GenreID
	}
	b.UpdatedAt = time.Now()
}

// DecrStock 扣减库存
// 业务规则:扣减后库存不能为负数
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.StockQuantity < quantity {
		return ErrInsufficientStock
	}
	b.StockQuantity -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// HasStock 当前库存是否满足数量
func (b *Book) HasStock(quantity int) bool {
	return b.StockQuantity >= quantity
}

// IsDeleted 是否已软删除
func (b *Book) IsDeleted() bool {
	return b.DeletedAt != nil
}

func (b *Book) apply(d Details) {
	b.Title = d.Title
	b.Writer = d.Writer
	b.Publisher = d.Publisher
	b.ISBN = d.ISBN
	b.Description = d.Description
	b.PublicationYear = d.PublicationYear
	b.Condition = d.Condition
	b.Price = d.Price
	b.StockQuantity = d.StockQuantity
	b.GenreID = d.GenreID
}

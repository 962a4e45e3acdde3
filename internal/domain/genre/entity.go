package genre

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Genre 图书分类实体
// 设计说明:
// 1. ID使用UUID字符串,由应用生成(不依赖数据库自增)
// 2. DeletedAt非空表示已软删除,普通查询默认排除
type Genre struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewGenre 创建分类(工厂方法)
func NewGenre(name string) *Genre {
	now := time.Now()
	return &Genre{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 修改名称
func (g *Genre) Rename(name string) {
	g.Name = strings.TrimSpace(name)
	g.UpdatedAt = time.Now()
}

// IsDeleted 是否已软删除
func (g *Genre) IsDeleted() bool {
	return g.DeletedAt != nil
}

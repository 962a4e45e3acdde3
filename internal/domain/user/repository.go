package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence层
// 3. 便于单元测试（内存实现或Mock此接口）
type Repository interface {
	// Create 创建用户
	// 注意：如果邮箱或用户名已存在，应返回ErrUserDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail 根据邮箱查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}

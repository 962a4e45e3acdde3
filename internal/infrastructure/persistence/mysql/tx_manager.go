package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 嵌套调用时GORM自动使用Savepoint
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内的所有Repository操作都在同一事务中执行,
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT。
// 提交阶段遇到死锁/锁等待超时会转换为ConflictError。
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := bookRepo.DecrementStock(ctx, bookID, quantity); err != nil {
//	        return err // 自动回滚
//	    }
//	    return transactionRepo.Create(ctx, t)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil && !apperrors.IsAppError(err) && isConflictError(err) {
		return apperrors.Conflict(err)
	}
	if err != nil && !apperrors.IsAppError(err) && !errors.Is(err, context.Canceled) {
		return apperrors.Wrap(err, "数据库事务失败")
	}
	return err
}

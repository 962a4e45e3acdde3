package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL错误码
const (
	errDuplicateEntry  = 1062 // Duplicate entry 'xxx' for key 'yyy'
	errLockWaitTimeout = 1205 // Lock wait timeout exceeded
	errDeadlock        = 1213 // Deadlock found when trying to get lock
)

// isDuplicateError 判断是否为唯一索引冲突错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errDuplicateEntry
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// isConflictError 判断是否为并发冲突(死锁、锁等待超时)
// 这类错误说明事务因并发修改无法完成,整个事务已回滚,调用方可以重试
func isConflictError(err error) bool {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errDeadlock || myErr.Number == errLockWaitTimeout
	}
	return false
}

type txKey struct{}

// getDB 获取DB实例(优先使用context中的事务DB)
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

func toDeletedAt(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func fromDeletedAt(t *time.Time) gorm.DeletedAt {
	if t == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *t, Valid: true}
}

// orderDirection 只接受asc/desc,防止SQL注入
func orderDirection(dir string) string {
	if strings.EqualFold(dir, "asc") {
		return "ASC"
	}
	return "DESC"
}

package book

import (
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在(或已删除)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrBookDuplicate 同名同作者同出版社的图书已存在
	ErrBookDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "图书已存在")

	// ErrTitleDuplicate 书名已被其他图书使用
	ErrTitleDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "书名已存在")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.Validation(apperrors.FieldError{Msg: "数量必须大于0", Path: "quantity"})

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.ErrInsufficientStock

	// ErrStockConflict 条件扣减未命中任何行(库存已被并发修改)
	ErrStockConflict = apperrors.New(apperrors.ErrCodeConflict, "库存已被并发修改")
)

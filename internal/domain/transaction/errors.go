package transaction

import (
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// 交易领域错误定义
var (
	// ErrTransactionNotFound 交易不存在
	ErrTransactionNotFound = apperrors.New(apperrors.ErrCodeTransactionNotFound, "交易不存在")

	// ErrBooksNotFound 购买的图书不存在或已下架(NotFound时会附带缺失的ID)
	ErrBooksNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在或已下架")
)

package genre

import (
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrGenreNotFound 分类不存在(或已删除)
	ErrGenreNotFound = apperrors.New(apperrors.ErrCodeGenreNotFound, "分类不存在")

	// ErrGenreDuplicate 分类名称已存在
	ErrGenreDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名称已存在")
)

// MaxNameLength 分类名称最大长度(字符数)
const MaxNameLength = 100

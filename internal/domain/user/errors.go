package user

import (
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrUserDuplicate 邮箱或用户名已被注册
	ErrUserDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱或用户名已被注册")
)

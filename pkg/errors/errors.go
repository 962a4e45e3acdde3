package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，前三位即HTTP状态码（42200 -> 422），见Status()
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
// 4. Details只在参数校验失败时出现，逐个指出出错字段
type AppError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details []FieldError   `json:"details,omitempty"`
	Meta    map[string]any `json:"-"` // 附加上下文（缺失的ID、库存数量等），用于日志
}

// FieldError 单个字段的校验错误，对外输出为 {msg, path}
type FieldError struct {
	Msg  string `json:"msg"`
	Path string `json:"path"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 同一类错误可能携带不同的Message/Details（如NotFound附带具体ID），
// 只要Code相同就认为是同一个错误。
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Status 由业务码推导HTTP状态码
func (e *AppError) Status() int {
	status := e.Code / 100
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WithMessage 复制一份错误并替换提示信息（不修改预定义错误本身）
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// WithMeta 复制一份错误并附加上下文
func (e *AppError) WithMeta(key string, value any) *AppError {
	cp := *e
	cp.Meta = make(map[string]any, len(e.Meta)+1)
	for k, v := range e.Meta {
		cp.Meta[k] = v
	}
	cp.Meta[key] = value
	return &cp
}

// WithCause 复制一份错误并记录内部原因
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：业务码 = HTTP状态码 * 100 + 序号
// - 400xx: 业务规则错误（库存不足等）
// - 401xx: 认证错误
// - 404xx: 资源不存在
// - 409xx: 冲突（重复记录、并发修改）
// - 422xx: 参数校验失败
// - 500xx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 业务规则错误（40000-40099）
	ErrCodeBadRequest        = 40000 // 请求错误(通用)
	ErrCodeInsufficientStock = 40001 // 库存不足
	ErrCodeBindError         = 40002 // 请求体格式错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 账号或密码错误

	// 资源错误（40400-40499）
	ErrCodeNotFound            = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound        = 40401 // 用户不存在
	ErrCodeBookNotFound        = 40402 // 图书不存在
	ErrCodeTransactionNotFound = 40403 // 交易不存在
	ErrCodeGenreNotFound       = 40404 // 分类不存在

	// 冲突错误（40900-40999）
	ErrCodeConflict       = 40900 // 并发冲突，可重试
	ErrCodeDuplicateEntry = 40901 // 重复记录(通用)
	ErrCodeEmailDuplicate = 40902 // 邮箱或用户名已存在

	// 参数校验错误（42200-42299）
	ErrCodeValidation = 42200 // 参数校验失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")

	// 通用
	ErrNotFound          = New(ErrCodeNotFound, "资源不存在")
	ErrConflict          = New(ErrCodeConflict, "数据已被并发修改，请重试")
	ErrDuplicateEntry    = New(ErrCodeDuplicateEntry, "记录已存在")
	ErrInsufficientStock = New(ErrCodeInsufficientStock, "库存不足")
	ErrValidation        = New(ErrCodeValidation, "参数校验失败")
	ErrBindError         = New(ErrCodeBindError, "请求体格式错误")
)

// =========================================
// 按错误种类构造
// =========================================

// Validation 参数校验失败（422），附带出错字段列表
func Validation(details ...FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: ErrValidation.Message,
		Details: details,
	}
}

// NotFound 基于预定义的"不存在"错误，附加全部缺失的ID
func NotFound(base *AppError, ids ...string) *AppError {
	if len(ids) == 0 {
		return base
	}
	err := base.WithMessage(fmt.Sprintf("%s: %s", base.Message, strings.Join(ids, ", ")))
	return err.WithMeta("ids", ids)
}

// InsufficientStock 库存不足（400），指明是哪本书
func InsufficientStock(bookID, title string, requested, available int) *AppError {
	err := ErrInsufficientStock.WithMessage(
		fmt.Sprintf("《%s》库存不足: 需要%d, 剩余%d", title, requested, available))
	return err.WithMeta("book_id", bookID).
		WithMeta("requested", requested).
		WithMeta("available", available)
}

// Conflict 并发冲突（409），调用方可原样重试
func Conflict(err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: ErrConflict.Message,
		Err:     err,
	}
}

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternal.Message)
}

// IsUnexpected 是否为服务端错误（需要记录日志、不向客户端暴露细节）
func IsUnexpected(err error) bool {
	return GetAppError(err).Status() >= http.StatusInternalServerError
}

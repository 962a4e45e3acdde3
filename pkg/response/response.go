package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/logger"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// Response 统一响应结构
// 设计说明：
// 1. Success标识成功或失败，HTTP状态码与之一致（201创建、422校验失败...）
// 2. Message是用户友好的提示信息
// 3. Data成功时是业务数据，校验失败时是 [{msg, path}] 字段错误列表
// 4. Meta只在分页列表中出现
type Response struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    interface{}      `json:"data,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, message string, list interface{}, meta pagination.Meta) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    list,
		Meta:    &meta,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	resp, err := useCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.Status()

	// 5xx: 完整记录内部错误，对外只给通用提示
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("request_id", c.GetString(logger.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Any("meta", appErr.Meta),
			zap.Error(appErr.Err),
		)
		c.AbortWithStatusJSON(status, Response{
			Success: false,
			Message: apperrors.ErrInternal.Message,
		})
		return
	}

	resp := Response{
		Success: false,
		Message: appErr.Message,
	}
	if len(appErr.Details) > 0 {
		resp.Data = appErr.Details
	}
	c.AbortWithStatusJSON(status, resp)
}

package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/logger"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// Recovery 捕获panic,记录堆栈并返回统一的500响应
func Recovery(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.L()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.String("request_id", c.GetString(logger.RequestIDKey)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, apperrors.Wrap(fmt.Errorf("panic: %v", r), apperrors.ErrInternal.Message))
			}
		}()
		c.Next()
	}
}

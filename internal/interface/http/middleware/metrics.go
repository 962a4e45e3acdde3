package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-api/pkg/metrics"
)

// Metrics 记录HTTP请求数、耗时和并发数
// path使用路由模板(/api/v1/books/:id),避免标签基数爆炸
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/pkg/metrics"
)

// Metrics HTTP请求指标采集中间件
// 使用路由模板(c.FullPath)而非原始URL作为path标签,避免 /books/1、/books/2
// 产生无限多的标签值(Prometheus高基数问题)
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 未注册的路由(404)FullPath为空,统一归到"unmatched"
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		start := time.Now()
		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Inc()
		}

		c.Next()

		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Dec()
		}
		if metrics.HTTPRequestsTotal != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(
				c.Request.Method,
				path,
				strconv.Itoa(c.Writer.Status()),
			).Inc()
		}
		if metrics.HTTPRequestDuration != nil {
			metrics.HTTPRequestDuration.WithLabelValues(
				c.Request.Method,
				path,
			).Observe(time.Since(start).Seconds())
		}
	}
}

package config

import (
	"time"

	"vertigo-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequestThreshold = 200 * time.Millisecond

func PerformanceLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		}
		if tenant, ok := c.Get(utils.ContextTenantID); ok {
			fields = append(fields, zap.Any("tenant", tenant))
		}

		log.Info("http request", fields...)
		if latency > slowRequestThreshold {
			log.Warn("slow request", fields...)
		}
	}
}

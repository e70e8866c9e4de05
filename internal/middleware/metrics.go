package middleware

import (
	"time"

	"github.com/cleberrangel/jira-insights-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics rastreia métricas das requisições
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start).Milliseconds()
		statusCode := c.Writer.Status()
		success := statusCode < 400

		metrics.Get().IncrementRequests(success, latency)

		// Métricas por endpoint usam a rota registrada, não o path bruto
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.Get().TrackEndpoint(path, c.Request.Method, statusCode, latency)
	}
}

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"crosslaunch-workers/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessFunc reports per-dependency status and whether all are ready.
type ReadinessFunc func(ctx context.Context) (map[string]string, bool)

type RouterOptions struct {
	Mode      string
	Version   string
	Analyzer  Analyzer
	Readiness ReadinessFunc
	Logger    logger.Logger
}

// NewRouter builds the gin engine serving the analysis API and the probes.
func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))

	router.GET("/health", healthHandler(opts.Version))
	router.GET("/ready", readyHandler(opts.Readiness))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := NewOpportunityHandler(opts.Analyzer, opts.Logger)
	router.POST("/api/check-opportunity", h.CheckOpportunity)

	return router
}

func healthHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func readyHandler(readiness ReadinessFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if readiness == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}

		checks, ready := readiness(c.Request.Context())
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "checks": checks})
	}
}

// requestLogger logs one line per request; probe and scrape traffic at debug.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
			"clientIp":   c.ClientIP(),
		}

		switch {
		case len(c.Errors) > 0:
			fields["errors"] = c.Errors.Errors()
			log.Warn("HTTP request with errors", fields)
		case path == "/health" || path == "/ready" || strings.HasPrefix(path, "/metrics"):
			log.Debug("HTTP request", fields)
		default:
			log.Info("HTTP request", fields)
		}
	}
}

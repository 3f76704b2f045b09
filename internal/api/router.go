package api

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"KifuBrowser/internal/config"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// NewRouter 注册所有路由
func NewRouter(cfg *config.ServerConfig, handler *PageHandler, logger *logrus.Logger) *gin.Engine {
	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	// debug 模式下注册 pprof 方便排查
	if cfg.Mode == gin.DebugMode {
		pprof.Register(r)
	}

	r.GET("/", handler.Index)
	r.POST("/select", handler.Select)
	r.GET("/download/:ordinal", handler.Download)
	r.POST("/refresh", handler.Refresh)
	r.GET("/api/matches", handler.ListMatches)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// requestLogger 用 logrus 输出访问日志
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request")
			return
		}
		entry.Debug("request")
	}
}

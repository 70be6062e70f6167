package common

import (
	"net/http"
	"os"

	"bizz_marketplace/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CommonModule registers operational endpoints shared by all domains.
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // initialize last
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	setupRoutes(ctx)
	return nil
}

func setupRoutes(ctx *registry.ModuleContext) {
	r := ctx.Router

	r.GET("/health", func(c *gin.Context) {
		hostname, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"service":  "bizz-marketplace",
			"hostname": hostname,
		})
	})

	r.GET("/health/db", func(c *gin.Context) {
		sqlDB, err := ctx.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "postgres unavailable"})
			return
		}
		if err := ctx.Redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "postgres": "connected", "redis": "connected"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

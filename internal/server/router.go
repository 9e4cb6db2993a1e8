// Package server assembles the gin engine: global middleware, the health and
// metrics probes, and the account routes under /banque.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/banque/internal/config"
	"github.com/eaglebank/banque/internal/handler"
	"github.com/eaglebank/banque/internal/metrics"
	"github.com/eaglebank/banque/internal/middleware"
)

// BasePath prefixes every account route.
const BasePath = "/banque"

// NewRouter guards BasePath with bearer auth when cfg enables it. The health
// and metrics probes stay public.
func NewRouter(cfg *config.Config, accounts *handler.AccountHandler) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.LoggingMiddleware(),
		metrics.Middleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	banque := router.Group(BasePath)
	if cfg.AuthEnabled() {
		banque.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
	}
	accounts.Routes(banque)

	return router
}

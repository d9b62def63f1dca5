package server

import (
	"net/http"
	"time"

	"github.com/danmuck/neobuild/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Status) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": "neobuild",
			"version": Version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	runs := s.router.Group("/runs")
	if s.token != "" {
		runs.Use(auth.Middleware(auth.StaticToken{Token: s.token}))
	}

	runs.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"runs": s.recorder.Snapshot()})
	})

	runs.GET("/:id", func(c *gin.Context) {
		run, ok := s.recorder.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, run)
	})
}

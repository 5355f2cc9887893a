// Package api serves a workbook over HTTP with gin.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Version is the path prefix of every API route.
const Version = "v1"

const dependentsPath = "dependents"

// NewRouter wires controller to its routes.
func NewRouter(controller *Controller, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	group := router.Group("/api/" + Version)
	group.GET("/:sheet_id/:cell_id/"+dependentsPath, controller.DependentsAction)
	group.POST("/:sheet_id/:cell_id", controller.SetCellAction)
	group.GET("/:sheet_id/:cell_id", controller.GetCellAction)
	group.GET("/:sheet_id", controller.GetSheetAction)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "health")
	})

	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

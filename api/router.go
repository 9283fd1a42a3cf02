package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_insights/internal/sales"
)

// InitRoutes registers the report endpoints on the given Gin engine.
// Every endpoint that takes filters reads them from the query string
// and runs the pipeline against the service's cached dataset.
func InitRoutes(e *gin.Engine, salesService *sales.Service, logger *zap.Logger, allowOrigins []string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	corsConfig := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "ETag", requestIDHeader}

	e.Use(requestLogger(logger), cors.New(corsConfig))

	salesHandler := NewSalesHandler(salesService, logger)

	e.GET("/options", salesHandler.handleOptions)
	e.GET("/kpis", salesHandler.handleKPIs)
	e.GET("/dashboard", salesHandler.handleDashboard)
	e.GET("/reports/:name", salesHandler.handleReport)
	e.GET("/reports/:name/csv", salesHandler.handleReportCSV)
	e.GET("/records", salesHandler.handleRecords)
	e.GET("/records/csv", salesHandler.handleRecordsCSV)
	e.POST("/reload", salesHandler.handleReload)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

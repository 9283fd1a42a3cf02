package main

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_insights/api"
	"sales_insights/internal/config"
	"sales_insights/internal/sales"
)

func main() {
	cfg, err := config.New(".env")
	if err != nil {
		panic(fmt.Errorf("error reading configuration: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("error creating logger: %v", err))
	}
	defer logger.Sync()

	salesService := sales.NewService(sales.NewFileCache(nil), logger, cfg.DataPath)

	// The dataset must be readable before serving; reports are never built from partial data.
	ds, err := salesService.Dataset()
	if err != nil {
		if errors.Is(err, sales.ErrDataSourceNotFound) {
			logger.Fatal("could not find data file", zap.String("path", cfg.DataPath))
		}
		logger.Fatal("failed to load data file", zap.String("path", cfg.DataPath), zap.Error(err))
	}
	logger.Info("dataset loaded",
		zap.String("source", ds.Source),
		zap.Int("records", len(ds.Records)),
		zap.Int("extra_columns", len(ds.Schema.Extras)),
	)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.InitRoutes(r, salesService, logger, cfg.CORSOrigins)

	logger.Info("server listening", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}

// Package server exposes the evaluation-and-render engine over HTTP. The
// engine owns all non-trivial logic; handlers only bind input, map error
// kinds to status codes and shape the PNG-plus-headers response.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sigmaforge/SixSigmaCharter/src/config"
	"github.com/sigmaforge/SixSigmaCharter/src/engine"
)

// NewRouter builds the gin engine with middleware, metrics and routes.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog())

	eng := engine.New(engine.Config{
		MaxBatch: cfg.MaxBatch,
		Single:   cfg.Single,
		Multi:    cfg.Multi,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := NewMetrics(reg)

	SetupRoutes(router, eng, m, reg)
	return router
}

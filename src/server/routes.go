package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sigmaforge/SixSigmaCharter/src/engine"
)

// SetupRoutes wires all HTTP routes onto router.
func SetupRoutes(router *gin.Engine, eng *engine.Engine, m *Metrics, reg *prometheus.Registry) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/healthz")
	})
	router.GET("/healthz", HealthHandler)
	router.GET("/chart", ChartHandler(eng, m))
	router.POST("/charts", ChartsHandler(eng, m))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}

// Package http wires the gin route tree and the API server around it.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/prometheus"
	"github.com/x-ordo/evidentia/internal/interfaces/http/handlers"
	"github.com/x-ordo/evidentia/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies the
// route tree needs.  Nil optional fields disable the matching feature.
type RouterConfig struct {
	CaseHandler     *handlers.CaseHandler
	AnalysisHandler *handlers.AnalysisHandler
	HealthHandler   *handlers.HealthHandler

	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector
	CORS      *middleware.CORSConfig
}

// NewRouter builds the full route tree: health and metrics endpoints at the
// root, the JSON API under /api/v1.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	registerCaseRoutes(api, cfg.CaseHandler)
	registerAnalysisRoutes(api, cfg.AnalysisHandler)
	return r
}

func registerCaseRoutes(api *gin.RouterGroup, h *handlers.CaseHandler) {
	if h == nil {
		return
	}
	cases := api.Group("/cases")
	cases.POST("", h.Create)
	cases.GET("", h.List)
	cases.GET("/:caseID", h.Get)
	cases.PUT("/:caseID/property", h.SetProperty)
	cases.POST("/:caseID/close", h.Close)

	cases.PUT("/:caseID/transcript", h.UploadTranscript)

	cases.POST("/:caseID/evidence", h.AddEvidence)
	cases.GET("/:caseID/evidence", h.ListEvidence)
	cases.DELETE("/:caseID/evidence/:evidenceID", h.RemoveEvidence)
	cases.PUT("/:caseID/evidence/:evidenceID/attachment", h.UploadAttachment)
	cases.GET("/:caseID/evidence/:evidenceID/attachment", h.DownloadAttachment)
}

func registerAnalysisRoutes(api *gin.RouterGroup, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	cases := api.Group("/cases/:caseID")
	cases.POST("/analysis", h.Analyze)
	cases.POST("/analysis/async", h.RequestAnalysis)
	cases.GET("/analysis", h.GetAnalysis)
	cases.POST("/prediction", h.Predict)
	cases.GET("/prediction", h.GetPrediction)
}

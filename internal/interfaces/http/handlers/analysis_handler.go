package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler serves transcript analysis and division prediction.
type AnalysisHandler struct {
	service CaseService
}

// NewAnalysisHandler builds the handler.
func NewAnalysisHandler(service CaseService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze handles POST /cases/:caseID/analysis.  The transcript is scored
// synchronously and the persisted result returned.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	result, err := h.service.AnalyzeCase(c.Request.Context(), caseIDParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RequestAnalysis handles POST /cases/:caseID/analysis/async.  The case is
// queued for the worker fleet and 202 returned immediately.
func (h *AnalysisHandler) RequestAnalysis(c *gin.Context) {
	if err := h.service.RequestAnalysis(c.Request.Context(), caseIDParam(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"case_id": c.Param("caseID"), "status": "ANALYZING"})
}

// GetAnalysis handles GET /cases/:caseID/analysis.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	result, err := h.service.GetAnalysis(c.Request.Context(), caseIDParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Predict handles POST /cases/:caseID/prediction.
func (h *AnalysisHandler) Predict(c *gin.Context) {
	pred, err := h.service.PredictDivision(c.Request.Context(), caseIDParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

// GetPrediction handles GET /cases/:caseID/prediction.
func (h *AnalysisHandler) GetPrediction(c *gin.Context) {
	pred, err := h.service.GetPrediction(c.Request.Context(), caseIDParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

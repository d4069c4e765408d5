package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/x-ordo/evidentia/internal/domain/caserecord"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// CaseHandler serves case lifecycle, transcript and evidence endpoints.
type CaseHandler struct {
	service CaseService
}

// NewCaseHandler builds the handler.
func NewCaseHandler(service CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

type createCaseRequest struct {
	Title         string `json:"title" binding:"required"`
	PlaintiffName string `json:"plaintiff_name" binding:"required"`
	DefendantName string `json:"defendant_name" binding:"required"`
}

// Create handles POST /cases.
func (h *CaseHandler) Create(c *gin.Context) {
	var req createCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.service.CreateCase(c.Request.Context(), req.Title, req.PlaintiffName, req.DefendantName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /cases/:caseID.
func (h *CaseHandler) Get(c *gin.Context) {
	found, err := h.service.GetCase(c.Request.Context(), caseIDParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

type listCasesResponse struct {
	Cases  []*caserecord.Case `json:"cases"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// List handles GET /cases with optional status, limit and offset parameters.
func (h *CaseHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := caserecord.ListFilter{Limit: limit, Offset: offset}
	if v := c.Query("status"); v != "" {
		status := caserecord.Status(v)
		switch status {
		case caserecord.StatusOpen, caserecord.StatusAnalyzing, caserecord.StatusAnalyzed, caserecord.StatusClosed:
			filter.Status = &status
		default:
			respondError(c, errors.Newf(errors.ErrCodeBadRequest, "unknown case status %q", v))
			return
		}
	}

	cases, total, err := h.service.ListCases(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listCasesResponse{Cases: cases, Total: total, Limit: limit, Offset: offset})
}

type setPropertyRequest struct {
	TotalAssets int64 `json:"total_assets"`
	TotalDebts  int64 `json:"total_debts"`
}

// SetProperty handles PUT /cases/:caseID/property.
func (h *CaseHandler) SetProperty(c *gin.Context) {
	var req setPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.service.SetProperty(c.Request.Context(), caseIDParam(c), req.TotalAssets, req.TotalDebts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Close handles POST /cases/:caseID/close.
func (h *CaseHandler) Close(c *gin.Context) {
	if err := h.service.CloseCase(c.Request.Context(), caseIDParam(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type uploadTranscriptRequest struct {
	Messages []types.Message `json:"messages" binding:"required"`
}

// UploadTranscript handles PUT /cases/:caseID/transcript.  A re-upload
// replaces the previous transcript.
func (h *CaseHandler) UploadTranscript(c *gin.Context) {
	var req uploadTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.service.UploadTranscript(c.Request.Context(), caseIDParam(c), req.Messages)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type addEvidenceRequest struct {
	EvidenceType    types.EvidenceType `json:"evidence_type" binding:"required"`
	LegalCategories []string           `json:"legal_categories" binding:"required"`
	FaultParty      common.Party       `json:"fault_party" binding:"required"`
	Description     string             `json:"description"`
}

// AddEvidence handles POST /cases/:caseID/evidence.
func (h *CaseHandler) AddEvidence(c *gin.Context) {
	var req addEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}
	item, err := h.service.AddEvidence(c.Request.Context(), caseIDParam(c),
		req.EvidenceType, req.LegalCategories, req.FaultParty, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListEvidence handles GET /cases/:caseID/evidence.
func (h *CaseHandler) ListEvidence(c *gin.Context) {
	items, err := h.service.ListEvidence(c.Request.Context(), caseIDParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evidence": items, "count": len(items)})
}

// RemoveEvidence handles DELETE /cases/:caseID/evidence/:evidenceID.
func (h *CaseHandler) RemoveEvidence(c *gin.Context) {
	err := h.service.RemoveEvidence(c.Request.Context(), caseIDParam(c), common.ID(c.Param("evidenceID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAttachment handles PUT /cases/:caseID/evidence/:evidenceID/attachment.
// The raw file travels in the request body; Content-Type carries its type.
func (h *CaseHandler) UploadAttachment(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read attachment body"))
		return
	}
	item, err := h.service.AttachFile(c.Request.Context(), caseIDParam(c),
		common.ID(c.Param("evidenceID")), c.ContentType(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DownloadAttachment handles GET /cases/:caseID/evidence/:evidenceID/attachment.
// It returns a presigned URL instead of streaming the bytes.
func (h *CaseHandler) DownloadAttachment(c *gin.Context) {
	url, err := h.service.AttachmentDownloadURL(c.Request.Context(), caseIDParam(c),
		common.ID(c.Param("evidenceID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

// Package handlers exposes the case-analysis use cases over JSON HTTP.
package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/x-ordo/evidentia/internal/application/caseanalysis"
	"github.com/x-ordo/evidentia/internal/domain/caserecord"
	"github.com/x-ordo/evidentia/internal/domain/evidence"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// CaseService is the slice of the application service the handlers call.
// *caseanalysis.Service satisfies it; tests plug in stubs.
type CaseService interface {
	CreateCase(ctx context.Context, title, plaintiffName, defendantName string) (*caserecord.Case, error)
	GetCase(ctx context.Context, id common.ID) (*caserecord.Case, error)
	ListCases(ctx context.Context, filter caserecord.ListFilter) ([]*caserecord.Case, int64, error)
	SetProperty(ctx context.Context, id common.ID, totalAssets, totalDebts int64) (*caserecord.Case, error)
	CloseCase(ctx context.Context, id common.ID) error

	UploadTranscript(ctx context.Context, caseID common.ID, msgs []types.Message) (*caserecord.Case, error)
	AddEvidence(ctx context.Context, caseID common.ID, et types.EvidenceType, categories []string, faultParty common.Party, description string) (*evidence.Item, error)
	ListEvidence(ctx context.Context, caseID common.ID) ([]*evidence.Item, error)
	RemoveEvidence(ctx context.Context, caseID, evidenceID common.ID) error
	AttachFile(ctx context.Context, caseID, evidenceID common.ID, contentType string, data []byte) (*evidence.Item, error)
	AttachmentDownloadURL(ctx context.Context, caseID, evidenceID common.ID) (string, error)

	RequestAnalysis(ctx context.Context, caseID common.ID) error
	AnalyzeCase(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error)
	GetAnalysis(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error)
	PredictDivision(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error)
	GetPrediction(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error)
}

var _ CaseService = (*caseanalysis.Service)(nil)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status via the error
// code table.  5xx bodies are masked so internals do not leak to callers.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	message := err.Error()
	if status >= 500 {
		message = "internal server error"
	}
	c.JSON(status, ErrorResponse{Code: string(code), Message: message})
}

// caseIDParam reads the :caseID path parameter.
func caseIDParam(c *gin.Context) common.ID {
	return common.ID(c.Param("caseID"))
}

// parsePagination extracts limit/offset query parameters with sane bounds.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

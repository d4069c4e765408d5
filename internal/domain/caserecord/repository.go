package caserecord

import (
	"context"

	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// ListFilter narrows a case listing.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Repository is the persistence port for cases.  Implementations return
// ErrCodeCaseNotFound for missing ids and ErrCodeCaseAlreadyExists on
// duplicate inserts.
type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id common.ID) (*Case, error)
	Update(ctx context.Context, c *Case) error
	Delete(ctx context.Context, id common.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Case, int64, error)
}

// AnalysisRepository persists analysis artefacts per case.  Only the latest
// result and prediction per case are retained; a re-analysis overwrites.
type AnalysisRepository interface {
	SaveResult(ctx context.Context, result *types.AnalysisResult) error
	GetResult(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error)
	SavePrediction(ctx context.Context, caseID common.ID, prediction *types.DivisionPrediction) error
	GetPrediction(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error)
}

// TranscriptStore is the object-storage port for raw transcripts.  The
// transcript body is stored out of band; only its object key travels through
// the relational schema.
type TranscriptStore interface {
	Put(ctx context.Context, caseID common.ID, msgs []types.Message) (objectKey string, err error)
	Get(ctx context.Context, objectKey string) ([]types.Message, error)
	Delete(ctx context.Context, objectKey string) error
}

package caseanalysis

import (
	"context"

	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// ResultCache is the read-through cache port in front of AnalysisRepository.
// A cache miss returns (nil, nil); only transport failures return an error.
type ResultCache interface {
	GetAnalysis(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error)
	SetAnalysis(ctx context.Context, result *types.AnalysisResult) error
	GetPrediction(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error)
	SetPrediction(ctx context.Context, caseID common.ID, prediction *types.DivisionPrediction) error
	Invalidate(ctx context.Context, caseID common.ID) error
}

// EventPublisher emits analysis lifecycle events to the message bus.
type EventPublisher interface {
	PublishAnalysisRequested(ctx context.Context, caseID common.ID) error
	PublishAnalysisCompleted(ctx context.Context, result *types.AnalysisResult) error
}

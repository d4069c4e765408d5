// Package engine orchestrates the full per-case analysis: batch scoring,
// risk triage and the denormalised summary, combined into one AnalysisResult.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/x-ordo/evidentia/internal/analysis/risk"
	"github.com/x-ordo/evidentia/internal/analysis/scoring"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// defaultHighValueThreshold marks the score above which a message counts as
// high-value evidence.
const defaultHighValueThreshold = 6.0

// Option customises an Engine.
type Option func(*Engine)

// WithHighValueThreshold overrides the high-value score cutoff.
func WithHighValueThreshold(v float64) Option {
	return func(e *Engine) {
		if v > 0 {
			e.highValueThreshold = v
		}
	}
}

// Engine runs the complete evidentiary analysis over a case transcript.
// Safe for concurrent use.
type Engine struct {
	scorer             *scoring.Scorer
	risk               *risk.Analyzer
	log                logging.Logger
	highValueThreshold float64
}

// NewEngine constructs an analysis engine.
func NewEngine(scorer *scoring.Scorer, riskAnalyzer *risk.Analyzer, log logging.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	e := &Engine{
		scorer:             scorer,
		risk:               riskAnalyzer,
		log:                log.Named("engine"),
		highValueThreshold: defaultHighValueThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AnalyzeCase scores every message, runs the risk scan once over the whole
// corpus and assembles the result.  An empty transcript yields a zero result
// with a LOW risk level rather than an error.
func (e *Engine) AnalyzeCase(ctx context.Context, caseID common.ID, msgs []types.Message) (*types.AnalysisResult, error) {
	if caseID == "" {
		return nil, errors.NewValidationError("case_id", "must not be empty")
	}

	analyzedAt := time.Now().UTC()
	if len(msgs) == 0 {
		return &types.AnalysisResult{
			CaseID:            caseID,
			TotalMessages:     0,
			AverageScore:      0,
			HighValueMessages: []types.ScoringResult{},
			RiskAssessment:    e.risk.Analyze(nil),
			Summary: types.AnalysisSummary{
				RiskLevel: common.RiskLow,
			},
			AnalyzedAt: analyzedAt,
		}, nil
	}

	scores, err := e.scorer.ScoreBatch(ctx, msgs)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "message scoring aborted")
	}

	var total float64
	highValue := make([]types.ScoringResult, 0)
	distinct := make(map[string]bool)
	for _, sr := range scores {
		total += sr.Score
		if sr.Score >= e.highValueThreshold {
			highValue = append(highValue, sr)
		}
		for _, kw := range sr.MatchedKeywords {
			distinct[kw] = true
		}
	}
	avg := round2(total / float64(len(msgs)))

	assessment := e.risk.Analyze(msgs)

	result := &types.AnalysisResult{
		CaseID:            caseID,
		TotalMessages:     len(msgs),
		AverageScore:      avg,
		HighValueMessages: highValue,
		RiskAssessment:    assessment,
		Summary: types.AnalysisSummary{
			TotalMessages:    len(msgs),
			AverageScore:     avg,
			HighValueCount:   len(highValue),
			RiskLevel:        assessment.RiskLevel,
			RiskFactorCount:  len(assessment.RiskFactors),
			DistinctKeywords: len(distinct),
		},
		AnalyzedAt: analyzedAt,
	}

	e.log.WithContext(ctx).Info("case analyzed",
		logging.String(logging.FieldCaseID, string(caseID)),
		logging.Int("total_messages", result.TotalMessages),
		logging.Float64("average_score", result.AverageScore),
		logging.Int("high_value_count", len(highValue)),
		logging.String("risk_level", string(assessment.RiskLevel)))
	return result, nil
}

// round2 rounds to two decimal places, the display precision of the API.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	"github.com/x-ordo/evidentia/internal/analysis/risk"
	"github.com/x-ordo/evidentia/internal/analysis/scoring"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

func newEngine(opts ...Option) *Engine {
	lex := lexicon.NewDefault()
	return NewEngine(scoring.NewScorer(lex), risk.NewAnalyzer(), logging.NewNopLogger(), opts...)
}

func msgs(contents ...string) []types.Message {
	out := make([]types.Message, len(contents))
	for i, c := range contents {
		out[i] = types.Message{Content: c, Sender: "원고", Timestamp: time.Now()}
	}
	return out
}

func TestAnalyzeCase_EmptyCaseID(t *testing.T) {
	e := newEngine()

	_, err := e.AnalyzeCase(context.Background(), "", msgs("이혼하자"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestAnalyzeCase_EmptyTranscript(t *testing.T) {
	e := newEngine()

	got, err := e.AnalyzeCase(context.Background(), "case-1", nil)
	require.NoError(t, err)
	assert.Equal(t, common.ID("case-1"), got.CaseID)
	assert.Zero(t, got.TotalMessages)
	assert.Zero(t, got.AverageScore)
	assert.Empty(t, got.HighValueMessages)
	assert.Equal(t, common.RiskLow, got.RiskAssessment.RiskLevel)
	assert.Equal(t, common.RiskLow, got.Summary.RiskLevel)
	assert.False(t, got.AnalyzedAt.IsZero())
}

func TestAnalyzeCase_HighValueMessagesSelected(t *testing.T) {
	e := newEngine()

	// First message scores well above the 6.0 cutoff (violence + medical),
	// second is noise.
	got, err := e.AnalyzeCase(context.Background(), "case-1", msgs(
		"폭행을 당해서 병원에서 진단서를 받았습니다",
		"오늘 날씨가 좋네요",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalMessages)
	require.Len(t, got.HighValueMessages, 1)
	assert.GreaterOrEqual(t, got.HighValueMessages[0].Score, 6.0)
	assert.Contains(t, got.HighValueMessages[0].MatchedKeywords, "폭행")
}

func TestAnalyzeCase_AverageRoundedToTwoDecimals(t *testing.T) {
	e := newEngine()

	// Scores 8.0 and 0.0 over 3 messages: 8/3 = 2.666… → 2.67.
	got, err := e.AnalyzeCase(context.Background(), "case-1", msgs(
		"폭행을 당해서 병원에서 진단서를 받았습니다",
		"알겠습니다",
		"네",
	))
	require.NoError(t, err)
	assert.Equal(t, 2.67, got.AverageScore)
	assert.Equal(t, got.AverageScore, got.Summary.AverageScore)
}

func TestAnalyzeCase_RiskAssessmentIncluded(t *testing.T) {
	e := newEngine()

	got, err := e.AnalyzeCase(context.Background(), "case-1", msgs("한 번만 더 그러면 죽이겠다"))
	require.NoError(t, err)
	assert.Equal(t, common.RiskCritical, got.RiskAssessment.RiskLevel)
	assert.Contains(t, got.RiskAssessment.RiskFactors, "threat")
	assert.Equal(t, common.RiskCritical, got.Summary.RiskLevel)
	assert.Equal(t, len(got.RiskAssessment.RiskFactors), got.Summary.RiskFactorCount)
}

func TestAnalyzeCase_SummaryCountsMatch(t *testing.T) {
	e := newEngine()

	in := msgs(
		"이혼 소송을 진행하려고 합니다",
		"불륜 증거가 있습니다",
		"재산분할도 문제예요",
	)
	got, err := e.AnalyzeCase(context.Background(), "case-1", in)
	require.NoError(t, err)

	assert.Equal(t, len(in), got.Summary.TotalMessages)
	assert.Equal(t, len(got.HighValueMessages), got.Summary.HighValueCount)
	assert.Positive(t, got.Summary.DistinctKeywords)
}

func TestAnalyzeCase_CustomThreshold(t *testing.T) {
	e := newEngine(WithHighValueThreshold(1.0))

	got, err := e.AnalyzeCase(context.Background(), "case-1", msgs("이혼하고 싶어"))
	require.NoError(t, err)
	require.Len(t, got.HighValueMessages, 1)
}

func TestAnalyzeCase_CancelledContext(t *testing.T) {
	e := newEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.AnalyzeCase(ctx, "case-1", msgs("이혼"))
	assert.Error(t, err)
}

func TestAnalyzeCase_Idempotent(t *testing.T) {
	e := newEngine()
	in := msgs("폭행을 당했습니다", "병원 진단서가 있습니다")

	first, err := e.AnalyzeCase(context.Background(), "case-1", in)
	require.NoError(t, err)
	second, err := e.AnalyzeCase(context.Background(), "case-1", in)
	require.NoError(t, err)

	first.AnalyzedAt = second.AnalyzedAt
	assert.Equal(t, first, second)
}

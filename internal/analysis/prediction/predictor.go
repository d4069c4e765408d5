// Package prediction aggregates evidence impacts into a property-division
// forecast.  The baseline is an equal 50:50 split; each impact shifts it
// sequentially, and adjudicated precedents from the vector index corroborate
// (or fail to corroborate) the result.
package prediction

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/x-ordo/evidentia/internal/analysis/impact"
	"github.com/x-ordo/evidentia/internal/domain/precedent"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

const (
	defaultTopK          = 5
	defaultSearchTimeout = 3 * time.Second
)

// ConfidencePolicy holds the thresholds grading a prediction.  HIGH needs
// several well-corroborated impacts plus precedents that agree with each
// other; MEDIUM needs at least one impact with either decent corroboration or
// any precedent.
type ConfidencePolicy struct {
	HighMinImpacts      int
	HighMinConfidence   float64
	HighMinPrecedents   int
	HighMaxRatioSpread  float64
	MediumMinConfidence float64
}

// DefaultConfidencePolicy returns the calibrated thresholds.
func DefaultConfidencePolicy() ConfidencePolicy {
	return ConfidencePolicy{
		HighMinImpacts:      3,
		HighMinConfidence:   0.7,
		HighMinPrecedents:   3,
		HighMaxRatioSpread:  10.0,
		MediumMinConfidence: 0.6,
	}
}

// PropertyProfile is the marital estate under division, in won.
type PropertyProfile struct {
	TotalAssets int64 `json:"total_assets"`
	TotalDebts  int64 `json:"total_debts"`
}

// Net returns assets minus debts.
func (p PropertyProfile) Net() int64 { return p.TotalAssets - p.TotalDebts }

// Option customises a Predictor.
type Option func(*Predictor)

// WithTopK sets how many precedents are requested from the index.
func WithTopK(k int) Option {
	return func(p *Predictor) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithSearchTimeout bounds the precedent lookup.  On expiry the prediction
// degrades to an uncorroborated one instead of failing.
func WithSearchTimeout(d time.Duration) Option {
	return func(p *Predictor) {
		if d > 0 {
			p.searchTimeout = d
		}
	}
}

// WithConfidencePolicy overrides the grading thresholds.  Zero-valued fields
// keep their defaults, so a config block may set only what it cares about.
func WithConfidencePolicy(cp ConfidencePolicy) Option {
	return func(p *Predictor) {
		if cp.HighMinImpacts > 0 {
			p.policy.HighMinImpacts = cp.HighMinImpacts
		}
		if cp.HighMinConfidence > 0 {
			p.policy.HighMinConfidence = cp.HighMinConfidence
		}
		if cp.HighMinPrecedents > 0 {
			p.policy.HighMinPrecedents = cp.HighMinPrecedents
		}
		if cp.HighMaxRatioSpread > 0 {
			p.policy.HighMaxRatioSpread = cp.HighMaxRatioSpread
		}
		if cp.MediumMinConfidence > 0 {
			p.policy.MediumMinConfidence = cp.MediumMinConfidence
		}
	}
}

// Predictor computes division forecasts.  Safe for concurrent use.
type Predictor struct {
	impacts       *impact.Analyzer
	searcher      precedent.Searcher
	log           logging.Logger
	topK          int
	searchTimeout time.Duration
	policy        ConfidencePolicy
}

// NewPredictor constructs a Predictor.  searcher may be nil, in which case
// every prediction is uncorroborated.
func NewPredictor(ia *impact.Analyzer, searcher precedent.Searcher, log logging.Logger, opts ...Option) *Predictor {
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &Predictor{
		impacts:       ia,
		searcher:      searcher,
		log:           log.Named("prediction"),
		topK:          defaultTopK,
		searchTimeout: defaultSearchTimeout,
		policy:        DefaultConfidencePolicy(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict produces the division forecast for one case.
//
// The ratio starts at 50 plaintiff points and each impact is applied in
// order, clamping to [0,100] after every step so that a run of one-sided
// evidence saturates instead of overflowing.  The final plaintiff and
// defendant ratios always sum to 100, and the amount split is exact:
// plaintiff receives the integer-division remainder.
func (p *Predictor) Predict(ctx context.Context, caseID common.ID, evidences []types.Evidence, property PropertyProfile) (*types.DivisionPrediction, error) {
	impacts := p.impacts.AnalyzeAll(evidences)

	ratio := 50.0
	for _, imp := range impacts {
		ratio += imp.ImpactValue
		if ratio > 100 {
			ratio = 100
		}
		if ratio < 0 {
			ratio = 0
		}
	}

	plaintiffRatio := int(math.Round(ratio))
	if plaintiffRatio > 100 {
		plaintiffRatio = 100
	}
	if plaintiffRatio < 0 {
		plaintiffRatio = 0
	}
	defendantRatio := 100 - plaintiffRatio

	similar := p.searchPrecedents(ctx, caseID, impacts)

	net := property.Net()
	defendantAmount := net * int64(defendantRatio) / 100
	plaintiffAmount := net - defendantAmount

	return &types.DivisionPrediction{
		TotalPropertyValue: property.TotalAssets,
		TotalDebtValue:     property.TotalDebts,
		NetValue:           net,
		PlaintiffRatio:     plaintiffRatio,
		DefendantRatio:     defendantRatio,
		PlaintiffAmount:    plaintiffAmount,
		DefendantAmount:    defendantAmount,
		EvidenceImpacts:    impacts,
		SimilarCases:       similar,
		ConfidenceLevel:    p.confidenceLevel(impacts, similar),
		PredictedAt:        time.Now().UTC(),
	}, nil
}

// searchPrecedents queries the vector index for cases with the same fault
// profile.  Lookup failures degrade the prediction rather than failing it.
func (p *Predictor) searchPrecedents(ctx context.Context, caseID common.ID, impacts []types.EvidenceImpact) []types.SimilarCase {
	if p.searcher == nil || len(impacts) == 0 {
		return nil
	}
	faults := distinctFaults(impacts)

	sctx, cancel := context.WithTimeout(ctx, p.searchTimeout)
	defer cancel()

	similar, err := p.searcher.SearchByFaultTypes(sctx, faults, p.topK)
	if err != nil {
		p.log.WithContext(ctx).WithError(err).Warn("precedent search failed, prediction degraded",
			logging.String(logging.FieldCaseID, string(caseID)))
		return nil
	}
	return similar
}

func distinctFaults(impacts []types.EvidenceImpact) []types.FaultType {
	seen := make(map[types.FaultType]bool, len(impacts))
	var out []types.FaultType
	for _, imp := range impacts {
		if !seen[imp.FaultType] {
			seen[imp.FaultType] = true
			out = append(out, imp.FaultType)
		}
	}
	return out
}

// confidenceLevel grades a prediction:
//
//	HIGH   — several impacts with strong mean confidence, corroborated by
//	         precedents whose plaintiff ratios cluster tightly.
//	MEDIUM — at least one impact backed by decent confidence or any precedent.
//	LOW    — everything else, including the evidence-free baseline.
func (p *Predictor) confidenceLevel(impacts []types.EvidenceImpact, similar []types.SimilarCase) types.ConfidenceLevel {
	if len(impacts) == 0 {
		return types.ConfidenceLow
	}

	confs := make([]float64, len(impacts))
	for i, imp := range impacts {
		confs[i] = imp.Confidence
	}
	meanConf := stat.Mean(confs, nil)

	if len(impacts) >= p.policy.HighMinImpacts && meanConf >= p.policy.HighMinConfidence && len(similar) >= p.policy.HighMinPrecedents {
		ratios := make([]float64, len(similar))
		for i, sc := range similar {
			ratios[i] = float64(sc.DivisionRatio.Plaintiff)
		}
		if stat.StdDev(ratios, nil) <= p.policy.HighMaxRatioSpread {
			return types.ConfidenceHigh
		}
	}

	if meanConf >= p.policy.MediumMinConfidence || len(similar) > 0 {
		return types.ConfidenceMedium
	}
	return types.ConfidenceLow
}

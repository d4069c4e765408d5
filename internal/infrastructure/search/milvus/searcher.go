package milvus

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
)

const defaultTopK = 5

// PrecedentSearcher answers fault-profile similarity queries against the
// precedent collection.  It satisfies the domain's precedent.Searcher port.
type PrecedentSearcher struct {
	client *Client
	logger logging.Logger
	topK   int
}

// SearcherOption customizes a PrecedentSearcher.
type SearcherOption func(*PrecedentSearcher)

// WithDefaultTopK sets the result count used when the caller passes topK <= 0.
func WithDefaultTopK(k int) SearcherOption {
	return func(s *PrecedentSearcher) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewPrecedentSearcher wraps a connected client.
func NewPrecedentSearcher(c *Client, log logging.Logger, opts ...SearcherOption) *PrecedentSearcher {
	s := &PrecedentSearcher{
		client: c,
		logger: log.Named("precedent-searcher"),
		topK:   defaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchByFaultTypes embeds the fault profile and returns the closest
// adjudicated rulings, best match first.
func (s *PrecedentSearcher) SearchByFaultTypes(ctx context.Context, faultTypes []types.FaultType, topK int) ([]types.SimilarCase, error) {
	if len(faultTypes) == 0 {
		return []types.SimilarCase{}, nil
	}
	if topK <= 0 {
		topK = s.topK
	}

	vector := faultProfileVector(faultTypes, s.client.embeddingDim)
	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to build search param")
	}

	results, err := s.client.api.Search(ctx,
		s.client.collection,
		nil,
		"",
		[]string{fieldCaseRef, fieldCourt, fieldDecisionTS, fieldPlaintiffRatio, fieldKeyFactors},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldEmbedding,
		entity.IP,
		topK,
		sp,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "precedent search failed")
	}

	cases := make([]types.SimilarCase, 0, topK)
	for _, result := range results {
		mapped, err := s.mapResult(result)
		if err != nil {
			return nil, err
		}
		cases = append(cases, mapped...)
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].SimilarityScore > cases[j].SimilarityScore
	})
	if len(cases) > topK {
		cases = cases[:topK]
	}

	s.logger.Debug("precedent search done",
		logging.Int("faults", len(faultTypes)),
		logging.Int("hits", len(cases)))
	return cases, nil
}

func (s *PrecedentSearcher) mapResult(result client.SearchResult) ([]types.SimilarCase, error) {
	caseRefs := result.Fields.GetColumn(fieldCaseRef)
	courts := result.Fields.GetColumn(fieldCourt)
	decisionTSs := result.Fields.GetColumn(fieldDecisionTS)
	ratios := result.Fields.GetColumn(fieldPlaintiffRatio)
	keyFactors := result.Fields.GetColumn(fieldKeyFactors)
	if caseRefs == nil || courts == nil || decisionTSs == nil || ratios == nil || keyFactors == nil {
		return nil, errors.New(errors.ErrCodePrecedentIndexDown, "search result misses expected columns")
	}

	cases := make([]types.SimilarCase, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		caseRef, err := caseRefs.GetAsString(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to read case_ref column")
		}
		court, err := courts.GetAsString(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to read court column")
		}
		decisionTS, err := decisionTSs.GetAsInt64(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to read decision_ts column")
		}
		plaintiffRatio, err := ratios.GetAsInt64(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to read plaintiff_ratio column")
		}
		factorsJSON, err := keyFactors.GetAsString(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to read key_factors column")
		}

		var factors []string
		if err := json.Unmarshal([]byte(factorsJSON), &factors); err != nil {
			s.logger.Warn("malformed key_factors payload, dropping",
				logging.String("case_ref", caseRef))
			factors = nil
		}

		score := float64(0)
		if i < len(result.Scores) {
			score = float64(result.Scores[i])
		}
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		plaintiff := clampRatio(int(plaintiffRatio))
		cases = append(cases, types.SimilarCase{
			CaseRef:      caseRef,
			Court:        court,
			DecisionDate: time.Unix(decisionTS, 0).UTC(),
			DivisionRatio: types.DivisionRatio{
				Plaintiff: plaintiff,
				Defendant: 100 - plaintiff,
			},
			KeyFactors:      factors,
			SimilarityScore: score,
		})
	}
	return cases, nil
}

func clampRatio(r int) int {
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// faultProfileVector turns a fault set into a sparse, L2-normalized vector.
// Each fault type lights up three hash-derived positions, so profiles sharing
// fault types overlap and inner-product scores land in [0, 1].
func faultProfileVector(faultTypes []types.FaultType, dim int) []float32 {
	if dim <= 0 {
		dim = 1
	}
	vector := make([]float32, dim)
	for _, ft := range faultTypes {
		h := fnv.New32a()
		h.Write([]byte(ft))
		sum := h.Sum32()
		vector[sum%uint32(dim)] += 1
		vector[(sum>>8)%uint32(dim)] += 1
		vector[(sum>>16)%uint32(dim)] += 1
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vector
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vector {
		vector[i] *= scale
	}
	return vector
}

// Package precedent defines the port to the adjudicated-case vector index.
// The division predictor consumes this interface; the Milvus adapter under
// internal/infrastructure/search/milvus implements it.
package precedent

import (
	"context"

	types "github.com/x-ordo/evidentia/pkg/types/analysis"
)

// Searcher retrieves adjudicated precedents similar to a fault profile.
//
// Contract: results come back sorted by SimilarityScore descending, at most
// topK of them, and every returned DivisionRatio sums to 100.  An empty fault
// set returns an empty slice, not an error.
type Searcher interface {
	SearchByFaultTypes(ctx context.Context, faultTypes []types.FaultType, topK int) ([]types.SimilarCase, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, faultTypes []types.FaultType, topK int) ([]types.SimilarCase, error)

// SearchByFaultTypes calls f.
func (f SearcherFunc) SearchByFaultTypes(ctx context.Context, faultTypes []types.FaultType, topK int) ([]types.SimilarCase, error) {
	return f(ctx, faultTypes, topK)
}

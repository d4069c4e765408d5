package milvus

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
)

const (
	fieldID             = "id"
	fieldCaseRef        = "case_ref"
	fieldCourt          = "court"
	fieldDecisionTS     = "decision_ts"
	fieldPlaintiffRatio = "plaintiff_ratio"
	fieldKeyFactors     = "key_factors"
	fieldFaultTypes     = "fault_types"
	fieldEmbedding      = "embedding"
)

// Precedent is one adjudicated ruling to be indexed.
type Precedent struct {
	CaseRef       string
	Court         string
	DecisionDate  time.Time
	DivisionRatio types.DivisionRatio
	KeyFactors    []string
	FaultTypes    []types.FaultType
}

// EnsureCollection creates the precedent collection, its vector index and
// loads it into memory.  Safe to call on every startup.
func (c *Client) EnsureCollection(ctx context.Context) error {
	has, err := c.api.HasCollection(ctx, c.collection)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to check collection")
	}
	if !has {
		schema := &entity.Schema{
			CollectionName: c.collection,
			Description:    "adjudicated division rulings keyed by fault profile",
			Fields: []*entity.Field{
				{Name: fieldID, DataType: entity.FieldTypeInt64, PrimaryKey: true, AutoID: true},
				{Name: fieldCaseRef, DataType: entity.FieldTypeVarChar, TypeParams: map[string]string{entity.TypeParamMaxLength: "64"}},
				{Name: fieldCourt, DataType: entity.FieldTypeVarChar, TypeParams: map[string]string{entity.TypeParamMaxLength: "128"}},
				{Name: fieldDecisionTS, DataType: entity.FieldTypeInt64},
				{Name: fieldPlaintiffRatio, DataType: entity.FieldTypeInt64},
				{Name: fieldKeyFactors, DataType: entity.FieldTypeVarChar, TypeParams: map[string]string{entity.TypeParamMaxLength: "2048"}},
				{Name: fieldFaultTypes, DataType: entity.FieldTypeVarChar, TypeParams: map[string]string{entity.TypeParamMaxLength: "512"}},
				{Name: fieldEmbedding, DataType: entity.FieldTypeFloatVector, TypeParams: map[string]string{entity.TypeParamDim: strconv.Itoa(c.embeddingDim)}},
			},
		}

		if err := c.api.CreateCollection(ctx, schema, 1); err != nil {
			return errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to create collection")
		}

		idx, err := entity.NewIndexHNSW(entity.IP, 16, 200)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to build index definition")
		}
		if err := c.api.CreateIndex(ctx, c.collection, fieldEmbedding, idx, false); err != nil {
			return errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to create index")
		}
		c.logger.Info("precedent collection created",
			logging.String("collection", c.collection))
	}

	if err := c.api.LoadCollection(ctx, c.collection, false); err != nil {
		return errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to load collection")
	}
	return nil
}

// InsertPrecedents indexes a batch of rulings.  Embeddings are derived from
// each ruling's fault profile so look-alike fault patterns cluster together.
func (c *Client) InsertPrecedents(ctx context.Context, precedents []Precedent) error {
	if len(precedents) == 0 {
		return nil
	}

	caseRefs := make([]string, 0, len(precedents))
	courts := make([]string, 0, len(precedents))
	decisionTSs := make([]int64, 0, len(precedents))
	ratios := make([]int64, 0, len(precedents))
	keyFactors := make([]string, 0, len(precedents))
	faultTypes := make([]string, 0, len(precedents))
	vectors := make([][]float32, 0, len(precedents))

	for _, p := range precedents {
		factorsJSON, err := json.Marshal(p.KeyFactors)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal key factors")
		}
		faultsJSON, err := json.Marshal(p.FaultTypes)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal fault types")
		}
		caseRefs = append(caseRefs, p.CaseRef)
		courts = append(courts, p.Court)
		decisionTSs = append(decisionTSs, p.DecisionDate.Unix())
		ratios = append(ratios, int64(p.DivisionRatio.Plaintiff))
		keyFactors = append(keyFactors, string(factorsJSON))
		faultTypes = append(faultTypes, string(faultsJSON))
		vectors = append(vectors, faultProfileVector(p.FaultTypes, c.embeddingDim))
	}

	_, err := c.api.Insert(ctx, c.collection, "",
		entity.NewColumnVarChar(fieldCaseRef, caseRefs),
		entity.NewColumnVarChar(fieldCourt, courts),
		entity.NewColumnInt64(fieldDecisionTS, decisionTSs),
		entity.NewColumnInt64(fieldPlaintiffRatio, ratios),
		entity.NewColumnVarChar(fieldKeyFactors, keyFactors),
		entity.NewColumnVarChar(fieldFaultTypes, faultTypes),
		entity.NewColumnFloatVector(fieldEmbedding, c.embeddingDim, vectors),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to insert precedents")
	}
	if err := c.api.Flush(ctx, c.collection, false); err != nil {
		return errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to flush collection")
	}

	c.logger.Info("precedents indexed",
		logging.String("collection", c.collection),
		logging.Int("count", len(precedents)))
	return nil
}

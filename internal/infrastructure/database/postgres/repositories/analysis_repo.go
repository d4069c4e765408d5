package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	apperrors "github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// AnalysisRepository persists analysis results and division predictions as
// JSONB documents keyed by case.  Upserts keep only the latest artefact.
type AnalysisRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAnalysisRepository constructs a ready-to-use AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool, log logging.Logger) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, logger: log}
}

func (r *AnalysisRepository) SaveResult(ctx context.Context, result *types.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to encode analysis result")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO analysis_results (case_id, result, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (case_id) DO UPDATE SET result = EXCLUDED.result, created_at = now()`,
		result.CaseID, data,
	)
	if err != nil {
		return wrapQueryError(err, "failed to save analysis result")
	}
	return nil
}

func (r *AnalysisRepository) GetResult(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT result FROM analysis_results WHERE case_id = $1`, caseID,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.Newf(apperrors.ErrCodeAnalysisNotFound, "no analysis for case %s", caseID)
		}
		return nil, wrapQueryError(err, "failed to query analysis result")
	}
	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to decode analysis result")
	}
	return &result, nil
}

func (r *AnalysisRepository) SavePrediction(ctx context.Context, caseID common.ID, prediction *types.DivisionPrediction) error {
	data, err := json.Marshal(prediction)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to encode prediction")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO division_predictions (case_id, prediction, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (case_id) DO UPDATE SET prediction = EXCLUDED.prediction, created_at = now()`,
		caseID, data,
	)
	if err != nil {
		return wrapQueryError(err, "failed to save prediction")
	}
	return nil
}

func (r *AnalysisRepository) GetPrediction(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT prediction FROM division_predictions WHERE case_id = $1`, caseID,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.Newf(apperrors.ErrCodeAnalysisNotFound, "no prediction for case %s", caseID)
		}
		return nil, wrapQueryError(err, "failed to query prediction")
	}
	var pred types.DivisionPrediction
	if err := json.Unmarshal(data, &pred); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to decode prediction")
	}
	return &pred, nil
}

package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/x-ordo/evidentia/internal/domain/evidence"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	apperrors "github.com/x-ordo/evidentia/pkg/errors"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

const evidenceColumns = `id, case_id, evidence_type, legal_categories,
	fault_party, description, attachment_key, created_at`

// EvidenceRepository persists evidence items in PostgreSQL.
type EvidenceRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewEvidenceRepository constructs a ready-to-use EvidenceRepository.
func NewEvidenceRepository(pool *pgxpool.Pool, log logging.Logger) *EvidenceRepository {
	return &EvidenceRepository{pool: pool, logger: log}
}

func (r *EvidenceRepository) Add(ctx context.Context, item *evidence.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evidence_items (`+evidenceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		item.ID, item.CaseID, item.EvidenceType, item.LegalCategories,
		item.FaultParty, item.Description, item.AttachmentKey, item.CreatedAt,
	)
	if err != nil {
		return wrapQueryError(err, "failed to insert evidence item")
	}
	return nil
}

func (r *EvidenceRepository) GetByID(ctx context.Context, id common.ID) (*evidence.Item, error) {
	var item evidence.Item
	err := r.pool.QueryRow(ctx,
		`SELECT `+evidenceColumns+` FROM evidence_items WHERE id = $1`, id,
	).Scan(
		&item.ID, &item.CaseID, &item.EvidenceType, &item.LegalCategories,
		&item.FaultParty, &item.Description, &item.AttachmentKey, &item.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.Newf(apperrors.ErrCodeEvidenceNotFound, "evidence %s not found", id)
		}
		return nil, wrapQueryError(err, "failed to query evidence item")
	}
	return &item, nil
}

func (r *EvidenceRepository) ListByCase(ctx context.Context, caseID common.ID) ([]*evidence.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+evidenceColumns+` FROM evidence_items WHERE case_id = $1 ORDER BY created_at`, caseID)
	if err != nil {
		return nil, wrapQueryError(err, "failed to list evidence items")
	}
	defer rows.Close()

	var items []*evidence.Item
	for rows.Next() {
		var item evidence.Item
		if err := rows.Scan(
			&item.ID, &item.CaseID, &item.EvidenceType, &item.LegalCategories,
			&item.FaultParty, &item.Description, &item.AttachmentKey, &item.CreatedAt,
		); err != nil {
			return nil, wrapQueryError(err, "failed to scan evidence row")
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, "failed to iterate evidence rows")
	}
	return items, nil
}

func (r *EvidenceRepository) SetAttachmentKey(ctx context.Context, id common.ID, objectKey string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE evidence_items SET attachment_key = $2 WHERE id = $1`, id, objectKey)
	if err != nil {
		return wrapQueryError(err, "failed to set attachment key")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrCodeEvidenceNotFound, "evidence %s not found", id)
	}
	return nil
}

func (r *EvidenceRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM evidence_items WHERE id = $1`, id)
	if err != nil {
		return wrapQueryError(err, "failed to delete evidence item")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrCodeEvidenceNotFound, "evidence %s not found", id)
	}
	return nil
}

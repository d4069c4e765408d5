package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/x-ordo/evidentia/internal/domain/caserecord"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	apperrors "github.com/x-ordo/evidentia/pkg/errors"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

const caseColumns = `id, title, plaintiff_name, defendant_name, status,
	total_assets, total_debts, transcript_key, created_at, updated_at`

// CaseRepository persists cases in PostgreSQL.
type CaseRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCaseRepository constructs a ready-to-use CaseRepository.
func NewCaseRepository(pool *pgxpool.Pool, log logging.Logger) *CaseRepository {
	return &CaseRepository{pool: pool, logger: log}
}

func (r *CaseRepository) Create(ctx context.Context, c *caserecord.Case) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cases (`+caseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.Title, c.PlaintiffName, c.DefendantName, c.Status,
		c.TotalAssets, c.TotalDebts, c.TranscriptKey, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Newf(apperrors.ErrCodeCaseAlreadyExists, "case %s already exists", c.ID)
		}
		return wrapQueryError(err, "failed to insert case")
	}
	return nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id common.ID) (*caserecord.Case, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id)
	c, err := scanCase(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.Newf(apperrors.ErrCodeCaseNotFound, "case %s not found", id)
		}
		return nil, wrapQueryError(err, "failed to query case")
	}
	return c, nil
}

func (r *CaseRepository) Update(ctx context.Context, c *caserecord.Case) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cases SET
			title = $2, plaintiff_name = $3, defendant_name = $4, status = $5,
			total_assets = $6, total_debts = $7, transcript_key = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Title, c.PlaintiffName, c.DefendantName, c.Status,
		c.TotalAssets, c.TotalDebts, c.TranscriptKey, c.UpdatedAt,
	)
	if err != nil {
		return wrapQueryError(err, "failed to update case")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrCodeCaseNotFound, "case %s not found", c.ID)
	}
	return nil
}

func (r *CaseRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return wrapQueryError(err, "failed to delete case")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrCodeCaseNotFound, "case %s not found", id)
	}
	return nil
}

func (r *CaseRepository) List(ctx context.Context, filter caserecord.ListFilter) ([]*caserecord.Case, int64, error) {
	where := ``
	args := []interface{}{}
	if filter.Status != nil {
		where = ` WHERE status = $1`
		args = append(args, *filter.Status)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM cases`+where, args...).Scan(&total); err != nil {
		return nil, 0, wrapQueryError(err, "failed to count cases")
	}

	limitPos := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM cases%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		caseColumns, where, limitPos, limitPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapQueryError(err, "failed to list cases")
	}
	defer rows.Close()

	var cases []*caserecord.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, wrapQueryError(err, "failed to scan case row")
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapQueryError(err, "failed to iterate case rows")
	}
	return cases, total, nil
}

func scanCase(row pgx.Row) (*caserecord.Case, error) {
	var c caserecord.Case
	err := row.Scan(
		&c.ID, &c.Title, &c.PlaintiffName, &c.DefendantName, &c.Status,
		&c.TotalAssets, &c.TotalDebts, &c.TranscriptKey, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

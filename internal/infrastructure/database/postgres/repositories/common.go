// Package repositories provides the PostgreSQL-backed implementations of the
// domain repository ports.
package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/x-ordo/evidentia/pkg/errors"
)

const uniqueViolation = "23505"

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func wrapQueryError(err error, msg string) error {
	return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, msg)
}

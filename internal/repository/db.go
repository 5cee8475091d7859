package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
// It is satisfied by pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	ErrNotFound         = errors.New("record not found")
	ErrReferenceMissing = errors.New("referenced record does not exist")
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError converts driver errors to repository sentinels. dup is returned for
// unique violations so each table can report its own conflict.
func mapError(err error, dup error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if dup != nil {
				return dup
			}
		case pgForeignKeyViolation:
			return ErrReferenceMissing
		}
	}
	return err
}

// expectOne turns a zero-row UPDATE/DELETE into ErrNotFound.
func expectOne(tag pgconn.CommandTag, err error, dup error) error {
	if err != nil {
		return mapError(err, dup)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// likePattern wraps a search term for a case-insensitive ILIKE match.
func likePattern(q string) string {
	return "%" + q + "%"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

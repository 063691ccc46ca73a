package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/tasktracker/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// classify turns constraint violations into domain errors so callers do not retry them.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return domain.WrapError(domain.ErrCodeConflict, "duplicate "+pgErr.ConstraintName, err)
	case pgForeignKeyViolation:
		return domain.WrapError(domain.ErrCodeNotFound, "referenced row does not exist", err)
	case pgCheckViolation:
		return domain.WrapError(domain.ErrCodeInvalid, "value rejected by "+pgErr.ConstraintName, err)
	}
	return err
}

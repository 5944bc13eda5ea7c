package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned on reads and updates against an unknown key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on creation against an existing unique key.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConstraint is returned on dangling foreign keys and check failures.
	ErrConstraint = errors.New("constraint violation")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapError translates postgres constraint failures to the store's sentinel
// errors so callers never depend on driver types.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation, pgCheckViolation:
			return ErrConstraint
		}
	}
	return err
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	invalidTextRepCode      = "22P02"
)

// MapError translates a driver error into the store's error vocabulary.
//
//   - sql.ErrNoRows becomes store.ErrNotFound
//   - unique violations become store.ErrDuplicate
//   - foreign key violations become store.ErrNotFound
//   - check, not-null and enum violations become domain validation errors
//   - everything else, including context cancellation, wraps store.ErrPersistence
//
// Errors that are already mapped pass through unchanged. The original
// error stays in the chain.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	// already mapped
	if errors.Is(err, store.ErrPersistence) || errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) || errors.Is(err, domain.ErrValidation) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %w", store.ErrNotFound, pgErr.ConstraintName, err)
		case checkViolationCode:
			return domain.NewValidationError("", "check constraint violation ("+pgErr.ConstraintName+")", err)
		case notNullViolationCode:
			return domain.NewValidationError(pgErr.ColumnName, "cannot be null", err)
		case invalidTextRepCode:
			return domain.NewValidationError("", "invalid value", err)
		}
	}

	return fmt.Errorf("%w: %w", store.ErrPersistence, err)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected returns notFound when result reports no affected rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", store.ErrPersistence)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %w", store.ErrPersistence, err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/retail-stock/internal/domain"
)

// PostgreSQL error codes the store reacts to.
const (
	codeNumericOutOfRange    = "22003"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// classify maps PostgreSQL failures to domain error kinds and wraps everything else with op.
// Unique violations only happen when two units race for the same code or name, so they are
// reported as conflicts and the unit is retried; the retry sees the winner's row.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
		return domain.Conflict(op, err)
	case codeNumericOutOfRange:
		return domain.NewValidationError("quantity", "value is out of range")
	case codeCheckViolation:
		return domain.NewInvariantViolation(pgErr.ConstraintName, pgErr.Message)
	case codeForeignKeyViolation:
		return domain.NewInvariantViolation(pgErr.ConstraintName, "referenced row does not exist or is still referenced")
	}
	return fmt.Errorf("%s: %w", op, err)
}

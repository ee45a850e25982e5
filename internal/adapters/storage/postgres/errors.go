package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("check violation")
)

// mapError traduce errores de pgx al sentinel "not found" del dominio que corresponda.
// Errores de context pasan tal cual.
func mapError(err error, entity, id string, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, notFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, ErrConflict)
		case "23503": // foreign_key_violation: la fila padre no existe
			return fmt.Errorf("%s %s: %w", entity, id, notFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, ErrValidation)
		}
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

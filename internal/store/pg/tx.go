package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

// withTx abre la unidad de trabajo: una transacción por operación lógica.
// fn ve sus propias escrituras; si retorna error se hace rollback de todo y
// el error de storage se traduce al dominio antes de cruzar el límite del
// repositorio. No es reentrante.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	// no-op si ya hubo commit
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return translateErr(err)
	}
	return tx.Commit(ctx)
}

// translateErr mapea errores de pgx/pgconn a la taxonomía del dominio.
// La violación de unicidad en el insert es la garantía autoritativa contra la
// carrera check-then-insert; el pre-check de los repos es solo optimización.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	// errores ya de dominio pasan intactos
	if repository.IsNotFound(err) || repository.IsConflict(err) ||
		errors.Is(err, repository.ErrInvalidCredential) || repository.IsValidation(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

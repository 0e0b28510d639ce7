package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/security/password"
)

type userRepo struct {
	pool   *pgxpool.Pool
	hasher password.Hasher
}

const userColumns = `id, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = repository.Role(role)
	return &u, nil
}

func (r *userRepo) SignUp(ctx context.Context, email, rawPassword string, role repository.Role) (*repository.User, error) {
	// validación antes de abrir la transacción
	if err := repository.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := repository.ValidatePassword(rawPassword); err != nil {
		return nil, err
	}
	if role == "" {
		role = repository.RoleUser
	}

	hash, err := r.hasher.Hash(rawPassword)
	if err != nil {
		return nil, err
	}

	u := &repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	err = withTx(ctx, r.pool, func(tx pgx.Tx) error {
		// pre-check: mejor mensaje en el camino común; la constraint cubre la carrera
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM app_user WHERE email = $1)`, email,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: email %q already registered", repository.ErrConflict, email)
		}

		now := time.Now().UTC()
		if err := tx.QueryRow(ctx, `
			INSERT INTO app_user (id, email, password_hash, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING created_at, updated_at`,
			u.ID, u.Email, u.PasswordHash, string(u.Role), now,
		).Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Login(ctx context.Context, email, rawPassword string) (*repository.User, error) {
	var u *repository.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+userColumns+` FROM app_user WHERE email = $1`, email)
		var err error
		u, err = scanUser(row)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: no user with email %q", repository.ErrNotFound, email)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !r.hasher.Verify(rawPassword, u.PasswordHash) {
		return nil, repository.ErrInvalidCredential
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	var u *repository.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
		var err error
		u, err = scanUser(row)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) DeleteByID(ctx context.Context, id string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, id)
		}
		return nil
	})
}

func (r *userRepo) List(ctx context.Context, limit int) ([]repository.User, error) {
	users := []repository.User{}
	if limit <= 0 {
		return users, nil
	}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+userColumns+` FROM app_user ORDER BY email ASC LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, *u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

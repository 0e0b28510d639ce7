package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

type coefficientRepo struct {
	pool *pgxpool.Pool
}

const coefColumns = `id, category, vol_min, vol_max, coef`

func scanCoefficient(row pgx.Row) (*repository.CoolingCoefficient, error) {
	var c repository.CoolingCoefficient
	var cat string
	if err := row.Scan(&c.ID, &cat, &c.VolMin, &c.VolMax, &c.Coef); err != nil {
		return nil, err
	}
	c.Category = repository.ColdRoomCategory(cat)
	return &c, nil
}

func (r *coefficientRepo) Add(ctx context.Context, coef repository.CoolingCoefficient) (*repository.CoolingCoefficient, error) {
	if err := coef.Validate(); err != nil {
		return nil, err
	}
	coef.ID = uuid.NewString()
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO cooling_coefficient (id, category, vol_min, vol_max, coef)
			VALUES ($1, $2, $3, $4, $5)`,
			coef.ID, string(coef.Category), coef.VolMin, coef.VolMax, coef.Coef)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &coef, nil
}

func (r *coefficientRepo) Update(ctx context.Context, coef repository.CoolingCoefficient) (*repository.CoolingCoefficient, error) {
	if err := coef.Validate(); err != nil {
		return nil, err
	}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE cooling_coefficient
			SET category = $2, vol_min = $3, vol_max = $4, coef = $5
			WHERE id = $1`,
			coef.ID, string(coef.Category), coef.VolMin, coef.VolMax, coef.Coef)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: no coefficient with id %q", repository.ErrNotFound, coef.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &coef, nil
}

func (r *coefficientRepo) List(ctx context.Context, limit int) ([]repository.CoolingCoefficient, error) {
	coefs := []repository.CoolingCoefficient{}
	if limit <= 0 {
		return coefs, nil
	}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT `+coefColumns+` FROM cooling_coefficient
			ORDER BY category ASC, vol_min ASC LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanCoefficient(rows)
			if err != nil {
				return err
			}
			coefs = append(coefs, *c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return coefs, nil
}

func (r *coefficientRepo) FindForVolume(ctx context.Context, category repository.ColdRoomCategory, volume float64) (*repository.CoolingCoefficient, error) {
	var c *repository.CoolingCoefficient
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT `+coefColumns+` FROM cooling_coefficient
			WHERE category = $1 AND vol_min <= $2 AND vol_max >= $2
			ORDER BY vol_min ASC LIMIT 1`, string(category), volume)
		var err error
		c, err = scanCoefficient(row)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: no coefficient for category %s and volume %.2f m³",
				repository.ErrNotFound, category, volume)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Package pg implementa los repositorios sobre PostgreSQL con pgxpool.
// Cada método de repositorio abre exactamente una transacción (unit of work):
// commit al salir limpio, rollback total ante cualquier error.
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/observability/logger"
	"github.com/dropDatabas3/coldquote/internal/security/password"
	"go.uber.org/zap"
)

// Store agrupa el pool y fabrica los repositorios. Se construye una vez en el
// arranque y se inyecta; no hay singleton de proceso.
type Store struct{ pool *pgxpool.Pool }

// PoolConfig ajusta el pool (cero = defaults de pgxpool).
type PoolConfig struct {
	MaxConns        int
	MinConns        int
	ConnMaxLifetime string
}

// New arma el pool y lo prueba con un ping no bloqueante: si la DB está caída
// el proceso arranca igual y reintenta en el primer uso.
func New(ctx context.Context, dsn string, cfg PoolConfig) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	log := logger.Named("pg")
	if err := pool.Ping(ctx); err != nil {
		log.Warn("startup ping failed", zap.Error(err))
	} else {
		log.Info("pool ready", zap.Int32("max_conns", pcfg.MaxConns))
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno (métricas, migraciones).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Users fabrica el repositorio de usuarios con el hasher inyectado.
func (s *Store) Users(h password.Hasher) repository.UserRepository {
	return &userRepo{pool: s.pool, hasher: h}
}

// Projects fabrica el repositorio de proyectos.
func (s *Store) Projects() repository.ProjectRepository {
	return &projectRepo{pool: s.pool}
}

// Coefficients fabrica el repositorio de coeficientes del fast quote.
func (s *Store) Coefficients() repository.CoefficientRepository {
	return &coefficientRepo{pool: s.pool}
}

package pg

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/coldquote/internal/observability/logger"
	migrations "github.com/dropDatabas3/coldquote/migrations/postgres"
)

// migrationLockID es fijo: un solo esquema, un solo lock.
const migrationLockID int64 = 0x636f6c6471756f74 // "coldquot"

// migrationFiles retorna los *.sql embebidos en orden lexicográfico.
func migrationFiles() ([]string, error) {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Migrate aplica los *.sql embebidos en orden lexicográfico. El DDL es
// idempotente (CREATE ... IF NOT EXISTS), así que correr de nuevo es seguro.
// El advisory lock es de sesión: lock, DDL y unlock van por la MISMA conexión
// dedicada, nunca por el pool suelto.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	log := logger.Named("pg")

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := conn.Exec(lockCtx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		var released bool
		if err := conn.QueryRow(context.Background(),
			"SELECT pg_advisory_unlock($1)", migrationLockID,
		).Scan(&released); err != nil || !released {
			log.Warn("release migration lock failed", zap.Bool("released", released), zap.Error(err))
		}
	}()

	files, err := migrationFiles()
	if err != nil {
		return 0, err
	}

	var applied int
	for _, f := range files {
		b, err := migrations.FS.ReadFile(f)
		if err != nil {
			return applied, err
		}
		if _, err := conn.Exec(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("exec %s: %w", f, err)
		}
		applied++
	}
	log.Info("migrations applied", zap.Int("files", applied))
	return applied, nil
}

package pg

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	migrations "github.com/dropDatabas3/coldquote/migrations/postgres"
)

func TestMigrationFilesOrdered(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)

	assert.True(t, sort.StringsAreSorted(files))
	for _, f := range files {
		assert.True(t, strings.HasSuffix(f, ".sql"), f)
	}
}

func TestMigrationsAreIdempotentDDL(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)

	// correr dos veces tiene que ser seguro: todo CREATE lleva IF NOT EXISTS
	for _, f := range files {
		b, err := migrations.FS.ReadFile(f)
		require.NoError(t, err)
		for _, line := range strings.Split(string(b), "\n") {
			up := strings.ToUpper(strings.TrimSpace(line))
			if strings.HasPrefix(up, "CREATE TABLE") || strings.HasPrefix(up, "CREATE INDEX") ||
				strings.HasPrefix(up, "CREATE UNIQUE INDEX") {
				assert.Contains(t, up, "IF NOT EXISTS", "%s: %s", f, line)
			}
		}
	}
}

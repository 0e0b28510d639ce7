// Package migrations embebe los archivos SQL del esquema que se aplican en el
// arranque.
package migrations

import "embed"

// FS contiene los archivos de migración ordenados del esquema Postgres.
//
//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL schema migrations applied by
// internal/infrastructure/storage.Migrator.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL migrations of the history database.
// Files are applied once each, in lexical order of their names.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS

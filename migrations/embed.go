// Package migrations embeds the versioned SQL schema of the billing database.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL migration files for the interaction log
// schema. Migration 2 is the backward-compatible addition of session_id to an
// existing logs table.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS

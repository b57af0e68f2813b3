// Package migrations embeds the goose SQL migrations for the server schema.
package migrations

import "embed"

// Migrations holds the *.sql files applied by goose at startup.
//
//go:embed *.sql
var Migrations embed.FS

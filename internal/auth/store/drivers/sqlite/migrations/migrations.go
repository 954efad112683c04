// Package migrations embeds the SQLite schema for the audit store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

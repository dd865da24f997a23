// Package migrations embeds the goose SQL migrations of the set service.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

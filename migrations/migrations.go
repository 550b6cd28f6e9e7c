// Package migrations embeds the table store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

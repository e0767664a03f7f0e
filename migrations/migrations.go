// Package migrations holds the embedded SQL migrations applied with goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

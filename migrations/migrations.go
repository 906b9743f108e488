// Package migrations embeds the SQL schema of the portal's relational store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package db embeds the SQL applied after auto-migration.
package db

import _ "embed"

//go:embed init.sql
var InitSQL string

// Package migrations holds the versioned schema migrations. Each migration
// file registers itself with the shared collection via init().
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

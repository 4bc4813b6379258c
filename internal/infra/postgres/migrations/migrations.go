package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema steps applied by `quiz-service migrate` and on start.
var Migrations = migrate.NewMigrations()

package pgstore

import "embed"

// Migrations holds the goose migrations for every table used by Store.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations to pass to pg.Migrate.
const MigrationsDir = "migrations"

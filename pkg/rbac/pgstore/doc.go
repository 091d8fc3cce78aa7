// Package pgstore persists rbac tenants, org-chart titles and audit events
// in PostgreSQL.
//
// A tenant is one row in rbac_tenants holding the catalog, the roles and the
// version token, plus one row per member in rbac_members. Commit runs in a
// single RepeatableRead transaction: the tenant row is updated only when its
// version still matches, so an admin transfer or a role deletion that
// detaches holders is never observed half applied.
//
// Apply the embedded schema with pg.Migrate:
//
//	err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log)
package pgstore

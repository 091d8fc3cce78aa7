// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations embedded in the binary.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil { ... }
//
// WithTx runs a function in a RepeatableRead transaction; the helpers in
// errors.go classify driver errors.
package pg

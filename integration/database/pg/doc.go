// Package pg provides PostgreSQL connection management for the marketplace
// backend: a pgx connection pool with retry-verified startup, goose
// migrations, a health probe, and the PostgreSQL implementation of the
// profile store.
//
// # Connecting
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
//	store := pg.NewProfileStore(pool)
//
// Connect pings the pool with exponential backoff before returning it, so a
// service restarting alongside its database does not fail on the first
// refused connection.
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context and TxFromContext retrieves it. The
// ProfileStore checks the context on every query, so multiple store calls
// can share one transaction without the store knowing about it:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//
//	ctx = pg.WithTx(ctx, tx)
//	if err := store.Insert(ctx, user); err != nil {
//		return err
//	}
//	if err := store.InsertWorkerProfile(ctx, wp); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
//
// # Errors
//
// Store methods translate driver errors into the profile package's sentinel
// errors. The classification helpers (IsNotFoundError, IsDuplicateKeyError,
// IsForeignKeyViolationError, IsTxClosedError) are exported for callers
// running their own queries on the pool.
package pg

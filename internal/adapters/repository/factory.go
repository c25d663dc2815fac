package repository

import "context"

// New opens the store for driver: "memory" needs no dsn; "sqlite" and
// "postgres" connect to dsn and migrate the schema.
func New(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	if driver == "" || driver == "memory" {
		return NewMemoryStore(ctx, opts...), nil
	}
	return OpenSQL(ctx, driver, dsn, opts...)
}

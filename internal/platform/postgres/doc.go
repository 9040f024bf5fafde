// Package postgres contains the PostgreSQL implementations of the
// persistence interfaces defined in internal/store, using the pgx driver
// through the standard database/sql interface.
package postgres

// Package store defines the persistence interfaces consumed by the core
// services, together with the shared database abstractions (DBTX,
// RunInTransaction) and the sentinel errors implementations must return.
// Storage technology lives behind these interfaces; the concrete PostgreSQL
// implementations are in internal/platform/postgres.
package store

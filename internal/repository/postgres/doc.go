// Package postgres implements the service repositories on PostgreSQL
// through database/sql and lib/pq. Each repo returns the owning service's
// sentinel errors so callers never see sql.ErrNoRows.
package postgres

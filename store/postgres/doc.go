// Package postgres provides PostgreSQL-backed store implementations
// over the pgx stdlib driver. Repositories operate on a minimal DBTX
// interface satisfied by both *sql.DB and *sql.Tx, so callers can run
// them inside transactions. Schema setup runs through embedded goose
// migrations.
package postgres

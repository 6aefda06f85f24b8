// Package postgres provides PostgreSQL implementations of the store
// interfaces using the pgx driver through database/sql. All queries are
// parameterized; caller-supplied values are never interpolated into SQL text.
package postgres

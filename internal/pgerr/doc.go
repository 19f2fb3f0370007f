// Package pgerr classifies PostgreSQL errors into teachload sentinels.
//
// Classification looks at the SQLSTATE code of *pgconn.PgError first and
// falls back to network error types. See
// https://www.postgresql.org/docs/current/errcodes-appendix.html
package pgerr

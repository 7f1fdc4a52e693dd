// Package dialect names the SQL dialects supported by the narrator runtime
// and holds the small amount of syntax that differs between them.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database (lib/pq or pgx)
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database (modernc.org/sqlite)
//
// Statements are written with `?` placeholders and rebound to the dialect's
// native form by [Rebind]; identifiers are quoted with [Quote].
//
// # Sub-packages
//
//   - dialect/sql: database/sql backed driver, transactions and statistics
//   - dialect/sql/sqlgraph: classification of driver constraint errors
//   - dialect/sql/drivers: registration of the supported database/sql drivers
package dialect

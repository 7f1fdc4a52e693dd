// Package drivers registers the database/sql drivers narrator supports.
//
// Import it for its side effects:
//
//	import _ "github.com/syssam/narrator/dialect/sql/drivers"
//
// Registered names are "postgres" (lib/pq), "pgx" (pgx stdlib), "mysql"
// (go-sql-driver) and "sqlite" (modernc.org/sqlite).
package drivers

import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

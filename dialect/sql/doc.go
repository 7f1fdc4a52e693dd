// Package sql provides the database/sql backed driver used by generated DAOs.
//
// A [Driver] wraps a *sql.DB together with its dialect. Statements are
// written with `?` placeholders and rebound per dialect before execution.
// Transactions started with [Driver.Tx] satisfy the same
// [dialect.ExecQuerier] interface, so a DAO can run inside or outside a
// transaction unchanged:
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//	    return err
//	}
//	tx, err := drv.Tx(ctx)
//	if err != nil {
//	    return err
//	}
//	users := usersdao.NewUsersDao(tx)
//
// [StatsDriver] and [DebugDriver] wrap any ExecQuerier with statistics
// collection and statement logging.
package sql

package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/narrator/dialect"
)

type (
	// Result is the outcome of an Exec.
	Result = sql.Result
	// TxOptions configures BeginTx.
	TxOptions = sql.TxOptions
)

// execQuerier is the part of *sql.DB and *sql.Tx a Conn runs statements on.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn runs statements written with `?` placeholders in the dialect of the
// underlying connection.
type Conn struct {
	eq      execQuerier
	dialect string
}

// Dialect returns the dialect name. Alternative driver names ("pgx",
// "sqlite3") map onto the dialect they speak.
func (c Conn) Dialect() string {
	switch {
	case c.dialect == "pgx":
		return dialect.Postgres
	case strings.HasPrefix(c.dialect, dialect.SQLite):
		return dialect.SQLite
	}
	return c.dialect
}

// Exec runs a statement that returns no rows.
func (c Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := c.eq.ExecContext(ctx, dialect.Rebind(c.Dialect(), query), args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return res, nil
}

// Query runs a statement that returns rows.
func (c Conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := c.eq.QueryContext(ctx, dialect.Rebind(c.Dialect(), query), args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return rows, nil
}

// Driver is a dialect.ExecQuerier over a database/sql pool.
type Driver struct {
	Conn
	db *sql.DB
}

// Open opens a pool with database/sql.Open. name is both the registered
// driver name and the dialect.
func Open(name, source string) (*Driver, error) {
	db, err := sql.Open(name, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(name, db), nil
}

// OpenDB wraps an open pool.
func OpenDB(name string, db *sql.DB) *Driver {
	return &Driver{Conn: Conn{eq: db, dialect: name}, db: db}
}

// DB returns the wrapped pool.
func (d *Driver) DB() *sql.DB { return d.db }

// Close closes the pool.
func (d *Driver) Close() error { return d.db.Close() }

// Tx starts a transaction with default options.
func (d *Driver) Tx(ctx context.Context) (*Tx, error) { return d.BeginTx(ctx, nil) }

// BeginTx starts a transaction.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	return &Tx{Conn: Conn{eq: tx, dialect: d.dialect}, tx: tx}, nil
}

// WithTx runs fn in a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
//
//	err := drv.WithTx(ctx, func(tx *sql.Tx) error {
//		_, err := usersdao.NewUsersDao(tx).Create(ctx, user)
//		return err
//	})
func (d *Driver) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := d.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// Tx is a transaction. It runs statements like the Driver it was started on.
type Tx struct {
	Conn
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback aborts the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

var (
	_ dialect.ExecQuerier = (*Driver)(nil)
	_ dialect.ExecQuerier = (*Tx)(nil)
)

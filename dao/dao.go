package dao

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/narrator"
	"github.com/syssam/narrator/dialect"
	"github.com/syssam/narrator/dialect/sql/sqlgraph"
)

// Option configures a base DAO.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger DAO calls are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock used for created_on values.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// BasicDaoWithoutDelete implements the read and write operations shared by
// all generated DAOs.
type BasicDaoWithoutDelete[M ModelWithID] struct {
	// Table is the table the DAO reads and writes.
	Table *Table

	conn   dialect.ExecQuerier
	conv   ModelDBConverter[M]
	logger *slog.Logger
	now    func() time.Time
}

// NewBasicDaoWithoutDelete returns a base DAO for table, using conv to map
// rows. conv is usually the generated DAO embedding the result.
func NewBasicDaoWithoutDelete[M ModelWithID](conn dialect.ExecQuerier, table *Table, conv ModelDBConverter[M], opts ...Option) *BasicDaoWithoutDelete[M] {
	o := options{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &BasicDaoWithoutDelete[M]{
		Table:  table,
		conn:   conn,
		conv:   conv,
		logger: o.logger.With("table", table.Name),
		now:    o.now,
	}
}

// Create inserts item and returns its identifier. Items without an
// identifier get a new random one.
func (d *BasicDaoWithoutDelete[M]) Create(ctx context.Context, item M) (uuid.UUID, error) {
	d.logger.InfoContext(ctx, "create() called", "item", item)
	id, stmt := d.insertStatement(item)
	query := d.insertQuery(stmt, "")
	if _, err := d.conn.Exec(ctx, query, stmt.Values()...); err != nil {
		return uuid.Nil, narrator.NewMutationError(d.Table.Name, "create", sqlgraph.Wrap(err))
	}
	d.logger.InfoContext(ctx, "create() returned", "id", id)
	return id, nil
}

// CreateAndGet inserts item and reads it back.
func (d *BasicDaoWithoutDelete[M]) CreateAndGet(ctx context.Context, item M) (M, error) {
	id, err := d.Create(ctx, item)
	if err != nil {
		var zero M
		return zero, err
	}
	return d.Get(ctx, id)
}

// CreateBatch inserts items in one statement and returns their identifiers
// in order.
func (d *BasicDaoWithoutDelete[M]) CreateBatch(ctx context.Context, items []M) ([]uuid.UUID, error) {
	d.logger.InfoContext(ctx, "createBatch() called", "items", len(items))
	if len(items) == 0 {
		return nil, nil
	}
	var (
		ids     = make([]uuid.UUID, 0, len(items))
		columns []string
		args    []any
		rows    []string
	)
	for _, item := range items {
		id, stmt := d.insertStatement(item)
		if columns == nil {
			columns = stmt.Columns()
		} else if !slices.Equal(columns, stmt.Columns()) {
			return nil, narrator.NewMutationError(d.Table.Name, "create", errors.New("items set different columns"))
		}
		ids = append(ids, id)
		args = append(args, stmt.Values()...)
		rows = append(rows, placeholders(len(columns)))
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		d.quote(d.Table.Name), d.quoteAll(columns), strings.Join(rows, ", "))
	if _, err := d.conn.Exec(ctx, query, args...); err != nil {
		return nil, narrator.NewMutationError(d.Table.Name, "create", sqlgraph.Wrap(err))
	}
	d.logger.InfoContext(ctx, "createBatch() returned", "ids", ids)
	return ids, nil
}

// CreateBatchWithIgnoreError inserts items one by one and skips those that
// violate a constraint. It returns the identifiers of the stored items.
func (d *BasicDaoWithoutDelete[M]) CreateBatchWithIgnoreError(ctx context.Context, items []M) ([]uuid.UUID, error) {
	d.logger.InfoContext(ctx, "createBatchWithIgnoreError() called", "items", len(items))
	var ids []uuid.UUID
	for _, item := range items {
		id, stmt := d.insertStatement(item)
		res, err := d.conn.Exec(ctx, d.insertQuery(stmt, "ignore"), stmt.Values()...)
		if err != nil {
			if sqlgraph.IsConstraintError(err) {
				d.logger.DebugContext(ctx, "skipping item", "id", id, "error", err)
				continue
			}
			return ids, narrator.NewMutationError(d.Table.Name, "create", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			continue
		}
		ids = append(ids, id)
	}
	d.logger.InfoContext(ctx, "createBatchWithIgnoreError() returned", "ids", ids)
	return ids, nil
}

// Update writes item over the row with its identifier.
func (d *BasicDaoWithoutDelete[M]) Update(ctx context.Context, item M) (uuid.UUID, error) {
	d.logger.InfoContext(ctx, "update() called", "item", item)
	id := item.GetID()
	if id == nil {
		return uuid.Nil, narrator.NewMutationError(d.Table.Name, "update", errors.New("item has no id"))
	}
	var stmt Statement
	d.conv.ToStatement(item, &stmt)
	if len(stmt.Columns()) == 0 {
		return *id, nil
	}
	sets := make([]string, len(stmt.Columns()))
	for i, c := range stmt.Columns() {
		sets[i] = d.quote(c) + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		d.quote(d.Table.Name), strings.Join(sets, ", "), d.quote(IDColumn))
	res, err := d.conn.Exec(ctx, query, append(stmt.Values(), *id)...)
	if err != nil {
		return uuid.Nil, narrator.NewMutationError(d.Table.Name, "update", sqlgraph.Wrap(err))
	}
	n, _ := res.RowsAffected()
	d.logger.InfoContext(ctx, "update() returned", "rows", n)
	return *id, nil
}

// UpdateAndGet updates item and reads it back.
func (d *BasicDaoWithoutDelete[M]) UpdateAndGet(ctx context.Context, item M) (M, error) {
	id, err := d.Update(ctx, item)
	if err != nil {
		var zero M
		return zero, err
	}
	return d.Get(ctx, id)
}

// Upsert creates items without an identifier and updates the others.
func (d *BasicDaoWithoutDelete[M]) Upsert(ctx context.Context, item M) (uuid.UUID, error) {
	if item.GetID() == nil {
		return d.Create(ctx, item)
	}
	return d.Update(ctx, item)
}

// UpsertAndGet upserts item and reads it back.
func (d *BasicDaoWithoutDelete[M]) UpsertAndGet(ctx context.Context, item M) (M, error) {
	id, err := d.Upsert(ctx, item)
	if err != nil {
		var zero M
		return zero, err
	}
	return d.Get(ctx, id)
}

// Get returns the row with the given identifier or a *narrator.NotFoundError.
func (d *BasicDaoWithoutDelete[M]) Get(ctx context.Context, id uuid.UUID) (M, error) {
	m, err := d.GetOrNil(ctx, id)
	if err != nil {
		var zero M
		return zero, err
	}
	if m == nil {
		var zero M
		return zero, narrator.NewNotFoundError(d.Table.Name, id)
	}
	return *m, nil
}

// GetOrNil returns the row with the given identifier, or nil when there is
// none.
func (d *BasicDaoWithoutDelete[M]) GetOrNil(ctx context.Context, id uuid.UUID) (*M, error) {
	ms, err := d.selectModels(ctx, "get", " WHERE "+d.quote(IDColumn)+" = ?", id)
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	return &ms[0], nil
}

// GetMany returns the rows with the given identifiers.
func (d *BasicDaoWithoutDelete[M]) GetMany(ctx context.Context, ids []uuid.UUID) ([]M, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return d.selectModels(ctx, "get", " WHERE "+d.quote(IDColumn)+" IN "+placeholders(len(ids)), args...)
}

// GetAll returns every row of the table.
func (d *BasicDaoWithoutDelete[M]) GetAll(ctx context.Context) ([]M, error) {
	return d.selectModels(ctx, "all", "")
}

// GetList returns page pageNo of pageSize rows, newest first, together with
// the number of matching rows. A non-blank searchTerm is applied through
// FilterWithSearchTerm.
func (d *BasicDaoWithoutDelete[M]) GetList(ctx context.Context, pageNo int64, pageSize int, searchTerm string) (ListAndTotal[M], error) {
	var q Query
	if strings.TrimSpace(searchTerm) != "" {
		d.conv.FilterWithSearchTerm(&q, searchTerm)
	}
	var total int64
	rows, err := d.conn.Query(ctx, "SELECT COUNT(*) FROM "+d.quote(d.Table.Name)+q.clause(), q.Args()...)
	if err != nil {
		return ListAndTotal[M]{}, narrator.NewQueryError(d.Table.Name, "count", err)
	}
	if rows.Next() {
		err = rows.Scan(&total)
	}
	err = errors.Join(err, rows.Err(), rows.Close())
	if err != nil {
		return ListAndTotal[M]{}, narrator.NewQueryError(d.Table.Name, "count", err)
	}

	order := IDColumn
	if d.Table.Logged {
		order = CreatedColumn
	}
	suffix := q.clause() + " ORDER BY " + d.quote(order) + " DESC LIMIT ? OFFSET ?"
	args := append(q.Args(), pageSize, pageNo*int64(pageSize))
	list, err := d.selectModels(ctx, "list", suffix, args...)
	if err != nil {
		return ListAndTotal[M]{}, err
	}
	return ListAndTotal[M]{List: list, Total: total}, nil
}

func (d *BasicDaoWithoutDelete[M]) selectModels(ctx context.Context, op, suffix string, args ...any) ([]M, error) {
	query := "SELECT " + d.quoteAll(d.Table.Columns) + " FROM " + d.quote(d.Table.Name) + suffix
	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, narrator.NewQueryError(d.Table.Name, op, err)
	}
	defer rows.Close()
	var ms []M
	row := Row{rows: rows, columns: d.Table.Columns}
	for rows.Next() {
		m, err := d.conv.ToModel(row)
		if err != nil {
			return nil, narrator.NewQueryError(d.Table.Name, op, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, narrator.NewQueryError(d.Table.Name, op, err)
	}
	return ms, nil
}

// insertStatement builds the column values of a new row for item.
func (d *BasicDaoWithoutDelete[M]) insertStatement(item M) (uuid.UUID, *Statement) {
	id := uuid.New()
	if p := item.GetID(); p != nil {
		id = *p
	}
	stmt := &Statement{}
	stmt.Set(IDColumn, id)
	d.conv.ToStatement(item, stmt)
	if d.Table.Logged && !stmt.Has(CreatedColumn) {
		stmt.Set(CreatedColumn, d.now().UTC())
	}
	if d.Table.Deletable && !stmt.Has(DeletedColumn) {
		stmt.Set(DeletedColumn, false)
	}
	return id, stmt
}

// insertQuery renders an INSERT for stmt. A non-empty conflict ignores rows
// violating a constraint.
func (d *BasicDaoWithoutDelete[M]) insertQuery(stmt *Statement, conflict string) string {
	verb, tail := "INSERT INTO", ""
	if conflict != "" {
		if d.conn.Dialect() == dialect.MySQL {
			verb = "INSERT IGNORE INTO"
		} else {
			tail = " ON CONFLICT DO NOTHING"
		}
	}
	return fmt.Sprintf("%s %s (%s) VALUES %s%s",
		verb, d.quote(d.Table.Name), d.quoteAll(stmt.Columns()), placeholders(len(stmt.Columns())), tail)
}

func (d *BasicDaoWithoutDelete[M]) quote(ident string) string {
	return dialect.Quote(d.conn.Dialect(), ident)
}

func (d *BasicDaoWithoutDelete[M]) quoteAll(idents []string) string {
	quoted := make([]string, len(idents))
	for i, c := range idents {
		quoted[i] = d.quote(c)
	}
	return strings.Join(quoted, ", ")
}

// BasicDao is BasicDaoWithoutDelete for tables with a soft-delete flag.
type BasicDao[M ModelWithID] struct {
	*BasicDaoWithoutDelete[M]
}

// NewBasicDao returns a base DAO for a deletable table.
func NewBasicDao[M ModelWithID](conn dialect.ExecQuerier, table *Table, conv ModelDBConverter[M], opts ...Option) *BasicDao[M] {
	return &BasicDao[M]{BasicDaoWithoutDelete: NewBasicDaoWithoutDelete(conn, table, conv, opts...)}
}

// Delete marks the row with the given identifier as deleted. The row stays
// in the table.
func (d *BasicDao[M]) Delete(ctx context.Context, id uuid.UUID) error {
	d.logger.InfoContext(ctx, "delete() called", "id", id)
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		d.quote(d.Table.Name), d.quote(DeletedColumn), d.quote(IDColumn))
	res, err := d.conn.Exec(ctx, query, true, id)
	if err != nil {
		return narrator.NewMutationError(d.Table.Name, "delete", err)
	}
	n, _ := res.RowsAffected()
	d.logger.InfoContext(ctx, "delete() returned", "rows", n)
	return nil
}

func placeholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

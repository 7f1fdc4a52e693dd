package dao

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/narrator"
	"github.com/syssam/narrator/dialect"
	dsql "github.com/syssam/narrator/dialect/sql"
	_ "github.com/syssam/narrator/dialect/sql/drivers"
)

type user struct {
	ID        *uuid.UUID
	Name      string
	Tags      []string
	CreatedOn *time.Time
}

func (u user) GetID() *uuid.UUID { return u.ID }

var usersTable = &Table{
	Name:      "users",
	Columns:   []string{IDColumn, "name", "tags", CreatedColumn},
	Logged:    true,
	Deletable: true,
}

type usersDao struct {
	*BasicDao[user]
}

func newUsersDao(conn dialect.ExecQuerier, opts ...Option) *usersDao {
	d := &usersDao{}
	d.BasicDao = NewBasicDao[user](conn, usersTable, d, opts...)
	return d
}

func (d *usersDao) ToModel(row Row) (user, error) {
	var m user
	err := row.Scan(Columns{
		IDColumn:      &m.ID,
		"name":        &m.Name,
		"tags":        JSON(&m.Tags),
		CreatedColumn: &m.CreatedOn,
	})
	return m, err
}

func (d *usersDao) ToStatement(m user, stmt *Statement) {
	stmt.Set("name", m.Name)
	stmt.Set("tags", JSONValue(m.Tags))
}

func (d *usersDao) FilterWithSearchTerm(q *Query, term string) {
	q.Where("name LIKE ?", "%"+term+"%")
}

func mockUsers(t *testing.T) (*usersDao, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	now := time.Date(2024, 6, 23, 0, 0, 0, 0, time.UTC)
	return newUsersDao(dsql.OpenDB(dialect.Postgres, db), WithClock(func() time.Time { return now })), mock, now
}

func TestBasicDaoCreate(t *testing.T) {
	d, mock, now := mockUsers(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users" ("id", "name", "tags", "created_on", "is_deleted") VALUES ($1, $2, $3, $4, $5)`)).
		WithArgs(sqlmock.AnyArg(), "Alice", `["admin"]`, now, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := d.Create(context.Background(), user{Name: "Alice", Tags: []string{"admin"}})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicDaoCreateKeepsID(t *testing.T) {
	d, mock, now := mockUsers(t)
	id := uuid.New()

	mock.ExpectExec(`INSERT INTO "users"`).
		WithArgs(id.String(), "Bob", "null", now, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := d.Create(context.Background(), user{ID: &id, Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, id, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicDaoGet(t *testing.T) {
	d, mock, now := mockUsers(t)
	id := uuid.New()
	selectUser := regexp.QuoteMeta(`SELECT "id", "name", "tags", "created_on" FROM "users" WHERE "id" = $1`)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(selectUser).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(usersTable.Columns).AddRow(id.String(), "Alice", []byte(`["a","b"]`), now))

		m, err := d.Get(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, m.ID)
		assert.Equal(t, id, *m.ID)
		assert.Equal(t, "Alice", m.Name)
		assert.Equal(t, []string{"a", "b"}, m.Tags)
		require.NotNil(t, m.CreatedOn)
		assert.True(t, now.Equal(*m.CreatedOn))
	})

	t.Run("null columns", func(t *testing.T) {
		mock.ExpectQuery(selectUser).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(usersTable.Columns).AddRow(id.String(), "Alice", nil, nil))

		m, err := d.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, m.Tags)
		assert.Nil(t, m.CreatedOn)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(selectUser).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(usersTable.Columns))

		_, err := d.Get(context.Background(), id)
		assert.True(t, narrator.IsNotFound(err))

		mock.ExpectQuery(selectUser).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(usersTable.Columns))
		m, err := d.GetOrNil(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, m)
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicDaoUpdate(t *testing.T) {
	d, mock, _ := mockUsers(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "name" = $1, "tags" = $2 WHERE "id" = $3`)).
		WithArgs("Carol", `["x"]`, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := d.Upsert(context.Background(), user{ID: &id, Name: "Carol", Tags: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = d.Update(context.Background(), user{Name: "no id"})
	assert.True(t, narrator.IsMutationError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicDaoDeleteMarksRows(t *testing.T) {
	d, mock, _ := mockUsers(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "is_deleted" = $1 WHERE "id" = $2`)).
		WithArgs(true, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, d.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicDaoGetList(t *testing.T) {
	d, mock, now := mockUsers(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "users" WHERE (name LIKE $1)`)).
		WithArgs("%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "name", "tags", "created_on" FROM "users" WHERE (name LIKE $1) ORDER BY "created_on" DESC LIMIT $2 OFFSET $3`)).
		WithArgs("%ali%", 10, int64(20)).
		WillReturnRows(sqlmock.NewRows(usersTable.Columns).AddRow(id.String(), "Alice", nil, now))

	page, err := d.GetList(context.Background(), 2, 10, "ali")
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	require.Len(t, page.List, 1)
	assert.Equal(t, "Alice", page.List[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

type item struct {
	ID    *uuid.UUID
	Name  string
	Count int64
}

func (i item) GetID() *uuid.UUID { return i.ID }

type itemsDao struct {
	*BasicDaoWithoutDelete[item]
}

func (d *itemsDao) ToModel(row Row) (item, error) {
	var m item
	err := row.Scan(Columns{IDColumn: &m.ID, "name": &m.Name, "count": &m.Count})
	return m, err
}

func (d *itemsDao) ToStatement(m item, stmt *Statement) {
	stmt.Set("name", m.Name)
	stmt.Set("count", m.Count)
}

func (d *itemsDao) FilterWithSearchTerm(q *Query, term string) {
	q.Where("name = ?", term)
}

func TestBasicDaoWithoutDeleteSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	_, err = db.ExecContext(ctx, `CREATE TABLE items (id TEXT PRIMARY KEY, name TEXT UNIQUE NOT NULL, count INTEGER NOT NULL)`)
	require.NoError(t, err)

	d := &itemsDao{}
	d.BasicDaoWithoutDelete = NewBasicDaoWithoutDelete[item](dsql.OpenDB(dialect.SQLite, db),
		&Table{Name: "items", Columns: []string{IDColumn, "name", "count"}}, d)

	created, err := d.CreateAndGet(ctx, item{Name: "apple", Count: 1})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, int64(1), created.Count)

	created.Count = 5
	updated, err := d.UpsertAndGet(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated.Count)

	ids, err := d.CreateBatch(ctx, []item{{Name: "banana"}, {Name: "cherry"}})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	_, err = d.Create(ctx, item{Name: "apple"})
	require.Error(t, err)
	assert.True(t, narrator.IsConstraintError(err))

	ids, err = d.CreateBatchWithIgnoreError(ctx, []item{{Name: "apple"}, {Name: "damson"}})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	all, err := d.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	many, err := d.GetMany(ctx, []uuid.UUID{*created.ID, ids[0]})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	page, err := d.GetList(ctx, 0, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.List, 2)

	page, err = d.GetList(ctx, 0, 10, "banana")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.List, 1)
	assert.Equal(t, "banana", page.List[0].Name)
}

func TestStatement(t *testing.T) {
	var s Statement
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 3)
	assert.Equal(t, []string{"a", "b"}, s.Columns())
	assert.Equal(t, []any{3, 2}, s.Values())
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("c"))
}

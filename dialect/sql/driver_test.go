package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/syssam/narrator/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dialect string
	}{
		{"Postgres", dialect.Postgres, dialect.Postgres},
		{"pgx", "pgx", dialect.Postgres},
		{"MySQL", dialect.MySQL, dialect.MySQL},
		{"SQLite", dialect.SQLite, dialect.SQLite},
		{"sqlite3", "sqlite3", dialect.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.driver, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.dialect, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

func TestDriverQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("rebinds placeholders", func(t *testing.T) {
		mock.ExpectQuery(`SELECT name FROM users WHERE id = \$1 AND name = \$2`).
			WithArgs(1, "Alice").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))

		rows, err := drv.Query(context.Background(), "SELECT name FROM users WHERE id = ? AND name = ?", 1, "Alice")
		require.NoError(t, err)
		require.True(t, rows.Next())
		var name string
		require.NoError(t, rows.Scan(&name))
		assert.Equal(t, "Alice", name)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps errors", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mock.ExpectQuery("SELECT").WillReturnError(expectedErr)

		_, err := drv.Query(context.Background(), "SELECT")
		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "dialect/sql: query")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDriverExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.MySQL, db)

	t.Run("keeps mysql placeholders", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET name = \? WHERE id = \?`).
			WithArgs("Alice", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		res, err := drv.Exec(context.Background(), "UPDATE users SET name = ? WHERE id = ?", "Alice", 1)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps errors", func(t *testing.T) {
		expectedErr := errors.New("constraint violation")
		mock.ExpectExec("DELETE").WillReturnError(expectedErr)

		_, err := drv.Exec(context.Background(), "DELETE FROM users")
		assert.ErrorIs(t, err, expectedErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDriverTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO users \(name\) VALUES \(\$1\)`).
			WithArgs("Alice").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		assert.Equal(t, dialect.Postgres, tx.Dialect())
		_, err = tx.Exec(context.Background(), "INSERT INTO users (name) VALUES (?)", "Alice")
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		_, err := drv.Tx(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect/sql: begin")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDriverWithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.SQLite, db)
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := drv.WithTx(ctx, func(tx *Tx) error {
			_, err := tx.Exec(ctx, "UPDATE users SET name = ?", "Bob")
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back", func(t *testing.T) {
		cause := errors.New("invalid")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := drv.WithTx(ctx, func(*Tx) error { return cause })
		assert.ErrorIs(t, err, cause)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

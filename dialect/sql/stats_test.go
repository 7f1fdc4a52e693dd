package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/syssam/narrator/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	drv := NewStatsDriver(OpenDB(dialect.SQLite, db),
		WithSlowThreshold(time.Hour),
		WithSlowLog(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("UPDATE t").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("update t").WillReturnError(errors.New("locked"))

	rows, err := drv.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	_, err = drv.Exec(context.Background(), "UPDATE t SET a = 1")
	require.NoError(t, err)
	_, err = drv.Exec(context.Background(), "  update t SET a = 2")
	require.Error(t, err)

	stats := drv.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, int64(1), stats["SELECT"].Count)
	assert.Equal(t, int64(2), stats["UPDATE"].Count)
	assert.Equal(t, int64(1), stats["UPDATE"].Errors)
	assert.Equal(t, int64(3), drv.Total().Count)
	assert.Zero(t, drv.Total().Slow)
	assert.Empty(t, buf.String())
	assert.Contains(t, drv.String(), "select=1(errors=0 slow=0")
	assert.Contains(t, drv.String(), "update=2(errors=1 slow=0")

	drv.Reset()
	assert.Empty(t, drv.Stats())
	assert.Zero(t, Counter{}.Avg())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDriverSlow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(-1),
		WithSlowLog(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	mock.ExpectExec("INSERT INTO t").WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = drv.Exec(context.Background(), "INSERT INTO t VALUES (1)")
	require.NoError(t, err)

	assert.Equal(t, int64(1), drv.Stats()["INSERT"].Slow)
	assert.Contains(t, buf.String(), "slow statement")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	drv := NewDebugDriver(OpenDB(dialect.MySQL, db), logger)

	mock.ExpectExec("UPDATE t").WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = drv.Exec(context.Background(), "UPDATE t SET a = ?", 1)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "UPDATE t SET a = ?")
	assert.Contains(t, buf.String(), "dialect=mysql")
	require.NoError(t, mock.ExpectationsWereMet())
}

package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/syssam/narrator/dialect"
)

// Counter aggregates the statements of one SQL verb.
type Counter struct {
	Count    int64
	Errors   int64
	Slow     int64
	Duration time.Duration
}

// Avg returns the mean statement duration.
func (c Counter) Avg() time.Duration {
	if c.Count == 0 {
		return 0
	}
	return c.Duration / time.Duration(c.Count)
}

func (c Counter) add(o Counter) Counter {
	return Counter{
		Count:    c.Count + o.Count,
		Errors:   c.Errors + o.Errors,
		Slow:     c.Slow + o.Slow,
		Duration: c.Duration + o.Duration,
	}
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement counts as
// slow. It defaults to 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) { s.slow = d }
}

// WithSlowLog reports slow statements to logger at warn level.
func WithSlowLog(logger *slog.Logger) StatsOption {
	return func(s *StatsDriver) { s.logger = logger }
}

// StatsDriver wraps an ExecQuerier and counts its statements per verb
// (SELECT, INSERT, UPDATE, ...). The base DAOs issue one verb per
// operation, so the counters read as DAO call statistics.
//
//	drv, _ := sql.Open(dialect.Postgres, dsn)
//	stats := sql.NewStatsDriver(drv, sql.WithSlowLog(logger))
//	users := usersdao.NewUsersDao(stats)
type StatsDriver struct {
	dialect.ExecQuerier
	slow   time.Duration
	logger *slog.Logger

	mu    sync.Mutex
	verbs map[string]Counter
}

// NewStatsDriver wraps drv with statement counting.
func NewStatsDriver(drv dialect.ExecQuerier, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		ExecQuerier: drv,
		slow:        100 * time.Millisecond,
		verbs:       make(map[string]Counter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query executes a query and counts it.
func (d *StatsDriver) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.ExecQuerier.Query(ctx, query, args...)
	d.count(ctx, query, time.Since(start), err)
	return rows, err
}

// Exec executes a statement and counts it.
func (d *StatsDriver) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.ExecQuerier.Exec(ctx, query, args...)
	d.count(ctx, query, time.Since(start), err)
	return res, err
}

func (d *StatsDriver) count(ctx context.Context, query string, took time.Duration, err error) {
	c := Counter{Count: 1, Duration: took}
	if err != nil {
		c.Errors = 1
	}
	if took > d.slow {
		c.Slow = 1
		if d.logger != nil {
			d.logger.WarnContext(ctx, "slow statement", "duration", took, "query", query)
		}
	}
	v := verb(query)
	d.mu.Lock()
	d.verbs[v] = d.verbs[v].add(c)
	d.mu.Unlock()
}

// Stats returns a copy of the counters keyed by verb.
func (d *StatsDriver) Stats() map[string]Counter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.verbs)
}

// Total returns the sum of all counters.
func (d *StatsDriver) Total() Counter {
	var t Counter
	for _, c := range d.Stats() {
		t = t.add(c)
	}
	return t
}

// Reset clears the counters.
func (d *StatsDriver) Reset() {
	d.mu.Lock()
	clear(d.verbs)
	d.mu.Unlock()
}

// String summarizes the counters in verb order.
func (d *StatsDriver) String() string {
	stats := d.Stats()
	parts := make([]string, 0, len(stats))
	for _, v := range slices.Sorted(maps.Keys(stats)) {
		c := stats[v]
		parts = append(parts, fmt.Sprintf("%s=%d(errors=%d slow=%d avg=%s)", strings.ToLower(v), c.Count, c.Errors, c.Slow, c.Avg()))
	}
	return strings.Join(parts, " ")
}

// verb returns the leading keyword of query in upper case.
func verb(query string) string {
	f := strings.Fields(query)
	if len(f) == 0 {
		return ""
	}
	return strings.ToUpper(f[0])
}

// DebugDriver wraps an ExecQuerier and logs every statement at debug level.
type DebugDriver struct {
	dialect.ExecQuerier
	logger *slog.Logger
}

// NewDebugDriver wraps drv with statement logging. A nil logger logs to the
// default logger.
func NewDebugDriver(drv dialect.ExecQuerier, logger *slog.Logger) *DebugDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugDriver{ExecQuerier: drv, logger: logger}
}

// Query logs and executes a query.
func (d *DebugDriver) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	d.logger.DebugContext(ctx, "query", "dialect", d.Dialect(), "query", query, "args", args)
	return d.ExecQuerier.Query(ctx, query, args...)
}

// Exec logs and executes a statement.
func (d *DebugDriver) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.logger.DebugContext(ctx, "exec", "dialect", d.Dialect(), "query", query, "args", args)
	return d.ExecQuerier.Exec(ctx, query, args...)
}

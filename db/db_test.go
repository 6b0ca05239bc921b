// db/db_test.go — tests for the pool wrapper, error mapping and hooks.
// Uses an in-memory SQLite database; no external services required.
//
// Run:  go test ./db/... -race
package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/user-api/db"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test helpers
// ─────────────────────────────────────────────────────────────────────────────

const testSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE
	)`

func newTestDB(t *testing.T, hooks ...db.Hook) *db.DB {
	t.Helper()
	d, err := db.Open(db.Config{
		DSN:        ":memory:",
		DriverName: "sqlite3",
		Hooks:      hooks,
	})
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(context.Background(), testSchema)
	require.NoError(t, err, "create schema")
	return d
}

func insertUser(t *testing.T, d *db.DB, name, email string) int64 {
	t.Helper()
	res, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email) VALUES (?, ?)`, name, email)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// ─────────────────────────────────────────────────────────────────────────────
// Open / Ping
// ─────────────────────────────────────────────────────────────────────────────

func TestOpen(t *testing.T) {
	d := newTestDB(t)
	require.NoError(t, d.Ping(context.Background()))
	assert.Equal(t, "sqlite3", d.Dialect().Name())
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := db.Open(db.Config{DSN: "", DriverName: "sqlite3"})
	assert.Error(t, err, "empty DSN")

	_, err = db.Open(db.Config{DSN: ":memory:"})
	assert.Error(t, err, "empty driver name")

	_, err = db.Open(db.Config{DSN: ":memory:", DriverName: "oracle"})
	assert.ErrorContains(t, err, "no SQL dialect")
}

func TestOpen_MemoryUsesSingleConnection(t *testing.T) {
	d, err := db.Open(db.Config{DSN: ":memory:", DriverName: "sqlite3", MaxOpenConns: 8})
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, 1, d.Stats().MaxOpenConnections)
}

func TestOpen_UnreachableFile(t *testing.T) {
	_, err := db.Open(db.Config{
		DSN:        "file:/nonexistent-dir/sub/users.db?mode=ro",
		DriverName: "sqlite3",
	})
	require.Error(t, err)
	assert.True(t, db.IsConnectionFailed(err), "got %v", err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Exec / QueryRow
// ─────────────────────────────────────────────────────────────────────────────

func TestExec_Insert(t *testing.T) {
	d := newTestDB(t)

	res, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email) VALUES (?, ?)`, "Alice", "alice@test.com")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestQueryRow_Scan(t *testing.T) {
	d := newTestDB(t)
	id := insertUser(t, d, "Bob", "bob@test.com")

	var name, email string
	err := d.QueryRow(context.Background(),
		`SELECT name, email FROM users WHERE id = ?`, id).Scan(&name, &email)
	require.NoError(t, err)
	assert.Equal(t, "Bob", name)
	assert.Equal(t, "bob@test.com", email)
}

func TestQueryRow_NotFound(t *testing.T) {
	d := newTestDB(t)

	var name string
	err := d.QueryRow(context.Background(),
		`SELECT name FROM users WHERE id = ?`, 99999).Scan(&name)
	assert.True(t, db.IsNotFound(err), "expected ErrNotFound, got %v", err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Prepared statements
// ─────────────────────────────────────────────────────────────────────────────

func TestPrepare(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	stmt, err := d.Prepare(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`)
	require.NoError(t, err)
	defer stmt.Close()

	for _, email := range []string{"p1@test.com", "p2@test.com", "p3@test.com"} {
		_, err := stmt.Exec(ctx, "PrepUser", email)
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, d.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE name = ?`, "PrepUser").Scan(&n))
	assert.Equal(t, 3, n)
}

func TestPrepare_SyntaxError(t *testing.T) {
	d := newTestDB(t)
	_, err := d.Prepare(context.Background(), `SELEC name FROM users`)
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Error mapping (SQLite)
// ─────────────────────────────────────────────────────────────────────────────

func TestErrorMapper_DuplicateKey(t *testing.T) {
	d := newTestDB(t)
	insertUser(t, d, "Alice", "dup@test.com")

	_, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email) VALUES (?, ?)`, "Alice", "dup@test.com")
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKey(err), "expected ErrDuplicateKey, got %v", err)

	var dbe *db.DBError
	require.ErrorAs(t, err, &dbe)
	assert.Contains(t, dbe.Error(), "UNIQUE constraint failed")
}

func TestErrorMapper_NotNull(t *testing.T) {
	d := newTestDB(t)
	_, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email) VALUES (?, ?)`, nil, "x@test.com")
	assert.True(t, db.IsNotNullViolation(err), "expected ErrNotNullViolation, got %v", err)
}

func TestErrorMapper_PassThrough(t *testing.T) {
	m := db.DefaultErrorMapper()
	plain := errors.New("boom")

	assert.Nil(t, m.Map(nil))
	assert.Same(t, plain, m.Map(plain))

	mapped := m.Map(context.DeadlineExceeded)
	assert.True(t, db.IsTimeout(mapped))
	assert.Equal(t, mapped, m.Map(mapped), "already mapped errors are not wrapped again")
}

func TestChainMapper_FirstMatchWins(t *testing.T) {
	custom := errors.New("custom")
	m := db.ChainMapper(
		db.ErrorMapperFunc(func(err error) error {
			if err.Error() == "special" {
				return custom
			}
			return err
		}),
		db.DefaultErrorMapper(),
	)

	assert.Same(t, custom, m.Map(errors.New("special")))
	assert.True(t, db.IsTimeout(m.Map(context.Canceled)))
}

// ─────────────────────────────────────────────────────────────────────────────
// WithRetry
// ─────────────────────────────────────────────────────────────────────────────

func TestWithRetry_SucceedsOnSecondAttempt(t *testing.T) {
	attempts := 0
	transient := errors.New("transient")

	err := db.WithRetry(context.Background(), db.RetryConfig{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		RetryOn:     func(err error) bool { return errors.Is(err, transient) },
	}, func() error {
		attempts++
		if attempts < 2 {
			return transient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := db.WithRetry(context.Background(), db.RetryConfig{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
	}, func() error {
		attempts++
		return &db.DBError{Sentinel: db.ErrConnectionFailed, Cause: errors.New("refused")}
	})
	require.Error(t, err)
	assert.True(t, db.IsConnectionFailed(err))
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	permanent := errors.New("bad password")

	err := db.WithRetry(context.Background(), db.RetryConfig{MaxAttempts: 5}, func() error {
		attempts++
		return permanent
	})
	assert.Same(t, permanent, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := db.WithRetry(ctx, db.RetryConfig{MaxAttempts: 5, Delay: time.Hour}, func() error {
		attempts++
		cancel()
		return &db.DBError{Sentinel: db.ErrTimeout}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

// ─────────────────────────────────────────────────────────────────────────────
// Hooks
// ─────────────────────────────────────────────────────────────────────────────

type countingHook struct {
	mu      sync.Mutex
	before  int
	after   int
	lastErr error
}

func (h *countingHook) BeforeQuery(_ context.Context, _ string, _ []any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.before++
}

func (h *countingHook) AfterQuery(_ context.Context, _ string, _ []any, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.after++
	h.lastErr = err
}

type panickingHook struct{}

func (panickingHook) BeforeQuery(context.Context, string, []any) { panic("before") }
func (panickingHook) AfterQuery(context.Context, string, []any, time.Duration, error) {
	panic("after")
}

func TestHooks_CalledOnExec(t *testing.T) {
	hook := &countingHook{}
	d := newTestDB(t, hook) // schema creation counts as one statement

	_, err := d.Exec(context.Background(), `SELECT 1`)
	require.NoError(t, err)

	assert.Equal(t, 2, hook.before)
	assert.Equal(t, 2, hook.after)
}

func TestHooks_SeeMappedError(t *testing.T) {
	hook := &countingHook{}
	d := newTestDB(t, hook)
	insertUser(t, d, "A", "a@test.com")

	_, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email) VALUES (?, ?)`, "A", "a@test.com")
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKey(hook.lastErr))
}

func TestHooks_PanicIsRecovered(t *testing.T) {
	hook := &countingHook{}
	d := newTestDB(t, panickingHook{}, nil, hook)

	_, err := d.Exec(context.Background(), `SELECT 1`)
	require.NoError(t, err)
	assert.Equal(t, 2, hook.after, "hooks after a panicking one still run")
}

// ─────────────────────────────────────────────────────────────────────────────
// Context cancellation
// ─────────────────────────────────────────────────────────────────────────────

func TestContextCancellation(t *testing.T) {
	d := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Exec(ctx, `SELECT 1`)
	require.Error(t, err)
	assert.True(t, db.IsTimeout(err), "expected ErrTimeout, got %v", err)
}

func TestDefaultTimeout(t *testing.T) {
	d, err := db.Open(db.Config{
		DSN:            ":memory:",
		DriverName:     "sqlite3",
		DefaultTimeout: time.Second,
	})
	require.NoError(t, err)
	defer d.Close()

	var one int
	require.NoError(t, d.QueryRow(context.Background(), `SELECT 1`).Scan(&one))
	assert.Equal(t, 1, one)
}

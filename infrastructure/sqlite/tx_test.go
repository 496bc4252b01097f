package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "migrations")
	if err := ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

const insertLog = `INSERT INTO activity_logs (session_id, action, level, message) VALUES (?, ?, ?, ?)`

func countLogs(t *testing.T, db *DB, session string) int {
	t.Helper()
	var count int
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM activity_logs WHERE session_id = ?`, session).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count logs: %v", err)
	}
	return count
}

func TestWithWriteTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, insertLog, "rollback", "items.add", "success", "added"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got: %v", err)
	}
	if count := countLogs(t, db, "rollback"); count != 0 {
		t.Fatalf("expected rollback to remove insert, count=%d", count)
	}
}

func TestWithWriteTxCommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, insertLog, "commit", "items.add", "success", "added")
		return err
	})
	if err != nil {
		t.Fatalf("write tx failed: %v", err)
	}
	if count := countLogs(t, db, "commit"); count != 1 {
		t.Fatalf("expected committed insert, count=%d", count)
	}
}

func TestWithReadTxRejectsWrite(t *testing.T) {
	db := openTestDB(t)

	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, insertLog, "read-only", "items.add", "success", "added")
		return err
	})
	if err == nil && countLogs(t, db, "read-only") > 0 {
		t.Fatalf("expected write in read tx to be blocked; write succeeded")
	}
}

func TestNilDBReturnsNotInitialized(t *testing.T) {
	var db *DB
	err := db.WithWriteTx(context.Background(), func(context.Context, bun.Tx) error { return nil })
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

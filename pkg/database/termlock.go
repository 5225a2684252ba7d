package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TermLock is a session-scoped Postgres advisory lock serialising writers for
// one (semester, academic year) tuple. Two generation runs, or a generation run
// racing a direct schedule write, must not interleave conflict checks and
// commits for the same term.
type TermLock struct {
	conn *sqlx.Conn
	key  string
}

// AcquireTermLock takes the advisory lock for the given term, failing fast when
// another session already holds it. The lock is pinned to a dedicated
// connection and lives until Release is called.
func AcquireTermLock(ctx context.Context, db *sqlx.DB, semester, academicYear string) (*TermLock, error) {
	key := fmt.Sprintf("timetable:%s:%s", semester, academicYear)

	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire term lock connection: %w", err)
	}

	var acquired bool
	if err := conn.GetContext(ctx, &acquired, `SELECT pg_try_advisory_lock(hashtext($1))`, key); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("acquire term lock: %w", err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, nil
	}

	return &TermLock{conn: conn, key: key}, nil
}

// Locker acquires term locks against one database handle.
type Locker struct {
	DB *sqlx.DB
}

// Acquire takes the advisory lock for the term. A nil lock with a nil error
// means another session holds it.
func (l Locker) Acquire(ctx context.Context, semester, academicYear string) (*TermLock, error) {
	return AcquireTermLock(ctx, l.DB, semester, academicYear)
}

// Release unlocks the term and returns the connection to the pool.
func (l *TermLock) Release(ctx context.Context) error {
	if l == nil || l.conn == nil {
		return nil
	}
	defer func() {
		_ = l.conn.Close()
		l.conn = nil
	}()

	var released bool
	if err := l.conn.GetContext(ctx, &released, `SELECT pg_advisory_unlock(hashtext($1))`, l.key); err != nil {
		return fmt.Errorf("release term lock: %w", err)
	}
	return nil
}

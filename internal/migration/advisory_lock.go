package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// migrationLockName is hashed by postgres into the advisory lock key.
const migrationLockName = "invoicefmt.schema_migrations"

var lockWait = 2 * time.Minute

var ErrMigrationLockTimeout = errors.New("timed out waiting for the migration lock")

// withMigrationLock runs fn while holding a session advisory lock, waiting up to
// lockWait for another instance to finish. Session locks belong to one connection,
// so the lock and unlock both go through a pinned *sql.Conn.
func withMigrationLock(ctx context.Context, db *sql.DB, fn func(context.Context) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("pin migration lock connection: %w", err)
	}
	defer conn.Close()

	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()
	if _, err := conn.ExecContext(waitCtx, "SELECT pg_advisory_lock(hashtext($1))", migrationLockName); err != nil {
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrMigrationLockTimeout
		}
		return fmt.Errorf("acquire migration lock: %w", err)
	}

	runErr := fn(ctx)

	// Unlock even when ctx is already cancelled; otherwise the pooled
	// connection would keep the lock.
	unlockCtx, cancelUnlock := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancelUnlock()
	var released bool
	if err := conn.QueryRowContext(unlockCtx, "SELECT pg_advisory_unlock(hashtext($1))", migrationLockName).Scan(&released); err != nil {
		return errors.Join(runErr, fmt.Errorf("release migration lock: %w", err))
	}
	if !released {
		return errors.Join(runErr, errors.New("migration lock was not held by this session"))
	}
	return runErr
}

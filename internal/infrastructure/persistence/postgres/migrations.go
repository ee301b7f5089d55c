package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: GRADEBOOK
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Students keep insertion order through position; ids and usernames are
-- unique ignoring case. Grades and attendance are ordered JSON arrays.
CREATE TABLE IF NOT EXISTS students (
    position BIGSERIAL PRIMARY KEY,
    student_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    username TEXT NOT NULL,
    encrypted_password TEXT NOT NULL,
    grades JSONB NOT NULL DEFAULT '[]'::jsonb,
    attendance JSONB NOT NULL DEFAULT '[]'::jsonb,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_students_student_id ON students (lower(student_id));
CREATE UNIQUE INDEX IF NOT EXISTS idx_students_username ON students (lower(username));

CREATE TABLE IF NOT EXISTS admins (
    position BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL,
    encrypted_password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grade_transactions (
    id BIGSERIAL PRIMARY KEY,
    logged_at TIMESTAMP NOT NULL,
    student_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    score INTEGER NOT NULL,
    line TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_grade_transactions_student ON grade_transactions (student_id);

CREATE TABLE IF NOT EXISTS attendance_transactions (
    id BIGSERIAL PRIMARY KEY,
    logged_at TIMESTAMP NOT NULL,
    student_id TEXT NOT NULL,
    date TEXT NOT NULL,
    status TEXT NOT NULL,
    line TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attendance_transactions_student ON attendance_transactions (student_id);
`

const migrationTable = "schema_migrations"

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// GetMigrations returns all embedded migrations in version order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_gradebook", UpSQL: migration001Up},
	}
}

// EnsureSchema applies every pending migration. Each migration runs in its
// own transaction together with its bookkeeping row.
func EnsureSchema(ctx context.Context, conn *Connection) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationTable+` (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to create migrations table: %v", ErrMigrationFailed, err)
	}

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return err
	}

	for _, mig := range GetMigrations() {
		if _, ok := applied[mig.Version]; ok {
			continue
		}

		err := conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx,
				"INSERT INTO "+migrationTable+" (version, name) VALUES ($1, $2)",
				mig.Version, mig.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

func appliedMigrations(ctx context.Context, q Querier) (map[int]time.Time, error) {
	rows, err := q.Query(ctx, "SELECT version, applied_at FROM "+migrationTable+" ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

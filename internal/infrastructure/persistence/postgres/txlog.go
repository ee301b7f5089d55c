package postgres

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/ledger"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// TransactionLog implements ledger.Log with two append-only tables. Each row
// also stores the rendered log line so exports match the file backend.
type TransactionLog struct {
	conn Querier
}

// NewTransactionLog creates a new TransactionLog.
func NewTransactionLog(conn Querier) *TransactionLog {
	return &TransactionLog{conn: conn}
}

// AppendGrade inserts e into grade_transactions.
func (t *TransactionLog) AppendGrade(ctx context.Context, e ledger.GradeEntry) error {
	_, err := t.conn.Exec(ctx, `
		INSERT INTO grade_transactions (logged_at, student_id, subject, score, line)
		VALUES ($1, $2, $3, $4, $5)
	`, e.At, e.StudentID, e.Subject, e.Score, e.Line())
	if err != nil {
		return shared.StorageError("postgres", "AppendGrade", "failed to log grade", err)
	}
	return nil
}

// AppendAttendance inserts e into attendance_transactions.
func (t *TransactionLog) AppendAttendance(ctx context.Context, e ledger.AttendanceEntry) error {
	_, err := t.conn.Exec(ctx, `
		INSERT INTO attendance_transactions (logged_at, student_id, date, status, line)
		VALUES ($1, $2, $3, $4, $5)
	`, e.At, e.StudentID, e.Date, e.Status.String(), e.Line())
	if err != nil {
		return shared.StorageError("postgres", "AppendAttendance", "failed to log attendance", err)
	}
	return nil
}

var _ ledger.Log = (*TransactionLog)(nil)

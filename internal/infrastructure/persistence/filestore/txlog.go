package filestore

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/ledger"
)

// TransactionLog implements ledger.Log by appending to the two transaction
// files. It never reads them.
type TransactionLog struct {
	store *LineStore
	paths Paths
}

// NewTransactionLog creates a TransactionLog over paths.
func NewTransactionLog(store *LineStore, paths Paths) *TransactionLog {
	return &TransactionLog{store: store, paths: paths}
}

// AppendGrade appends e to the grade log.
func (t *TransactionLog) AppendGrade(_ context.Context, e ledger.GradeEntry) error {
	return t.store.AppendLine(t.paths.GradesLog, e.Line())
}

// AppendAttendance appends e to the attendance log.
func (t *TransactionLog) AppendAttendance(_ context.Context, e ledger.AttendanceEntry) error {
	return t.store.AppendLine(t.paths.AttendanceLog, e.Line())
}

var _ ledger.Log = (*TransactionLog)(nil)

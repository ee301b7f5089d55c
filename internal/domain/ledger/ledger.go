// Package ledger defines the append-only transaction logs that record every
// grade assignment and attendance mark. Entries are written before the master
// record is updated and are never read back by the application.
package ledger

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/timeutil"
)

// Kind names a transaction log.
type Kind string

const (
	KindGrade      Kind = "grades"
	KindAttendance Kind = "attendance"
)

// GradeEntry records one successful grade assignment.
type GradeEntry struct {
	At        time.Time
	StudentID string
	Subject   string
	Score     int
}

// Line renders the entry as timestamp|studentId|subject|score.
func (e GradeEntry) Line() string {
	return join(timeutil.Stamp(e.At), e.StudentID, e.Subject, strconv.Itoa(e.Score))
}

// AttendanceEntry records one successful attendance mark.
type AttendanceEntry struct {
	At        time.Time
	StudentID string
	Date      string
	Status    student.AttendanceStatus
}

// Line renders the entry as timestamp|studentId|date|status.
func (e AttendanceEntry) Line() string {
	return join(timeutil.Stamp(e.At), e.StudentID, e.Date, e.Status.String())
}

// Log appends entries durably. An error means the entry may not have been
// persisted and the caller must not proceed with the master update.
type Log interface {
	AppendGrade(ctx context.Context, e GradeEntry) error
	AppendAttendance(ctx context.Context, e AttendanceEntry) error
}

func join(fields ...string) string {
	return strings.Join(fields, "|")
}

// Package audit fans transaction log entries out to several ledgers.
package audit

import (
	"context"
	"fmt"

	"github.com/alem-hub/gradebook/internal/domain/ledger"
	"github.com/alem-hub/gradebook/pkg/circuitbreaker"
	"github.com/alem-hub/gradebook/pkg/logger"
)

// Tee writes every entry to a primary log and then to zero or more mirrors.
// A primary failure is returned and no mirror is attempted. Mirror failures
// are logged and otherwise ignored; a mirror that keeps failing is skipped
// until its breaker lets a trial write through.
type Tee struct {
	primary ledger.Log
	mirrors []mirror
	log     *logger.Logger
}

type mirror struct {
	ledger.Log
	breaker *circuitbreaker.CircuitBreaker
}

// NewTee creates a Tee. A nil logger discards output.
func NewTee(primary ledger.Log, log *logger.Logger, mirrors ...ledger.Log) *Tee {
	if log == nil {
		log = logger.Nop()
	}
	t := &Tee{
		primary: primary,
		log:     log.With(logger.Component("audit")),
	}
	for i, m := range mirrors {
		name := fmt.Sprintf("mirror-%d", i)
		t.mirrors = append(t.mirrors, mirror{
			Log:     m,
			breaker: circuitbreaker.MirrorBreaker(name, t.onStateChange),
		})
	}
	return t
}

func (t *Tee) onStateChange(name string, from, to circuitbreaker.State) {
	t.log.Warn("mirror breaker state changed",
		logger.String("mirror", name),
		logger.String("from", from.String()),
		logger.String("to", to.String()),
	)
}

// AppendGrade implements ledger.Log.
func (t *Tee) AppendGrade(ctx context.Context, e ledger.GradeEntry) error {
	if err := t.primary.AppendGrade(ctx, e); err != nil {
		return err
	}
	for _, m := range t.mirrors {
		err := m.breaker.Execute(ctx, func(ctx context.Context) error {
			return m.AppendGrade(ctx, e)
		})
		t.report("grade", m, e.StudentID, err)
	}
	return nil
}

// AppendAttendance implements ledger.Log.
func (t *Tee) AppendAttendance(ctx context.Context, e ledger.AttendanceEntry) error {
	if err := t.primary.AppendAttendance(ctx, e); err != nil {
		return err
	}
	for _, m := range t.mirrors {
		err := m.breaker.Execute(ctx, func(ctx context.Context) error {
			return m.AppendAttendance(ctx, e)
		})
		t.report("attendance", m, e.StudentID, err)
	}
	return nil
}

func (t *Tee) report(kind string, m mirror, studentID string, err error) {
	switch {
	case err == nil:
	case circuitbreaker.IsRejected(err):
		t.log.Debug(kind+" mirror skipped", logger.String("mirror", m.breaker.Name()), logger.StudentID(studentID))
	default:
		t.log.Warn(kind+" mirror failed", logger.String("mirror", m.breaker.Name()), logger.StudentID(studentID), logger.Err(err))
	}
}

var _ ledger.Log = (*Tee)(nil)

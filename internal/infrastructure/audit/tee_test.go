package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alem-hub/gradebook/internal/domain/ledger"
	"github.com/alem-hub/gradebook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLog struct {
	lines []string
	err   error
}

func (r *recordingLog) AppendGrade(_ context.Context, e ledger.GradeEntry) error {
	if r.err != nil {
		return r.err
	}
	r.lines = append(r.lines, e.Line())
	return nil
}

func (r *recordingLog) AppendAttendance(_ context.Context, e ledger.AttendanceEntry) error {
	if r.err != nil {
		return r.err
	}
	r.lines = append(r.lines, e.Line())
	return nil
}

func TestTee_WritesPrimaryThenMirrors(t *testing.T) {
	primary, mirror := &recordingLog{}, &recordingLog{}
	tee := NewTee(primary, nil, mirror)
	ctx := context.Background()

	g := ledger.GradeEntry{StudentID: "S1", Subject: "Math", Score: 90}
	a := ledger.AttendanceEntry{StudentID: "S1", Date: "2024-01-05", Status: "Present"}
	require.NoError(t, tee.AppendGrade(ctx, g))
	require.NoError(t, tee.AppendAttendance(ctx, a))

	assert.Equal(t, []string{g.Line(), a.Line()}, primary.lines)
	assert.Equal(t, primary.lines, mirror.lines)
}

func TestTee_PrimaryFailureSkipsMirrors(t *testing.T) {
	boom := errors.New("disk full")
	primary, mirror := &recordingLog{err: boom}, &recordingLog{}
	tee := NewTee(primary, nil, mirror)

	err := tee.AppendGrade(context.Background(), ledger.GradeEntry{StudentID: "S1"})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mirror.lines)
}

func TestTee_MirrorFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelDebug})
	primary := &recordingLog{}
	tee := NewTee(primary, log, &recordingLog{err: errors.New("redis down")})

	err := tee.AppendAttendance(context.Background(), ledger.AttendanceEntry{StudentID: "S1"})

	require.NoError(t, err)
	assert.Len(t, primary.lines, 1)
	assert.Contains(t, buf.String(), "attendance mirror failed")
	assert.Contains(t, buf.String(), "redis down")
}

type countingLog struct {
	recordingLog
	calls int
}

func (c *countingLog) AppendGrade(ctx context.Context, e ledger.GradeEntry) error {
	c.calls++
	return c.recordingLog.AppendGrade(ctx, e)
}

func TestTee_FailingMirrorIsSkippedOnceBreakerOpens(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelWarn})
	primary := &recordingLog{}
	broken := &countingLog{recordingLog: recordingLog{err: errors.New("redis down")}}
	tee := NewTee(primary, log, broken)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, tee.AppendGrade(ctx, ledger.GradeEntry{StudentID: "S1", Subject: "Math", Score: i}))
	}

	assert.Len(t, primary.lines, 5)
	assert.Equal(t, 3, broken.calls)
	assert.Contains(t, buf.String(), "mirror breaker state changed")
}

// Package records implements the academic record use cases: registering
// students, assigning grades, marking attendance and reading records back.
//
// Mutations validate first, then write the transaction log, then update the
// master record. A rejected request has no side effect at all.
package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alem-hub/gradebook/internal/domain/ledger"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/cipher"
	"github.com/alem-hub/gradebook/pkg/logger"
	"github.com/alem-hub/gradebook/pkg/timeutil"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// Service coordinates the record repository and the transaction logs.
type Service struct {
	repo     student.Repository
	txlog    ledger.Log
	log      *logger.Logger
	clock    timeutil.Clock
	workbook Workbook
}

// NewService creates a Service. A nil logger discards output.
func NewService(repo student.Repository, txlog ledger.Log, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		txlog: txlog,
		log:   log.With(logger.Component("records")),
		clock: timeutil.Now,
	}
}

// WithClock replaces the clock used for transaction timestamps.
func (s *Service) WithClock(clock timeutil.Clock) *Service {
	s.clock = clock
	return s
}

// WithWorkbook enables roster import and gradebook export.
func (s *Service) WithWorkbook(wb Workbook) *Service {
	s.workbook = wb
	return s
}

func (s *Service) opLogger(op string) *logger.Logger {
	return s.log.WithRequestID(uuid.NewString()).With(logger.Operation(op))
}

// accepted folds a handler error into the (ok, err) convention: validation
// failures become (false, nil), anything else is returned.
func accepted(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case shared.IsStorage(err):
		return false, err
	case shared.IsValidation(err):
		return false, nil
	default:
		return false, err
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// AddStudent registers a student. It returns false without writing anything
// when the id, username or password is blank, or when the id or username is
// already taken.
func (s *Service) AddStudent(ctx context.Context, studentID, name, username, rawPassword string) (bool, error) {
	return accepted(s.HandleAddStudent(ctx, AddStudentCommand{
		StudentID: studentID,
		Name:      name,
		Username:  username,
		Password:  rawPassword,
	}))
}

// HandleAddStudent is AddStudent with the rejection reason returned as a
// validation-kind shared.DomainError.
func (s *Service) HandleAddStudent(ctx context.Context, cmd AddStudentCommand) error {
	log := s.opLogger("AddStudent")
	start := time.Now()

	if err := check(cmd); err != nil {
		log.Info("student rejected", logger.StudentID(cmd.StudentID), logger.Reason(err))
		return err
	}

	id := strings.TrimSpace(cmd.StudentID)
	username := strings.TrimSpace(cmd.Username)

	if _, found, err := s.repo.FindByStudentID(ctx, id); err != nil {
		return err
	} else if found {
		log.Info("student rejected", logger.StudentID(id), logger.Reason(shared.ErrStudentIDTaken))
		return shared.ErrStudentIDTaken
	}

	if _, found, err := s.repo.FindByUsername(ctx, username); err != nil {
		return err
	} else if found {
		log.Info("student rejected", logger.Username(username), logger.Reason(shared.ErrUsernameTaken))
		return shared.ErrUsernameTaken
	}

	st := student.New(id, strings.TrimSpace(cmd.Name), username, cipher.Obscure(cmd.Password))
	if err := s.repo.Upsert(ctx, st); err != nil {
		log.Error("failed to save student", logger.StudentID(id), logger.Err(err))
		return err
	}

	log.Info("student added",
		logger.StudentID(id),
		logger.Username(username),
		logger.Latency(time.Since(start)),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGN GRADE
// ══════════════════════════════════════════════════════════════════════════════

// AssignGrade sets the score for a subject, replacing an existing grade for
// the same subject (case-insensitive) in place. It returns false without
// writing anything for an unknown student, a blank subject or a score
// outside [0, 100].
func (s *Service) AssignGrade(ctx context.Context, studentID, subject string, score int) (bool, error) {
	return accepted(s.HandleAssignGrade(ctx, AssignGradeCommand{
		StudentID: studentID,
		Subject:   subject,
		Score:     score,
	}))
}

// HandleAssignGrade is AssignGrade with the rejection reason returned.
func (s *Service) HandleAssignGrade(ctx context.Context, cmd AssignGradeCommand) error {
	log := s.opLogger("AssignGrade")

	if err := check(cmd); err != nil {
		log.Info("grade rejected", logger.StudentID(cmd.StudentID), logger.Reason(err))
		return err
	}

	st, found, err := s.repo.FindByStudentID(ctx, strings.TrimSpace(cmd.StudentID))
	if err != nil {
		return err
	}
	if !found {
		log.Info("grade rejected", logger.StudentID(cmd.StudentID), logger.Reason(shared.ErrStudentNotFound))
		return shared.ErrStudentNotFound
	}

	subject := strings.TrimSpace(cmd.Subject)
	entry := ledger.GradeEntry{
		At:        s.clock(),
		StudentID: st.StudentID,
		Subject:   subject,
		Score:     cmd.Score,
	}
	if err := s.txlog.AppendGrade(ctx, entry); err != nil {
		log.Error("failed to log grade", logger.StudentID(st.StudentID), logger.Err(err))
		return err
	}

	replaced := st.SetGrade(subject, cmd.Score)
	if err := s.repo.Upsert(ctx, st); err != nil {
		log.Error("failed to save grade", logger.StudentID(st.StudentID), logger.Err(err))
		return err
	}

	log.Info("grade assigned",
		logger.StudentID(st.StudentID),
		logger.Subject(subject),
		logger.Score(cmd.Score),
		logger.Bool("replaced", replaced),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendance records Present or Absent for a date, replacing an existing
// mark for the identical date string in place. It returns false without
// writing anything for an unknown student, a blank date or any other status.
func (s *Service) MarkAttendance(ctx context.Context, studentID, date, status string) (bool, error) {
	return accepted(s.HandleMarkAttendance(ctx, MarkAttendanceCommand{
		StudentID: studentID,
		Date:      date,
		Status:    status,
	}))
}

// HandleMarkAttendance is MarkAttendance with the rejection reason returned.
func (s *Service) HandleMarkAttendance(ctx context.Context, cmd MarkAttendanceCommand) error {
	log := s.opLogger("MarkAttendance")

	if err := check(cmd); err != nil {
		log.Info("attendance rejected", logger.StudentID(cmd.StudentID), logger.Reason(err))
		return err
	}

	st, found, err := s.repo.FindByStudentID(ctx, strings.TrimSpace(cmd.StudentID))
	if err != nil {
		return err
	}
	if !found {
		log.Info("attendance rejected", logger.StudentID(cmd.StudentID), logger.Reason(shared.ErrStudentNotFound))
		return shared.ErrStudentNotFound
	}

	date := strings.TrimSpace(cmd.Date)
	status, _ := student.ParseStatus(cmd.Status)

	entry := ledger.AttendanceEntry{
		At:        s.clock(),
		StudentID: st.StudentID,
		Date:      date,
		Status:    status,
	}
	if err := s.txlog.AppendAttendance(ctx, entry); err != nil {
		log.Error("failed to log attendance", logger.StudentID(st.StudentID), logger.Err(err))
		return err
	}

	replaced := st.MarkAttendance(date, status)
	if err := s.repo.Upsert(ctx, st); err != nil {
		log.Error("failed to save attendance", logger.StudentID(st.StudentID), logger.Err(err))
		return err
	}

	log.Info("attendance marked",
		logger.StudentID(st.StudentID),
		logger.Date(date),
		logger.Status(status.String()),
		logger.Bool("replaced", replaced),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// READS
// ══════════════════════════════════════════════════════════════════════════════

// GetAllStudents returns every stored student in file order.
func (s *Service) GetAllStudents(ctx context.Context) ([]*student.Student, error) {
	return s.repo.LoadAll(ctx)
}

// GetByStudentID looks a student up by id (case-insensitive).
func (s *Service) GetByStudentID(ctx context.Context, studentID string) (*student.Student, bool, error) {
	return s.repo.FindByStudentID(ctx, strings.TrimSpace(studentID))
}

// GetByUsername looks a student up by username (case-insensitive).
func (s *Service) GetByUsername(ctx context.Context, username string) (*student.Student, bool, error) {
	return s.repo.FindByUsername(ctx, strings.TrimSpace(username))
}

// Stats returns the aggregates for one student.
func (s *Service) Stats(ctx context.Context, studentID string) (student.Stats, bool, error) {
	st, found, err := s.GetByStudentID(ctx, studentID)
	if err != nil || !found {
		return student.Stats{}, found, err
	}
	return st.Stats(), true, nil
}

// BuildSummary renders a human-readable report of one record.
func (s *Service) BuildSummary(st *student.Student) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Student ID: %s\n", st.StudentID)
	fmt.Fprintf(&sb, "Name: %s\n", st.Name)
	fmt.Fprintf(&sb, "Username: %s\n\n", st.Username)

	sb.WriteString("Grades:\n")
	if len(st.Grades) == 0 {
		sb.WriteString("- none\n")
	}
	for _, g := range st.Grades {
		fmt.Fprintf(&sb, "- %s: %d\n", g.Subject, g.Score)
	}

	sb.WriteString("\nAttendance:\n")
	if len(st.Attendance) == 0 {
		sb.WriteString("- none\n")
	}
	for _, a := range st.Attendance {
		fmt.Fprintf(&sb, "- %s: %s\n", a.Date, a.Status)
	}

	return sb.String()
}

package records

import (
	"context"
	"errors"
	"io"

	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/logger"
)

// ErrNoWorkbook is returned by import and export when no Workbook is set.
var ErrNoWorkbook = errors.New("records: spreadsheet support is not configured")

// RosterRow is one student row of an imported roster.
type RosterRow struct {
	StudentID string
	Name      string
	Username  string
	Password  string
}

// Workbook reads rosters and writes gradebooks in a spreadsheet format.
type Workbook interface {
	ReadRoster(r io.Reader) ([]RosterRow, error)
	WriteGradebook(w io.Writer, students []*student.Student) error
}

// SkippedRow explains why a roster row was not imported.
type SkippedRow struct {
	Row    int // 1-based data row, header excluded
	Reason error
}

// ImportResult summarizes a roster import.
type ImportResult struct {
	Imported int
	Skipped  []SkippedRow
}

// ImportRoster adds every roster row through the same rules as AddStudent.
// Rejected rows are reported in the result; a storage failure stops the
// import and is returned along with the partial result.
func (s *Service) ImportRoster(ctx context.Context, r io.Reader) (ImportResult, error) {
	var result ImportResult
	if s.workbook == nil {
		return result, ErrNoWorkbook
	}

	log := s.opLogger("ImportRoster")

	rows, err := s.workbook.ReadRoster(r)
	if err != nil {
		return result, shared.WrapError("records", "ImportRoster", shared.ErrInvalidFormat, "cannot read roster", err)
	}

	for i, row := range rows {
		err := s.HandleAddStudent(ctx, AddStudentCommand(row))
		switch {
		case err == nil:
			result.Imported++
		case shared.IsValidation(err) && !shared.IsStorage(err):
			result.Skipped = append(result.Skipped, SkippedRow{Row: i + 1, Reason: err})
		default:
			return result, err
		}
	}

	log.Info("roster imported",
		logger.Int("imported", result.Imported),
		logger.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// ExportGradebook writes every stored student as a gradebook workbook.
func (s *Service) ExportGradebook(ctx context.Context, w io.Writer) error {
	if s.workbook == nil {
		return ErrNoWorkbook
	}

	students, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	if err := s.workbook.WriteGradebook(w, students); err != nil {
		return shared.StorageError("records", "ExportGradebook", "cannot write gradebook", err)
	}

	s.opLogger("ExportGradebook").Info("gradebook exported", logger.Int("students", len(students)))
	return nil
}

// Package spreadsheet reads student rosters from and writes gradebooks to
// XLSX workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alem-hub/gradebook/internal/application/records"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported gradebook.
const (
	StudentsSheet   = "Students"
	GradesSheet     = "Grades"
	AttendanceSheet = "Attendance"
)

// ErrNoSheets is returned for a workbook without any sheet.
var ErrNoSheets = errors.New("spreadsheet: workbook does not contain any sheets")

var (
	studentsHeader   = []any{"Student ID", "Name", "Username", "Grades", "Attendance", "Average", "Attendance %"}
	gradesHeader     = []any{"Student ID", "Subject", "Score"}
	attendanceHeader = []any{"Student ID", "Date", "Status"}
)

// Workbook implements records.Workbook with excelize.
type Workbook struct {
	log *logger.Logger
}

// New creates a Workbook. A nil logger discards output.
func New(log *logger.Logger) *Workbook {
	if log == nil {
		log = logger.Nop()
	}
	return &Workbook{log: log.With(logger.Component("spreadsheet"))}
}

// ReadRoster reads the first sheet of an XLSX workbook. The first row is a
// header; columns A to D hold id, name, username and password. Rows with
// every cell blank are ignored.
func (wb *Workbook) ReadRoster(r io.Reader) ([]records.RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			wb.log.Warn("failed to close workbook", logger.Err(err))
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: failed to get rows from sheet %s: %w", sheet, err)
	}

	roster := make([]records.RosterRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		roster = append(roster, records.RosterRow{
			StudentID: cell(row, 0),
			Name:      cell(row, 1),
			Username:  cell(row, 2),
			Password:  cell(row, 3),
		})
	}

	wb.log.Debug("roster read", logger.String("sheet", sheet), logger.Int("rows", len(roster)))
	return roster, nil
}

// WriteGradebook writes one workbook with a summary sheet and one sheet each
// for grades and attendance, in record order.
func (wb *Workbook) WriteGradebook(w io.Writer, students []*student.Student) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			wb.log.Warn("failed to close workbook", logger.Err(err))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), StudentsSheet); err != nil {
		return fmt.Errorf("spreadsheet: failed to rename sheet: %w", err)
	}
	for _, name := range []string{GradesSheet, AttendanceSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("spreadsheet: failed to create sheet %s: %w", name, err)
		}
	}

	summary := [][]any{studentsHeader}
	grades := [][]any{gradesHeader}
	attendance := [][]any{attendanceHeader}

	for _, s := range students {
		st := s.Stats()
		summary = append(summary, []any{
			s.StudentID,
			s.Name,
			s.Username,
			st.GradeCount,
			st.AttendanceCount,
			percent(st.AverageScore, st.HasGrades()),
			percent(st.AttendanceRate, st.HasAttendance()),
		})
		for _, g := range s.Grades {
			grades = append(grades, []any{s.StudentID, g.Subject, g.Score})
		}
		for _, a := range s.Attendance {
			attendance = append(attendance, []any{s.StudentID, a.Date, a.Status.String()})
		}
	}

	for sheet, rows := range map[string][][]any{
		StudentsSheet:   summary,
		GradesSheet:     grades,
		AttendanceSheet: attendance,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("spreadsheet: failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("spreadsheet: failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// percent formats v with two decimals, or returns "" when there is no data.
func percent(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var _ records.Workbook = (*Workbook)(nil)

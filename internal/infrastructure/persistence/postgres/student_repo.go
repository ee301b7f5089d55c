package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn Querier
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn Querier) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const selectStudents = `
	SELECT student_id, name, username, encrypted_password, grades, attendance
	FROM students
`

// LoadAll returns every student in insertion order. Rows whose JSON columns
// cannot be decoded are skipped.
func (r *StudentRepository) LoadAll(ctx context.Context) ([]*student.Student, error) {
	rows, err := r.conn.Query(ctx, selectStudents+" ORDER BY position")
	if err != nil {
		return nil, shared.StorageError("postgres", "LoadAll", "failed to query students", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			continue
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.StorageError("postgres", "LoadAll", "failed to read students", err)
	}

	return students, nil
}

// FindByUsername returns the student whose username matches ignoring case.
func (r *StudentRepository) FindByUsername(ctx context.Context, username string) (*student.Student, bool, error) {
	return r.findOne(ctx, "FindByUsername", "lower(username) = lower($1)", username)
}

// FindByStudentID returns the student whose id matches ignoring case.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*student.Student, bool, error) {
	return r.findOne(ctx, "FindByStudentID", "lower(student_id) = lower($1)", studentID)
}

func (r *StudentRepository) findOne(ctx context.Context, op, where string, arg string) (*student.Student, bool, error) {
	row := r.conn.QueryRow(ctx, selectStudents+" WHERE "+where+" ORDER BY position LIMIT 1", arg)

	s, err := scanStudent(row)
	if IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.StorageError("postgres", op, "failed to load student", err)
	}
	return s, true, nil
}

// Upsert inserts s or updates the row with the same id ignoring case. An
// updated row keeps its position.
func (r *StudentRepository) Upsert(ctx context.Context, s *student.Student) error {
	grades, attendance, err := marshalLists(s)
	if err != nil {
		return shared.StorageError("postgres", "Upsert", "failed to encode student", err)
	}

	_, err = r.conn.Exec(ctx, `
		INSERT INTO students (student_id, name, username, encrypted_password, grades, attendance)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ((lower(student_id))) DO UPDATE SET
			student_id = EXCLUDED.student_id,
			name = EXCLUDED.name,
			username = EXCLUDED.username,
			encrypted_password = EXCLUDED.encrypted_password,
			grades = EXCLUDED.grades,
			attendance = EXCLUDED.attendance,
			updated_at = NOW()
	`,
		s.StudentID,
		s.Name,
		s.Username,
		s.EncryptedPassword,
		grades,
		attendance,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUsernameTaken
		}
		return shared.StorageError("postgres", "Upsert", "failed to save student", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

type gradeJSON struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

type attendanceJSON struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

func marshalLists(s *student.Student) (grades, attendance []byte, err error) {
	g := make([]gradeJSON, 0, len(s.Grades))
	for _, gr := range s.Grades {
		g = append(g, gradeJSON{Subject: gr.Subject, Score: gr.Score})
	}
	a := make([]attendanceJSON, 0, len(s.Attendance))
	for _, at := range s.Attendance {
		a = append(a, attendanceJSON{Date: at.Date, Status: at.Status.String()})
	}

	if grades, err = json.Marshal(g); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal grades: %w", err)
	}
	if attendance, err = json.Marshal(a); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal attendance: %w", err)
	}
	return grades, attendance, nil
}

func unmarshalLists(s *student.Student, grades, attendance []byte) error {
	var g []gradeJSON
	if len(grades) > 0 {
		if err := json.Unmarshal(grades, &g); err != nil {
			return fmt.Errorf("failed to unmarshal grades: %w", err)
		}
	}
	var a []attendanceJSON
	if len(attendance) > 0 {
		if err := json.Unmarshal(attendance, &a); err != nil {
			return fmt.Errorf("failed to unmarshal attendance: %w", err)
		}
	}

	for _, gr := range g {
		s.Grades = append(s.Grades, student.Grade{Subject: gr.Subject, Score: gr.Score})
	}
	for _, at := range a {
		status, ok := student.ParseStatus(at.Status)
		if !ok {
			status = student.AttendanceStatus(at.Status)
		}
		s.Attendance = append(s.Attendance, student.Attendance{Date: at.Date, Status: status})
	}
	return nil
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var id, name, username, password string
	var grades, attendance []byte

	if err := row.Scan(&id, &name, &username, &password, &grades, &attendance); err != nil {
		return nil, err
	}

	s := student.New(id, name, username, password)
	if err := unmarshalLists(s, grades, attendance); err != nil {
		return nil, err
	}
	return s, nil
}

var _ student.Repository = (*StudentRepository)(nil)

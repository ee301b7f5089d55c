// Package student contains the academic record model: a student with an
// ordered list of grades and an ordered list of attendance marks.
// It has no dependencies outside the standard library and the shared package.
package student

import (
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Score bounds, inclusive.
const (
	MinScore = 0
	MaxScore = 100
)

// Grade is one subject result. Subjects are unique per student, compared
// case-insensitively.
type Grade struct {
	Subject string
	Score   int
}

// ScoreInRange reports whether score lies in [MinScore, MaxScore].
func ScoreInRange(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// AttendanceStatus is the canonical form of an attendance mark.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// ParseStatus canonicalizes s ("present", " ABSENT ") to a status.
// ok is false for anything other than present/absent.
func ParseStatus(s string) (status AttendanceStatus, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return StatusPresent, true
	case "absent":
		return StatusAbsent, true
	default:
		return "", false
	}
}

// String returns the status text as stored.
func (s AttendanceStatus) String() string {
	return string(s)
}

// Attendance is one mark for a date. Dates are free-text keys compared
// exactly; YYYY-MM-DD is expected but not enforced.
type Attendance struct {
	Date   string
	Status AttendanceStatus
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is one line of the master file.
type Student struct {
	// StudentID is unique across the master file, compared case-insensitively.
	StudentID string

	Name string

	// Username is unique across the master file, compared case-insensitively.
	Username string

	// EncryptedPassword is the cipher image of the password. The clear text
	// is never stored.
	EncryptedPassword string

	Grades     []Grade
	Attendance []Attendance
}

// New creates a student with empty grade and attendance lists.
func New(studentID, name, username, encryptedPassword string) *Student {
	return &Student{
		StudentID:         studentID,
		Name:              name,
		Username:          username,
		EncryptedPassword: encryptedPassword,
		Grades:            []Grade{},
		Attendance:        []Attendance{},
	}
}

// HasID reports whether id names this student (case-insensitive).
func (s *Student) HasID(id string) bool {
	return strings.EqualFold(s.StudentID, id)
}

// HasUsername reports whether username names this student (case-insensitive).
func (s *Student) HasUsername(username string) bool {
	return strings.EqualFold(s.Username, username)
}

// SetGrade overwrites the grade of a matching subject in place, or appends a
// new entry. Returns true when an existing entry was replaced.
func (s *Student) SetGrade(subject string, score int) (replaced bool) {
	for i := range s.Grades {
		if strings.EqualFold(s.Grades[i].Subject, subject) {
			s.Grades[i] = Grade{Subject: subject, Score: score}
			return true
		}
	}
	s.Grades = append(s.Grades, Grade{Subject: subject, Score: score})
	return false
}

// MarkAttendance overwrites the mark for an identical date string in place,
// or appends a new one. Returns true when an existing entry was replaced.
func (s *Student) MarkAttendance(date string, status AttendanceStatus) (replaced bool) {
	for i := range s.Attendance {
		if s.Attendance[i].Date == date {
			s.Attendance[i] = Attendance{Date: date, Status: status}
			return true
		}
	}
	s.Attendance = append(s.Attendance, Attendance{Date: date, Status: status})
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS
// ══════════════════════════════════════════════════════════════════════════════

// Stats summarizes a student's record the way the dashboards show it.
type Stats struct {
	GradeCount      int
	AverageScore    float64 // 0 when there are no grades
	AttendanceCount int
	PresentCount    int
	AttendanceRate  float64 // percent of marks that are Present; 0 when none
}

// HasGrades reports whether an average is meaningful.
func (st Stats) HasGrades() bool { return st.GradeCount > 0 }

// HasAttendance reports whether a rate is meaningful.
func (st Stats) HasAttendance() bool { return st.AttendanceCount > 0 }

// Stats computes grade and attendance aggregates.
func (s *Student) Stats() Stats {
	st := Stats{
		GradeCount:      len(s.Grades),
		AttendanceCount: len(s.Attendance),
	}

	if st.GradeCount > 0 {
		total := 0
		for _, g := range s.Grades {
			total += g.Score
		}
		st.AverageScore = float64(total) / float64(st.GradeCount)
	}

	if st.AttendanceCount > 0 {
		for _, a := range s.Attendance {
			if strings.EqualFold(string(a.Status), string(StatusPresent)) {
				st.PresentCount++
			}
		}
		st.AttendanceRate = float64(st.PresentCount) * 100 / float64(st.AttendanceCount)
	}

	return st
}

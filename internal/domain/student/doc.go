// Package student contains the academic record model.
//
// A Student owns two ordered lists:
//
//   - Grades: one entry per subject (case-insensitive), score in [0,100]
//   - Attendance: one entry per date string (exact match), Present or Absent
//
// Both lists are mutated in place so positions survive overwrites:
//
//	s := student.New("S1", "Aida", "aida", cipher.Obscure("secret"))
//	s.SetGrade("Math", 95)
//	s.SetGrade("math", 60) // replaces the first entry, keeps its position
//	s.MarkAttendance("2024-01-05", student.StatusPresent)
//
// Repository is implemented by the flat-file store and by the PostgreSQL
// store under internal/infrastructure/persistence.
package student

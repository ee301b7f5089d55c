package filestore

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alem-hub/gradebook/internal/domain/account"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

// Record encoding, one student per line:
//
//	studentId|name|username|encryptedPassword|gradesCSV|attendanceCSV
//
// gradesCSV is "subject:score,..." and attendanceCSV is "date:status,...".
// Values are not escaped. Field values containing '|', ',' or ':' are
// rejected before they reach the encoder, except the encrypted password:
// the cipher can map ordinary characters onto '|', so when a line has more
// than six fields the surplus belongs to the password.
const (
	fieldSep = "|"
	itemSep  = ","
	pairSep  = ":"

	minStudentFields = 4
	allStudentFields = 6
)

// ErrMalformedLine is returned for lines that cannot be decoded.
var ErrMalformedLine = errors.New("filestore: malformed line")

// EncodeStudent renders s as one master-file line.
func EncodeStudent(s *student.Student) string {
	return strings.Join([]string{
		s.StudentID,
		s.Name,
		s.Username,
		s.EncryptedPassword,
		encodeGrades(s.Grades),
		encodeAttendance(s.Attendance),
	}, fieldSep)
}

// DecodeStudent parses one master-file line. Lines with fewer than four
// fields yield ErrMalformedLine; missing grade and attendance fields decode
// as empty lists.
func DecodeStudent(line string) (*student.Student, error) {
	parts := strings.Split(line, fieldSep)
	if len(parts) < minStudentFields {
		return nil, ErrMalformedLine
	}

	password := parts[3]
	var gradesCSV, attendanceCSV string

	switch {
	case len(parts) > allStudentFields:
		n := len(parts)
		password = strings.Join(parts[3:n-2], fieldSep)
		gradesCSV = parts[n-2]
		attendanceCSV = parts[n-1]
	default:
		if len(parts) >= 5 {
			gradesCSV = parts[4]
		}
		if len(parts) >= 6 {
			attendanceCSV = parts[5]
		}
	}

	s := student.New(parts[0], parts[1], parts[2], password)
	s.Grades = decodeGrades(gradesCSV)
	s.Attendance = decodeAttendance(attendanceCSV)
	return s, nil
}

func encodeGrades(grades []student.Grade) string {
	items := make([]string, 0, len(grades))
	for _, g := range grades {
		items = append(items, g.Subject+pairSep+strconv.Itoa(g.Score))
	}
	return strings.Join(items, itemSep)
}

func encodeAttendance(marks []student.Attendance) string {
	items := make([]string, 0, len(marks))
	for _, a := range marks {
		items = append(items, a.Date+pairSep+a.Status.String())
	}
	return strings.Join(items, itemSep)
}

// decodeGrades skips items without a separator or with a non-numeric score.
func decodeGrades(csv string) []student.Grade {
	grades := []student.Grade{}
	for _, kv := range splitPairs(csv) {
		score, err := strconv.Atoi(kv.value)
		if err != nil {
			continue
		}
		grades = append(grades, student.Grade{Subject: kv.key, Score: score})
	}
	return grades
}

// decodeAttendance canonicalizes statuses it recognizes and keeps any other
// text as stored.
func decodeAttendance(csv string) []student.Attendance {
	marks := []student.Attendance{}
	for _, kv := range splitPairs(csv) {
		status, ok := student.ParseStatus(kv.value)
		if !ok {
			status = student.AttendanceStatus(kv.value)
		}
		marks = append(marks, student.Attendance{Date: kv.key, Status: status})
	}
	return marks
}

type pair struct {
	key   string
	value string
}

// splitPairs splits "k:v,k:v" into trimmed pairs, skipping blank items and
// items without a ':'. Only the first ':' separates key from value.
func splitPairs(csv string) []pair {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	var out []pair
	for _, item := range strings.Split(csv, itemSep) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, ok := strings.Cut(item, pairSep)
		if !ok {
			continue
		}
		out = append(out, pair{key: strings.TrimSpace(key), value: strings.TrimSpace(value)})
	}
	return out
}

// EncodeAdmin renders an admin credential as username|encryptedPassword.
func EncodeAdmin(c account.AdminCredential) string {
	return c.Username + fieldSep + c.EncryptedPassword
}

// DecodeAdmin parses one admin-file line. Blank lines and lines without a
// password field yield ErrMalformedLine. As with student lines, a '|' inside
// the encrypted password is preserved. Only the username is trimmed; the
// password is kept byte for byte.
func DecodeAdmin(line string) (account.AdminCredential, error) {
	if strings.TrimSpace(line) == "" {
		return account.AdminCredential{}, ErrMalformedLine
	}

	username, password, ok := strings.Cut(line, fieldSep)
	if !ok {
		return account.AdminCredential{}, ErrMalformedLine
	}

	return account.AdminCredential{
		Username:          strings.TrimSpace(username),
		EncryptedPassword: password,
	}, nil
}

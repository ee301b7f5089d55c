package filestore

import (
	"testing"

	"github.com/alem-hub/gradebook/internal/domain/account"
	"github.com/alem-hub/gradebook/internal/domain/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeStudent(t *testing.T) {
	s := student.New("S1", "Ann Lee", "ann", "sz")
	s.SetGrade("Math", 95)
	s.SetGrade("Art", 70)
	s.MarkAttendance("2024-01-05", student.StatusPresent)

	assert.Equal(t, "S1|Ann Lee|ann|sz|Math:95,Art:70|2024-01-05:Present", EncodeStudent(s))
}

func TestEncodeStudent_EmptyLists(t *testing.T) {
	s := student.New("S1", "Ann", "ann", "sz")

	assert.Equal(t, "S1|Ann|ann|sz||", EncodeStudent(s))
}

func TestDecodeStudent_RoundTrip(t *testing.T) {
	s := student.New("S1", "Ann Lee", "ann", "sz")
	s.SetGrade("Math", 95)
	s.SetGrade("Art", 70)
	s.MarkAttendance("2024-01-05", student.StatusAbsent)

	got, err := DecodeStudent(EncodeStudent(s))

	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeStudent_PasswordContainingSeparator(t *testing.T) {
	s := student.New("S1", "Ann", "ann", "|d|")
	s.SetGrade("Math", 10)

	got, err := DecodeStudent(EncodeStudent(s))

	require.NoError(t, err)
	assert.Equal(t, "|d|", got.EncryptedPassword)
	assert.Equal(t, []student.Grade{{Subject: "Math", Score: 10}}, got.Grades)
	assert.Empty(t, got.Attendance)
}

func TestDecodeStudent_ShortLines(t *testing.T) {
	_, err := DecodeStudent("S1|Ann|ann")
	assert.ErrorIs(t, err, ErrMalformedLine)

	got, err := DecodeStudent("S1|Ann|ann|pw")
	require.NoError(t, err)
	assert.Empty(t, got.Grades)
	assert.Empty(t, got.Attendance)

	got, err = DecodeStudent("S1|Ann|ann|pw|Math:50")
	require.NoError(t, err)
	assert.Equal(t, []student.Grade{{Subject: "Math", Score: 50}}, got.Grades)
	assert.Empty(t, got.Attendance)
}

func TestDecodeStudent_SkipsBadItems(t *testing.T) {
	got, err := DecodeStudent("S1|Ann|ann|pw| Math : 90 ,bogus,Art:x,,Bio:0| 2024-01-01 : present ,junk,2024-01-02:Late")

	require.NoError(t, err)
	assert.Equal(t, []student.Grade{
		{Subject: "Math", Score: 90},
		{Subject: "Bio", Score: 0},
	}, got.Grades)
	assert.Equal(t, []student.Attendance{
		{Date: "2024-01-01", Status: student.StatusPresent},
		{Date: "2024-01-02", Status: student.AttendanceStatus("Late")},
	}, got.Attendance)
}

func TestAdminCodec(t *testing.T) {
	c := account.AdminCredential{Username: "admin", EncryptedPassword: "dgplq456"}
	assert.Equal(t, "admin|dgplq456", EncodeAdmin(c))

	got, err := DecodeAdmin(" admin |dgplq456")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	// '|' maps to ' ' under the default shift, so edge spaces are password text
	got, err = DecodeAdmin("boss|ervv ")
	require.NoError(t, err)
	assert.Equal(t, "ervv ", got.EncryptedPassword)

	got, err = DecodeAdmin("root|a|b")
	require.NoError(t, err)
	assert.Equal(t, "a|b", got.EncryptedPassword)

	_, err = DecodeAdmin("   ")
	assert.ErrorIs(t, err, ErrMalformedLine)

	_, err = DecodeAdmin("nopassword")
	assert.ErrorIs(t, err, ErrMalformedLine)
}

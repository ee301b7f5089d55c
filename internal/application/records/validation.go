package records

import (
	"errors"
	"strings"

	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentCommand registers a new student. Password is the clear text and
// is not trimmed.
type AddStudentCommand struct {
	StudentID string `validate:"notblank,fieldsafe"`
	Name      string `validate:"fieldsafe"`
	Username  string `validate:"notblank,fieldsafe"`
	Password  string `validate:"notblank,linesafe"`
}

// AssignGradeCommand sets a subject score.
type AssignGradeCommand struct {
	StudentID string `validate:"notblank"`
	Subject   string `validate:"notblank,keysafe"`
	Score     int    `validate:"score"`
}

// MarkAttendanceCommand records presence for a date. Status is matched
// case-insensitively against Present and Absent.
type MarkAttendanceCommand struct {
	StudentID string `validate:"notblank"`
	Date      string `validate:"notblank,keysafe"`
	Status    string `validate:"attendance"`
}

// Characters that would break the line format.
const (
	lineBreaks   = "\r\n"
	fieldChars   = "|" + lineBreaks
	keyChars     = "|,:" + lineBreaks
	blankTag     = "notblank"
	fieldSafeTag = "fieldsafe"
	keySafeTag   = "keysafe"
	lineSafeTag  = "linesafe"
	statusTag    = "attendance"
	scoreTag     = "score"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, blankTag, validators.NotBlank)
	mustRegister(v, fieldSafeTag, excludes(fieldChars))
	mustRegister(v, keySafeTag, excludes(keyChars))
	mustRegister(v, lineSafeTag, excludes(lineBreaks))
	mustRegister(v, scoreTag, func(fl validator.FieldLevel) bool {
		return student.ScoreInRange(int(fl.Field().Int()))
	})
	mustRegister(v, statusTag, func(fl validator.FieldLevel) bool {
		_, ok := student.ParseStatus(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func excludes(chars string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), chars)
	}
}

// blankReasons maps a field rejected by notblank to its domain error.
var blankReasons = map[string]error{
	"StudentID": shared.ErrBlankStudentID,
	"Username":  shared.ErrBlankUsername,
	"Password":  shared.ErrBlankPassword,
	"Subject":   shared.ErrBlankSubject,
	"Date":      shared.ErrBlankDate,
}

// check validates cmd and translates the first failure into a domain error.
func check(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return shared.WrapError("records", "Validate", shared.ErrValidation, "invalid command", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case blankTag:
		if reason, ok := blankReasons[fe.Field()]; ok {
			return reason
		}
		return shared.NewDomainError("records", "Validate", shared.ErrEmptyValue, fe.Field()+" is required")
	case fieldSafeTag, keySafeTag:
		return shared.ErrReservedCharacter
	case lineSafeTag:
		return shared.ErrUnstorablePassword
	case scoreTag:
		return shared.ErrScoreOutOfRange
	case statusTag:
		return shared.ErrInvalidAttendance
	default:
		return shared.NewDomainError("records", "Validate", shared.ErrValidation, fe.Error())
	}
}

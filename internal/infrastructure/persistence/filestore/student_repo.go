package filestore

import (
	"context"
	"strings"

	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository on the master file.
// Nothing is cached: each call re-reads the file.
type StudentRepository struct {
	store *LineStore
	path  string
	log   *logger.Logger
}

// NewStudentRepository creates a StudentRepository over paths.Students.
func NewStudentRepository(store *LineStore, paths Paths) *StudentRepository {
	return &StudentRepository{
		store: store,
		path:  paths.Students,
		log:   store.log.With(logger.Component("student_repo")),
	}
}

// LoadAll parses every non-blank line of the master file. Lines that do not
// decode are dropped. Read failures yield an empty list, so the error is
// always nil for this implementation.
func (r *StudentRepository) LoadAll(_ context.Context) ([]*student.Student, error) {
	lines := r.store.ReadAllLines(r.path)
	students := make([]*student.Student, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s, err := DecodeStudent(line)
		if err != nil {
			r.log.Debug("dropping malformed student line", logger.Path(r.path), logger.Int("line", i+1))
			continue
		}
		students = append(students, s)
	}

	return students, nil
}

// FindByUsername returns the first student whose username matches.
func (r *StudentRepository) FindByUsername(ctx context.Context, username string) (*student.Student, bool, error) {
	return r.find(ctx, func(s *student.Student) bool { return s.HasUsername(username) })
}

// FindByStudentID returns the first student whose id matches.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*student.Student, bool, error) {
	return r.find(ctx, func(s *student.Student) bool { return s.HasID(studentID) })
}

// Upsert loads the file, replaces the record with the same id in place or
// appends s, and rewrites the whole file. There is no concurrency check: a
// writer racing between the load and the rewrite loses its change.
func (r *StudentRepository) Upsert(ctx context.Context, s *student.Student) error {
	all, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range all {
		if all[i].HasID(s.StudentID) {
			all[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, s)
	}

	lines := make([]string, len(all))
	for i, st := range all {
		lines[i] = EncodeStudent(st)
	}

	if err := r.store.WriteAllLines(r.path, lines); err != nil {
		return err
	}

	r.log.Debug("student upserted",
		logger.StudentID(s.StudentID),
		logger.Bool("replaced", replaced),
		logger.Int("total", len(all)),
	)
	return nil
}

func (r *StudentRepository) find(ctx context.Context, match func(*student.Student) bool) (*student.Student, bool, error) {
	all, err := r.LoadAll(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, s := range all {
		if match(s) {
			return s, true, nil
		}
	}
	return nil, false, nil
}

var _ student.Repository = (*StudentRepository)(nil)

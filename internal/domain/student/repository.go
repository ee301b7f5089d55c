package student

import (
	"context"
)

// Repository maps persisted student records to Student values.
//
// The store is the only source of truth: every call reads fresh state and
// nothing is cached between calls. Lookups report absence through the bool
// result, never through an error.
type Repository interface {
	// LoadAll returns every readable record in stored order.
	// Unparseable records are skipped.
	LoadAll(ctx context.Context) ([]*Student, error)

	// FindByUsername returns the first record whose username matches
	// case-insensitively.
	FindByUsername(ctx context.Context, username string) (*Student, bool, error)

	// FindByStudentID returns the first record whose id matches
	// case-insensitively.
	FindByStudentID(ctx context.Context, studentID string) (*Student, bool, error)

	// Upsert replaces the record with a matching id in place, or appends it.
	Upsert(ctx context.Context, s *Student) error
}

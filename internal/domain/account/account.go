// Package account models who can sign in: administrators, kept in their own
// credential file, and students, whose credentials live on their record.
package account

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/cipher"
)

// Role tags a Principal.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// AdminCredential is one line of the admin file.
type AdminCredential struct {
	Username          string
	EncryptedPassword string
}

// Administrator seeded into an empty admin store.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// DefaultAdmin returns the credential seeded on first run.
func DefaultAdmin() AdminCredential {
	return AdminCredential{
		Username:          DefaultAdminUsername,
		EncryptedPassword: cipher.Obscure(DefaultAdminPassword),
	}
}

// AdminStore lists administrator credentials in stored order.
// Malformed entries are skipped by the implementation.
type AdminStore interface {
	ListAdmins(ctx context.Context) ([]AdminCredential, error)
}

// Principal is an authenticated user. Student is set only for RoleStudent.
type Principal struct {
	Role     Role
	Username string
	Student  *student.Student
}

// AdminPrincipal builds the principal for a matched admin credential.
func AdminPrincipal(c AdminCredential) Principal {
	return Principal{Role: RoleAdmin, Username: c.Username}
}

// StudentPrincipal builds the principal for a matched student record.
func StudentPrincipal(s *student.Student) Principal {
	return Principal{Role: RoleStudent, Username: s.Username, Student: s}
}

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// IsStudent reports whether the principal is a student.
func (p Principal) IsStudent() bool { return p.Role == RoleStudent && p.Student != nil }

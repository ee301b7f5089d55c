// Package auth verifies credentials for the two kinds of users. It is
// read-only: nothing here writes to storage.
package auth

import (
	"context"
	"strings"

	"github.com/alem-hub/gradebook/internal/domain/account"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/cipher"
	"github.com/alem-hub/gradebook/pkg/logger"

	"github.com/google/uuid"
)

// Service authenticates administrators against the admin store and students
// against their records.
type Service struct {
	admins   account.AdminStore
	students student.Repository
	log      *logger.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(admins account.AdminStore, students student.Repository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		admins:   admins,
		students: students,
		log:      log.With(logger.Component("auth")),
	}
}

// AuthenticateAdmin matches username case-insensitively and the cipher image
// of password exactly. The first matching admin wins.
func (s *Service) AuthenticateAdmin(ctx context.Context, username, password string) (account.Principal, bool, error) {
	log := s.log.WithRequestID(uuid.NewString()).With(logger.Role(string(account.RoleAdmin)))

	creds, err := s.admins.ListAdmins(ctx)
	if err != nil {
		log.Error("failed to list admins", logger.Err(err))
		return account.Principal{}, false, err
	}

	name := strings.TrimSpace(username)
	for _, c := range creds {
		if strings.EqualFold(c.Username, name) && passwordMatches(c.EncryptedPassword, password) {
			log.Info("login succeeded", logger.Username(c.Username))
			return account.AdminPrincipal(c), true, nil
		}
	}

	log.Info("login failed", logger.Username(name))
	return account.Principal{}, false, nil
}

// AuthenticateStudent looks the student up by username and compares the
// cipher image of password with the stored one.
func (s *Service) AuthenticateStudent(ctx context.Context, username, password string) (account.Principal, bool, error) {
	log := s.log.WithRequestID(uuid.NewString()).With(logger.Role(string(account.RoleStudent)))

	name := strings.TrimSpace(username)
	st, found, err := s.students.FindByUsername(ctx, name)
	if err != nil {
		log.Error("failed to look up student", logger.Username(name), logger.Err(err))
		return account.Principal{}, false, err
	}

	if !found || !passwordMatches(st.EncryptedPassword, password) {
		log.Info("login failed", logger.Username(name))
		return account.Principal{}, false, nil
	}

	log.Info("login succeeded", logger.Username(st.Username), logger.StudentID(st.StudentID))
	return account.StudentPrincipal(st), true, nil
}

// Authenticate tries the admin store first, then the student records.
func (s *Service) Authenticate(ctx context.Context, username, password string) (account.Principal, bool, error) {
	p, ok, err := s.AuthenticateAdmin(ctx, username, password)
	if err != nil || ok {
		return p, ok, err
	}
	return s.AuthenticateStudent(ctx, username, password)
}

func passwordMatches(stored, password string) bool {
	return stored == cipher.Obscure(password)
}

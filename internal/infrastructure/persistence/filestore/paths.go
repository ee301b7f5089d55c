package filestore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alem-hub/gradebook/internal/domain/account"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/pkg/logger"
)

// File names inside the data directory.
const (
	DefaultDataDir    = "data"
	StudentsFile      = "students_master.txt"
	AdminsFile        = "admins_master.txt"
	GradesLogFile     = "grades_transactions.txt"
	AttendanceLogFile = "attendance_transactions.txt"
)

// Paths is the fixed set of data files under one directory.
type Paths struct {
	Dir           string
	Students      string
	Admins        string
	GradesLog     string
	AttendanceLog string
}

// NewPaths returns the file locations under dir. An empty dir means
// DefaultDataDir.
func NewPaths(dir string) Paths {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDataDir
	}
	return Paths{
		Dir:           dir,
		Students:      filepath.Join(dir, StudentsFile),
		Admins:        filepath.Join(dir, AdminsFile),
		GradesLog:     filepath.Join(dir, GradesLogFile),
		AttendanceLog: filepath.Join(dir, AttendanceLogFile),
	}
}

// All returns every file path in a stable order.
func (p Paths) All() []string {
	return []string{p.Students, p.Admins, p.GradesLog, p.AttendanceLog}
}

// Bootstrap prepares the data directory for first use: it creates the
// directory and all four files, and seeds the default administrator when
// the admin file is missing or holds no non-blank line. Running it again
// against a populated directory changes nothing.
func Bootstrap(store *LineStore, p Paths) error {
	if err := os.MkdirAll(p.Dir, dirPerm); err != nil {
		return shared.StorageError("filestore", "Bootstrap", "cannot create data directory "+p.Dir, err)
	}

	for _, path := range p.All() {
		if err := store.EnsureExists(path); err != nil {
			return err
		}
	}

	if hasContent(store.ReadAllLines(p.Admins)) {
		return nil
	}

	if err := store.AppendLine(p.Admins, EncodeAdmin(account.DefaultAdmin())); err != nil {
		return err
	}
	store.log.Info("default administrator seeded",
		logger.Path(p.Admins),
		logger.Username(account.DefaultAdminUsername),
	)
	return nil
}

func hasContent(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

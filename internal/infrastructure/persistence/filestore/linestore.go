// Package filestore implements gradebook persistence on flat text files:
// one master file of student records, one admin credential file and two
// append-only transaction logs, all newline-separated UTF-8.
//
// There is no locking. The package assumes a single process owns the data
// directory and that callers serialize mutations.
package filestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/pkg/logger"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ══════════════════════════════════════════════════════════════════════════════
// LINE STORE
// ══════════════════════════════════════════════════════════════════════════════

// LineStore performs whole-file line operations. Every call opens, uses and
// releases its file handle before returning.
type LineStore struct {
	log *logger.Logger
}

// NewLineStore creates a LineStore. A nil logger discards output.
func NewLineStore(log *logger.Logger) *LineStore {
	if log == nil {
		log = logger.Nop()
	}
	return &LineStore{log: log.With(logger.Component("filestore"))}
}

// EnsureExists creates path (and its parent directories) as an empty file if
// it is missing. Existing files are left untouched.
func (s *LineStore) EnsureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return shared.StorageError("filestore", "EnsureExists", "cannot stat "+path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return shared.StorageError("filestore", "EnsureExists", "cannot create directory "+dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return shared.StorageError("filestore", "EnsureExists", "cannot create file "+path, err)
	}
	if err := f.Close(); err != nil {
		return shared.StorageError("filestore", "EnsureExists", "cannot close file "+path, err)
	}
	return nil
}

// ReadAllLines returns the lines of path in order. A missing file is created
// first. Any failure is treated as "no data yet" and yields an empty slice.
func (s *LineStore) ReadAllLines(path string) []string {
	if err := s.EnsureExists(path); err != nil {
		s.log.Warn("read skipped, file unavailable", logger.Path(path), logger.Err(err))
		return []string{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("read failed, treating as empty", logger.Path(path), logger.Err(err))
		return []string{}
	}

	return splitLines(string(data))
}

// WriteAllLines replaces the content of path with lines, each terminated by a
// newline. The new content is written to a temporary file in the same
// directory and renamed over path, so readers never see a partial file.
func (s *LineStore) WriteAllLines(path string, lines []string) error {
	if err := s.EnsureExists(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return shared.StorageError("filestore", "WriteAllLines", "cannot create temp file for "+path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if _, err := tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()
		return shared.StorageError("filestore", "WriteAllLines", "cannot write "+path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return shared.StorageError("filestore", "WriteAllLines", "cannot sync "+path, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return shared.StorageError("filestore", "WriteAllLines", "cannot chmod "+path, err)
	}
	if err := tmp.Close(); err != nil {
		return shared.StorageError("filestore", "WriteAllLines", "cannot close "+path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return shared.StorageError("filestore", "WriteAllLines", "cannot replace "+path, err)
	}
	committed = true

	s.log.Debug("file rewritten", logger.Path(path), logger.Int("lines", len(lines)))
	return nil
}

// AppendLine appends line plus a newline to path.
func (s *LineStore) AppendLine(path, line string) error {
	if err := s.EnsureExists(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return shared.StorageError("filestore", "AppendLine", "cannot open "+path, err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return shared.StorageError("filestore", "AppendLine", "cannot append to "+path, err)
	}
	if err := f.Close(); err != nil {
		return shared.StorageError("filestore", "AppendLine", "cannot close "+path, err)
	}
	return nil
}

// splitLines splits on \n, dropping a trailing \r from each line and the
// empty element after a final newline.
func splitLines(data string) []string {
	if data == "" {
		return []string{}
	}

	lines := strings.Split(data, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

package filestore

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/account"
)

// AdminStore implements account.AdminStore on the admin file.
type AdminStore struct {
	store *LineStore
	path  string
}

// NewAdminStore creates an AdminStore over paths.Admins.
func NewAdminStore(store *LineStore, paths Paths) *AdminStore {
	return &AdminStore{store: store, path: paths.Admins}
}

// ListAdmins reads the admin file fresh and returns its well-formed lines.
func (a *AdminStore) ListAdmins(_ context.Context) ([]account.AdminCredential, error) {
	lines := a.store.ReadAllLines(a.path)
	creds := make([]account.AdminCredential, 0, len(lines))
	for _, line := range lines {
		c, err := DecodeAdmin(line)
		if err != nil {
			continue
		}
		creds = append(creds, c)
	}
	return creds, nil
}

var _ account.AdminStore = (*AdminStore)(nil)

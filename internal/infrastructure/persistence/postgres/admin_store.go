package postgres

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/account"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// AdminStore implements account.AdminStore for PostgreSQL.
type AdminStore struct {
	conn Querier
}

// NewAdminStore creates a new AdminStore.
func NewAdminStore(conn Querier) *AdminStore {
	return &AdminStore{conn: conn}
}

// ListAdmins returns all administrators in insertion order.
func (a *AdminStore) ListAdmins(ctx context.Context) ([]account.AdminCredential, error) {
	rows, err := a.conn.Query(ctx, `SELECT username, encrypted_password FROM admins ORDER BY position`)
	if err != nil {
		return nil, shared.StorageError("postgres", "ListAdmins", "failed to query admins", err)
	}
	defer rows.Close()

	creds := make([]account.AdminCredential, 0)
	for rows.Next() {
		var c account.AdminCredential
		if err := rows.Scan(&c.Username, &c.EncryptedPassword); err != nil {
			continue
		}
		if c.Username == "" {
			continue
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.StorageError("postgres", "ListAdmins", "failed to read admins", err)
	}

	return creds, nil
}

// SeedDefaultAdmin inserts account.DefaultAdmin when the table is empty.
// It reports whether a row was inserted.
func (a *AdminStore) SeedDefaultAdmin(ctx context.Context) (bool, error) {
	c := account.DefaultAdmin()
	tag, err := a.conn.Exec(ctx, `
		INSERT INTO admins (username, encrypted_password)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM admins)
	`, c.Username, c.EncryptedPassword)
	if err != nil {
		return false, shared.StorageError("postgres", "SeedDefaultAdmin", "failed to seed admin", err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ account.AdminStore = (*AdminStore)(nil)

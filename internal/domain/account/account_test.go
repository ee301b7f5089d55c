package account

import (
	"testing"

	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/cipher"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAdmin(t *testing.T) {
	c := DefaultAdmin()

	assert.Equal(t, "admin", c.Username)
	assert.Equal(t, "dgplq456", c.EncryptedPassword)
	assert.Equal(t, DefaultAdminPassword, cipher.Decrypt(c.EncryptedPassword, cipher.DefaultShift))
}

func TestPrincipals(t *testing.T) {
	admin := AdminPrincipal(AdminCredential{Username: "root", EncryptedPassword: "x"})
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsStudent())
	assert.Nil(t, admin.Student)

	s := student.New("S1", "Ann", "ann", "x")
	p := StudentPrincipal(s)
	assert.True(t, p.IsStudent())
	assert.False(t, p.IsAdmin())
	assert.Equal(t, "ann", p.Username)
	assert.Same(t, s, p.Student)

	assert.False(t, Principal{Role: RoleStudent}.IsStudent())
}

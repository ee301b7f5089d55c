package filestore

import (
	"context"
	"os"
	"testing"

	"github.com/alem-hub/gradebook/internal/domain/ledger"
	"github.com/alem-hub/gradebook/internal/domain/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*StudentRepository, Paths) {
	t.Helper()
	p := NewPaths(t.TempDir())
	store := NewLineStore(nil)
	require.NoError(t, Bootstrap(store, p))
	return NewStudentRepository(store, p), p
}

func TestStudentRepository_EmptyFile(t *testing.T) {
	repo, _ := newTestRepo(t)

	all, err := repo.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStudentRepository_UpsertAppendsThenReplacesInPlace(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, student.New("S1", "Ann", "ann", "a")))
	require.NoError(t, repo.Upsert(ctx, student.New("S2", "Bob", "bob", "b")))
	require.NoError(t, repo.Upsert(ctx, student.New("S3", "Cid", "cid", "c")))

	updated := student.New("s2", "Bobby", "bob", "b")
	updated.SetGrade("Math", 88)
	require.NoError(t, repo.Upsert(ctx, updated))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "S1", all[0].StudentID)
	assert.Equal(t, "Bobby", all[1].Name)
	assert.Equal(t, []student.Grade{{Subject: "Math", Score: 88}}, all[1].Grades)
	assert.Equal(t, "S3", all[2].StudentID)
}

func TestStudentRepository_Find(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, student.New("S1", "Ann", "Ann.Lee", "a")))

	s, found, err := repo.FindByUsername(ctx, "ann.lee")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "S1", s.StudentID)

	s, found, err = repo.FindByStudentID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ann.Lee", s.Username)

	_, found, err = repo.FindByStudentID(ctx, "S9")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStudentRepository_SkipsBlankAndMalformedLines(t *testing.T) {
	repo, p := newTestRepo(t)
	content := "S1|Ann|ann|a||\n\n   \nbroken|line\nS2|Bob|bob|b|Math:70|\n"
	require.NoError(t, os.WriteFile(p.Students, []byte(content), 0o644))

	all, err := repo.LoadAll(context.Background())

	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "S1", all[0].StudentID)
	assert.Equal(t, "S2", all[1].StudentID)
}

func TestStudentRepository_UpsertRewritesWithoutMalformedLines(t *testing.T) {
	repo, p := newTestRepo(t)
	require.NoError(t, os.WriteFile(p.Students, []byte("junk\nS1|Ann|ann|a||\n"), 0o644))

	require.NoError(t, repo.Upsert(context.Background(), student.New("S2", "Bob", "bob", "b")))

	data, err := os.ReadFile(p.Students)
	require.NoError(t, err)
	assert.Equal(t, "S1|Ann|ann|a||\nS2|Bob|bob|b||\n", string(data))
}

func TestAdminStore_ListAdmins(t *testing.T) {
	p := NewPaths(t.TempDir())
	require.NoError(t, os.WriteFile(p.Admins, []byte("admin|dgplq456\n\nbad\nroot|x\n"), 0o644))
	admins := NewAdminStore(NewLineStore(nil), p)

	got, err := admins.ListAdmins(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "admin", got[0].Username)
	assert.Equal(t, "root", got[1].Username)
}

func TestTransactionLog_Appends(t *testing.T) {
	_, p := newTestRepo(t)
	store := NewLineStore(nil)
	txlog := NewTransactionLog(store, p)
	ctx := context.Background()

	g := ledger.GradeEntry{StudentID: "S1", Subject: "Math", Score: 90}
	a := ledger.AttendanceEntry{StudentID: "S1", Date: "2024-01-05", Status: student.StatusAbsent}
	require.NoError(t, txlog.AppendGrade(ctx, g))
	require.NoError(t, txlog.AppendGrade(ctx, g))
	require.NoError(t, txlog.AppendAttendance(ctx, a))

	assert.Equal(t, []string{g.Line(), g.Line()}, store.ReadAllLines(p.GradesLog))
	assert.Equal(t, []string{a.Line()}, store.ReadAllLines(p.AttendanceLog))
}

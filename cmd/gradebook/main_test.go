package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alem-hub/gradebook/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("AUDIT_REDIS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestRun_Usage(t *testing.T) {
	setupEnv(t)

	_, err := runCmd(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = runCmd(t, "frobnicate")
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_Bootstrap(t *testing.T) {
	dir := setupEnv(t)

	out, err := runCmd(t, "bootstrap")

	require.NoError(t, err)
	assert.Contains(t, out, "storage ready")
	assert.FileExists(t, filepath.Join(dir, "data", "admins_master.txt"))
}

func TestRun_RecordLifecycle(t *testing.T) {
	setupEnv(t)

	_, err := runCmd(t, "add", "-id", "S1", "-name", "Ann Lee", "-username", "ann", "-password", "secret")
	require.NoError(t, err)

	_, err = runCmd(t, "add", "-id", "s1", "-name", "Other", "-username", "other", "-password", "pw")
	assert.ErrorIs(t, err, errRejected)

	_, err = runCmd(t, "grade", "-id", "S1", "-subject", "Math", "-score", "95")
	require.NoError(t, err)

	_, err = runCmd(t, "grade", "-id", "S1", "-subject", "Math", "-score", "101")
	assert.ErrorIs(t, err, errRejected)

	_, err = runCmd(t, "attend", "-id", "S1", "-date", "2024-01-05", "-status", "present")
	require.NoError(t, err)

	out, err := runCmd(t, "show", "-id", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "Student ID: S1")
	assert.Contains(t, out, "- Math: 95")
	assert.Contains(t, out, "- 2024-01-05: Present")

	out, err = runCmd(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann Lee")
	assert.Contains(t, out, "95.00")
	assert.Contains(t, out, "100%")

	_, err = runCmd(t, "show", "-id", "S9")
	assert.ErrorIs(t, err, errRejected)
}

func TestRun_Login(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "login", "-username", "admin", "-password", "admin123")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as admin admin")

	_, err = runCmd(t, "add", "-id", "S1", "-name", "Ann", "-username", "ann", "-password", "pw")
	require.NoError(t, err)

	out, err = runCmd(t, "login", "-role", "student", "-username", "ANN", "-password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as student ann (S1)")

	_, err = runCmd(t, "login", "-role", "admin", "-username", "ann", "-password", "pw")
	assert.ErrorIs(t, err, errRejected)
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = runCmd(t, "login", "-username", "ann", "-password", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = runCmd(t, "login", "-role", "parent", "-username", "ann", "-password", "pw")
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_ImportExport(t *testing.T) {
	dir := setupEnv(t)

	roster := filepath.Join(dir, "roster.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"id", "name", "username", "password"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"S1", "Ann", "ann", "pw"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"S2", "Bob", "ann", "pw"}))
	require.NoError(t, f.SaveAs(roster))
	require.NoError(t, f.Close())

	out, err := runCmd(t, "import", "-file", roster)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1, skipped 1")
	assert.Contains(t, out, "row 2:")

	export := filepath.Join(dir, "out.xlsx")
	out, err = runCmd(t, "export", "-file", export)
	require.NoError(t, err)
	assert.Contains(t, out, export)

	info, err := os.Stat(export)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

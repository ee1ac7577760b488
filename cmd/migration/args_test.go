package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	require.Error(t, err)

	_, err = parseSteps([]string{"two"})
	require.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	version, err := parseVersion("1773480600")
	require.NoError(t, err)
	assert.Equal(t, 1773480600, version)

	_, err = parseVersion("-1")
	require.Error(t, err)
}

func TestParseTarget(t *testing.T) {
	target, err := parseTarget("1773480600")
	require.NoError(t, err)
	assert.Equal(t, uint(1773480600), target)

	_, err = parseTarget("-1")
	require.Error(t, err)
}

func TestResolveMigrationsDir_PrefersEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)

	got, err := resolveMigrationsDir()
	require.NoError(t, err)

	want, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveMigrationsDir_NotFound(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", filepath.Join(t.TempDir(), "missing"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if _, err := os.Stat("/app/db/migrations"); err == nil {
		t.Skip("container migrations dir present")
	}
	_, err = resolveMigrationsDir()
	require.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	_, err := databaseURL()
	require.Error(t, err)

	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/tournament_desk?sslmode=disable")
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
	got, err := databaseURL()
	require.NoError(t, err)
	assert.Contains(t, got, "disable_prepared_binary_result=yes")

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")
	got, err = databaseURL()
	require.NoError(t, err)
	assert.NotContains(t, got, "disable_prepared_binary_result")

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "maybe")
	_, err = databaseURL()
	require.Error(t, err)
}

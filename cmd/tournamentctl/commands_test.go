package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func csvFlags(path string) []string {
	return []string{"--backend", "csv", "--csv-path", path}
}

func TestGamesCommand(t *testing.T) {
	out, err := runCLI(t, "games")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "Kabaddi")
	assert.Contains(t, lines[4], "Volleyball")
}

func TestRegisterRecordListExport(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("STORE_CSV_PATH", "")
	path := filepath.Join(t.TempDir(), "table.csv")

	args := append([]string{"register", "--game", "Basketball", "--team", "Hoopers"}, csvFlags(path)...)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		args = append(args, "-p", name)
	}
	for _, name := range []string{"F", "G", "H", "I", "J", "K", "L"} {
		args = append(args, "-s", name)
	}
	out, err := runCLI(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "registered Hoopers in Basketball (5 players, 7 substitutes)")

	out, err = runCLI(t, append([]string{"record", "--game", "Basketball", "--team", "Hoopers", "--for", "88", "--against", "80"}, csvFlags(path)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "played 1, points 3")

	out, err = runCLI(t, append([]string{"list", "--game", "Basketball"}, csvFlags(path)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Hoopers")
	assert.Contains(t, out, "PTS")

	out, err = runCLI(t, append([]string{"list"}, csvFlags(path)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "== Basketball ==")

	exportPath := filepath.Join(t.TempDir(), "export.csv")
	_, err = runCLI(t, append([]string{"export", "--out", exportPath}, csvFlags(path)...)...)
	require.NoError(t, err)

	exported, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(stored), string(exported))
}

func TestRecordUnregisteredTeamFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")

	_, err := runCLI(t, append([]string{"record", "--game", "Kabaddi", "--team", "Ghosts", "--for", "1", "--against", "0"}, csvFlags(path)...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TeamNotRegistered")
}

func TestRegisterRequiresFlags(t *testing.T) {
	_, err := runCLI(t, "register", "--game", "Kabaddi")
	require.Error(t, err)
}

func TestListEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")

	out, err := runCLI(t, append([]string{"list"}, csvFlags(path)...)...)
	require.NoError(t, err)
	assert.Equal(t, "no teams registered\n", out)
}

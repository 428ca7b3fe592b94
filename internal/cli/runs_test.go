package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tburk/tapevm/internal/store"
)

func seedArchive(t *testing.T, runs ...store.Run) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()

	for _, r := range runs {
		require.NoError(t, st.RecordRun(context.Background(), r))
	}
	return dbPath
}

func sampleRun(token string) store.Run {
	return store.Run{
		Token:         token,
		Program:       "hello.bf",
		SourceHash:    "deadbeef",
		Steps:         566,
		OpCounts:      map[string]int64{"Increment": 166, "Output": 13},
		OutputBytes:   13,
		TapeCapacity:  256,
		EngineVersion: "0.1.0",
		IRVersion:     "1",
	}
}

func TestRunsList(t *testing.T) {
	dbPath := seedArchive(t, sampleRun("aaa"), sampleRun("bbb"))

	stdout, _, err := execute(t, "runs", "list", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "aaa  hello.bf  steps=566")
	assert.Contains(t, stdout, "bbb")
}

func TestRunsList_Empty(t *testing.T) {
	dbPath := seedArchive(t)

	stdout, _, err := execute(t, "runs", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestRunsList_JSON(t *testing.T) {
	dbPath := seedArchive(t, sampleRun("aaa"))

	stdout, _, err := execute(t, "--format", "json", "runs", "list", "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var runs []store.Run
	require.NoError(t, json.Unmarshal(data, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "aaa", runs[0].Token)
}

func TestRunsList_Filtered(t *testing.T) {
	slow := sampleRun("aaa")
	fast := sampleRun("bbb")
	fast.Program = "echo.bf"
	fast.Steps = 10
	dbPath := seedArchive(t, slow, fast)

	stdout, _, err := execute(t, "runs", "list", "--db", dbPath, "--min-steps", "100")
	require.NoError(t, err)
	assert.Contains(t, stdout, "aaa")
	assert.NotContains(t, stdout, "bbb")

	stdout, _, err = execute(t, "runs", "list", "--db", dbPath, "--program", "echo.bf", "--min-steps", "1")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "aaa")
	assert.Contains(t, stdout, "bbb")
}

func TestRunsList_FilterMatchesNothing(t *testing.T) {
	dbPath := seedArchive(t, sampleRun("aaa"))

	stdout, _, err := execute(t, "runs", "list", "--db", dbPath, "--program", "nope.bf")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestRunsShow(t *testing.T) {
	dbPath := seedArchive(t, sampleRun("aaa"))

	stdout, _, err := execute(t, "runs", "show", "--db", dbPath, "aaa")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Token:         aaa")
	assert.Contains(t, stdout, "Program:       hello.bf")
	assert.Contains(t, stdout, "Steps:         566")
	assert.Contains(t, stdout, "Increment")
}

func TestRunsShow_NotFound(t *testing.T) {
	dbPath := seedArchive(t)

	_, _, err := execute(t, "runs", "show", "--db", dbPath, "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestRuns_RequiresDatabase(t *testing.T) {
	_, _, err := execute(t, "runs", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

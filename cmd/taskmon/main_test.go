package main

import (
	"bytes"
	"context"
	"encoding/json"
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
	err := Run(context.Background(), append([]string{"taskmon", "--no-log"}, args...), strings.NewReader(""), &stdout, &stderr)
	return stdout.String(), err
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()

	if v, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, v) })
	}
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })
}

func TestRunStatus(t *testing.T) {
	tests := map[string]struct {
		args      []string
		expOut    []string
		expNotOut []string
		expErr    bool
	}{
		"Listing should show all the sample tasks and the summary": {
			args:   []string{"status"},
			expOut: []string{"task_001", "task_004", "Total: 4 (success: 1, failed: 1, running: 1, pending: 1)"},
		},
		"Filtering should only show the matching tasks": {
			args:      []string{"status", "--status", "running"},
			expOut:    []string{"task_003", "Found 1 tasks with status running"},
			expNotOut: []string{"task_001"},
		},
		"Getting a task should show the detail": {
			args:   []string{"status", "--task-id", "task_002"},
			expOut: []string{"Status:     failed", "Records:    850,000"},
		},
		"Getting a missing task should report it": {
			args:   []string{"status", "--task-id", "task_999", "--format", "json"},
			expOut: []string{`"success": false`},
		},
		"Invalid formats should fail": {
			args:   []string{"status", "--format", "xml"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := runCLI(t, append([]string{"--workspace", t.TempDir()}, test.args...)...)
			if test.expErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			for _, exp := range test.expOut {
				assert.Contains(t, out, exp)
			}
			for _, exp := range test.expNotOut {
				assert.NotContains(t, out, exp)
			}
		})
	}
}

func TestRunLogs(t *testing.T) {
	out, err := runCLI(t, "--workspace", t.TempDir(), "logs", "task_001", "-n", "2")
	require.NoError(t, err)

	exp := "[2025-06-17 08:15:00] INFO  Loading data to target system...\n" +
		"[2025-06-17 08:15:30] INFO  Task completed successfully. Total records: 1500000\n"
	assert.Equal(t, exp, out)

	_, err = runCLI(t, "--workspace", t.TempDir(), "logs", "task_404")
	assert.Error(t, err)
}

func TestRunSeed(t *testing.T) {
	dir := t.TempDir()

	fixtures := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte(`tasks:
  - task_id: job_1
    task_name: nightly
    status: pending
    log_path: logs/job_1.log
logs:
  - task_id: job_1
    content: "waiting\n"
`), 0644))

	out, err := runCLI(t, "--workspace", dir, "seed", "--fixtures", fixtures)
	require.NoError(t, err)
	assert.Equal(t, "Seeded workspace "+dir+"\n", out)

	// Seeding again is idempotent.
	out, err = runCLI(t, "--workspace", dir, "seed", "--fixtures", fixtures, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"success\": true,\n  \"message\": \"Seeded workspace "+dir+"\"\n}\n", out)

	// Reads don't need seeding anymore.
	out, err = runCLI(t, "--workspace", dir, "--no-seed", "logs", "job_1")
	require.NoError(t, err)
	assert.Equal(t, "waiting\n", out)

	out, err = runCLI(t, "--workspace", dir, "--no-seed", "status", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"task_id": "job_1"`)
	assert.NotContains(t, out, "task_001")
}

func TestRunNoSeedWithoutStoreFails(t *testing.T) {
	_, err := runCLI(t, "--workspace", t.TempDir(), "--no-seed", "status")
	assert.Error(t, err)
}

func TestRunToolCall(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "--workspace", dir, "tool", "call", "task_monitor", "-a", "task_id=task_001")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["success"])

	out, err = runCLI(t, "--workspace", dir, "tool", "call", "task_log_reader", "--args-json", `{"task_id": "task_001", "lines": 3}`)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3.0, res["log_lines"])

	_, err = runCLI(t, "--workspace", dir, "tool", "call", "missing_tool")
	assert.Error(t, err)
}

func TestRunToolList(t *testing.T) {
	out, err := runCLI(t, "--in-memory", "tool", "list")
	require.NoError(t, err)

	var schemas []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schemas))
	require.Len(t, schemas, 2)
	assert.Equal(t, "task_log_reader", schemas[0]["name"])
	assert.Equal(t, "task_monitor", schemas[1]["name"])
}

func TestRunInMemoryDoesNotTouchWorkspace(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "--workspace", dir, "--in-memory", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 4")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunWorkspaceFromEnvFile(t *testing.T) {
	unsetEnv(t, "COZE_WORKSPACE_PATH")

	dir := t.TempDir()
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("COZE_WORKSPACE_PATH="+dir+"\n"), 0644))
	t.Setenv("TASKMON_ENV_FILE", envFile)

	_, err := runCLI(t, "status")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "assets", "task_data.json"))
	assert.NoError(t, err)
}

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

// writeConfig copies a testdata config into a temp dir, pointing its output
// at out and its input at an absolute path.
func writeConfig(t *testing.T, name, out string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	in, err := filepath.Abs("../../examples/data/example_sales_raw.csv")
	require.NoError(t, err)
	s := strings.Replace(string(b), "../../examples/data/example_sales_raw.csv", filepath.ToSlash(in), 1)
	s = strings.Replace(s, `"OUT"`, `"`+filepath.ToSlash(out)+`"`, 1)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(s), 0o644))
	return path
}

func TestRun_SalesToJSONL(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clean.jsonl")
	cfg := writeConfig(t, "sales.json", out)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfg, "-log-format", "json", "-profile", "text"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `{"date":"2024-01-02","product":"widget","qty":3,"revenue":13.5}`, lines[0])
	assert.Equal(t, `{"date":"2024-01-04","product":"doohickey","qty":0,"revenue":null}`, lines[3])

	logs := stderr.String()
	assert.Contains(t, logs, `"pipeline":"sales_clean"`)
	assert.Contains(t, logs, `"run_id":"`)
	assert.Contains(t, logs, `"records":5`)
	assert.Contains(t, logs, "Profile Summary (5 records)")
}

func TestRun_ExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &stdout, &stderr))
	assert.Equal(t, "uetl 0.1.0-dev\n", stdout.String())

	assert.Equal(t, exitUsage, run(nil, &stdout, &stderr))
	assert.Equal(t, exitUsage, run([]string{"-log-level", "loud", "-config", "x.json"}, &stdout, &stderr))
	assert.Equal(t, exitUsage, run([]string{"-config", filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr))

	cfg := filepath.Join(t.TempDir(), "bad_input.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"input": {"path": "does-not-exist.csv"}, "output": {"path": "-"}}`), 0o644))
	stderr.Reset()
	assert.Equal(t, exitRuntime, run([]string{"-config", cfg, "-log-format", "json"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "pipeline failed")
}

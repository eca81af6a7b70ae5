package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Commands share package-level flag state; these tests run sequentially.

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "propfund version "+version+"\n", out)
}

func TestBalance(t *testing.T) {
	out, err := execute(t, "balance", "FTMO Challenge 100k", "Main account")
	require.NoError(t, err)
	assert.Equal(t, "FTMO Challenge 100k\t100000.00\nMain account\t-\n", out)
}

func TestClassifyByServer(t *testing.T) {
	out, err := execute(t, "classify", "--server", "FivePercentOnline-Real", "FHS-7.5K Jane Doe")
	require.NoError(t, err)
	assert.Contains(t, out, "The5ers\t2 Phase / Funded\t")
}

func TestTemplatesAndCatalogValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funds.yaml")

	out, err := execute(t, "templates", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 fund templates")

	out, err = execute(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog valid")
	assert.Contains(t, out, "FTMO")
	assert.Contains(t, out, "Fortrades")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("funds:\n  - fund_name: Broken\n"), 0644))
	_, err = execute(t, "catalog", "validate", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestEvaluateRecordsRun(t *testing.T) {
	dir := t.TempDir()
	runFile := filepath.Join(dir, "run.yaml")
	db := filepath.Join(dir, "journal.sqlite")

	_, err := execute(t, "config", "init", "-o", runFile)
	require.NoError(t, err)

	out, err := execute(t, "evaluate", runFile, "--db", db, "--record", "-o", "json")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "ftmo-100k", results[0]["account_id"])
	assert.Equal(t, "fortrades-6k", results[2]["account_id"])

	out, err = execute(t, "journal", "runs", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "evaluate")
	assert.Contains(t, lines[0], "items=3")

	runID := strings.Fields(lines[0])[0]
	out, err = execute(t, "journal", "run", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID: "+runID)
	assert.Contains(t, out, "** OK the5ers-10k (The5ers / 2 Phase)")
}

func TestSizeText(t *testing.T) {
	dir := t.TempDir()
	runFile := filepath.Join(dir, "run.yaml")

	_, err := execute(t, "config", "init", "-o", runFile)
	require.NoError(t, err)

	out, err := execute(t, "size", runFile, "-o", "text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ALLOWED  ftmo-100k"), out)
	assert.Contains(t, out, "R:R 2.00")
}

func TestEvaluateMissingFile(t *testing.T) {
	_, err := execute(t, "evaluate", filepath.Join(t.TempDir(), "missing.yaml"), "-o", "text")
	assert.ErrorContains(t, err, "load config")
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opt-report/internal/testutil"
	"github.com/opt-report/pkg/model"
)

func buildTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "sum.c", []byte(testutil.SampleSource))
	data, err := json.Marshal(model.Dump{Units: testutil.SampleUnits()})
	require.NoError(t, err)
	testutil.WriteFile(t, dir, "obj/sum.c.opt-record.json", data)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := buildTree(t)
	out := filepath.Join(t.TempDir(), "report")

	stdout, err := execute(t, "generate", "--build-dir", dir, "-o", out, "--no-highlight", "--flatten-paths")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "sum.html"))
	assert.Contains(t, stdout, "Records:   3 (0 filtered, 0 purged)")
	assert.Equal(t, "flatten", cfg.Xref.SeparatorPolicy)
}

func TestSummaryCommand(t *testing.T) {
	dir := buildTree(t)

	stdout, err := execute(t, "summary", "--build-dir", dir, "--top", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Records by pass:")
	assert.Contains(t, stdout, "LOCATION")
	assert.Contains(t, stdout, "sum.c:4:3")
}

func TestRemarksCommand_BadColor(t *testing.T) {
	_, err := execute(t, "remarks", "--color", "purple")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version dev")
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggh/lust-next-sub011/internal/domain"
)

const utilLua = `local M = {}
function M.add(a, b)
  return a + b
end
function M.sub(a, b)
  return a - b
end
return M
`

// TestCollectMergeReport runs two workers through collect, merges them and
// reads the merged file back, all with the real workflow and plain output.
func TestCollectMergeReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile("util.lua", []byte(utilLua), 0o600))
	require.NoError(t, os.WriteFile("w1.trace", []byte("start w1\nx 1 util.lua\nx 2 util.lua\nx 3 util.lua\nv 3 util.lua\nx 5 util.lua\nx 8 util.lua\nstop\n"), 0o600))
	require.NoError(t, os.WriteFile("w2.trace", []byte("start w2\nx 6 util.lua\n"), 0o600))

	out, err := run(t, newCollectCmd(), "collect", "--plain", "--trace", "w1.trace", "--out", "cov")
	require.NoError(t, err)
	assert.Contains(t, out, "Coverage 12.5% (threshold 80.0%) FAIL")
	assert.FileExists(t, filepath.Join("cov", "coverage-w1.json"))

	_, err = run(t, newCollectCmd(), "collect", "--plain", "-t", "w2.trace", "-o", "cov")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("cov", "coverage-w2.json"))

	out, err = run(t, newMergeCmd(), "merge", "--plain", "--dir", "cov", "--out", "merged.json", "--threshold", "10", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 2 worker file(s): 1 partial, 1 discarded")
	assert.Contains(t, out, "Wrote merged.json")
	assert.Contains(t, out, "4, 6-7")
	assert.Contains(t, out, "Coverage 12.5% (threshold 10.0%) PASS")

	out, err = run(t, newMergeCmd(), "merge", "--plain", "-d", "cov", "--partial-policy", "merge")
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 2 worker file(s): 1 partial, 0 discarded")
	assert.Contains(t, out, "4, 7")

	out, err = run(t, newReportCmd(), "report", "--plain", "--threshold", "50", "--check", "merged.json")
	assert.ErrorIs(t, err, domain.ErrThresholdNotMet)
	assert.Contains(t, out, "FAIL")
}

func TestAnalyzeCmd_PlainOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile("util.lua", []byte(utilLua), 0o600))
	require.NoError(t, os.WriteFile("broken.lua", []byte("local = 1\n"), 0o600))

	out, err := run(t, newAnalyzeCmd(), "analyze", "--plain", "--lines")
	require.NoError(t, err)

	assert.Contains(t, out, "excluded: syntax")
	assert.Contains(t, out, "   2 + function M.add(a, b)")
}

package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggh/lust-next-sub011/internal/adapter"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

const addSource = "local function add(a, b)\n  return a + b\nend\nreturn add\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newTestWorkflow(cfg m.Config) Workflow {
	return NewWorkflow(
		cfg,
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalCoverageStore(0),
		adapter.NewLocalTraceReader(),
		nil,
	)
}

func setupProject(t *testing.T) (root string, sources []m.Source) {
	t.Helper()

	root = t.TempDir()
	writeFile(t, filepath.Join(root, "a.lua"), addSource)
	writeFile(t, filepath.Join(root, "lib", "b.lua"), "local = \n")
	writeFile(t, filepath.Join(root, "spec", "a_spec.lua"), "describe('a', function() end)\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "not lua\n")

	sources, err := newTestWorkflow(m.DefaultConfig()).GetSources(m.Path(root + "/..."))
	require.NoError(t, err)

	return root, sources
}

func TestGetSources(t *testing.T) {
	root, sources := setupProject(t)

	paths := make([]m.Path, 0, len(sources))
	for _, s := range sources {
		paths = append(paths, s.Path)
		assert.Len(t, s.Hash, 64)
	}

	assert.Equal(t, []m.Path{
		m.Path(filepath.Join(root, "a.lua")),
		m.Path(filepath.Join(root, "lib", "b.lua")),
	}, paths)

	none, err := newTestWorkflow(m.DefaultConfig()).GetSources()
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBuildCodeMaps(t *testing.T) {
	root, sources := setupProject(t)
	wf := newTestWorkflow(m.DefaultConfig())

	maps, err := wf.BuildCodeMaps(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, maps, 2)

	assert.True(t, maps[0].Valid)
	assert.Equal(t, []int{1, 2, 3, 4}, maps[0].ExecutableLines.Sorted())
	assert.Equal(t, "add", maps[0].Functions[0].Name)

	assert.False(t, maps[1].Valid)
	assert.Equal(t, m.ErrKindSyntax, m.ErrorKind(maps[1].Err))

	missing := []m.Source{{Path: m.Path(filepath.Join(root, "gone.lua"))}}
	maps, err = wf.BuildCodeMaps(context.Background(), missing)
	require.NoError(t, err)
	assert.Equal(t, m.ErrKindIO, m.ErrorKind(maps[0].Err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = wf.BuildCodeMaps(ctx, sources)
	assert.ErrorIs(t, err, context.Canceled)
}

func collect(t *testing.T, wf Workflow, root string, sources []m.Source, name, trace string) CollectResult {
	t.Helper()

	tracePath := filepath.Join(root, name)
	writeFile(t, tracePath, trace)

	res, err := wf.Collect(context.Background(), sources, m.Path(tracePath), m.Path(filepath.Join(root, "out")))
	require.NoError(t, err)

	return res
}

func TestCollect(t *testing.T) {
	root, sources := setupProject(t)
	wf := newTestWorkflow(m.DefaultConfig())

	res := collect(t, wf, root, sources, "w1.trace",
		"x 3 a.lua\nstart w1\nx 1 a.lua\nx 4 a.lua\nx 2 a.lua\nv 2 a.lua\nx 9 a.lua\nstop\n")

	assert.True(t, res.Complete)
	assert.Equal(t, "w1", res.Worker)
	assert.FileExists(t, string(res.Output))
	assert.Equal(t, "coverage-w1.json", filepath.Base(string(res.Output)))

	a := res.Data.Files[m.Path(filepath.Join(root, "a.lua"))]
	require.NotNil(t, a)
	assert.Equal(t, map[int]m.LineState{1: m.Executed, 2: m.Covered, 3: m.NotCovered, 4: m.Executed}, a.Lines)
	assert.True(t, a.Functions[0].Covered)

	b := res.Data.Files[m.Path(filepath.Join(root, "lib", "b.lua"))]
	require.NotNil(t, b)
	assert.True(t, b.Excluded)
	assert.Equal(t, m.ErrKindSyntax, b.ErrKind)

	s := res.Data.Summary()
	assert.Equal(t, 1, s.ExcludedFiles)
	assert.InDelta(t, 25.0, s.Percentage(), 1e-9)
}

func TestCollect_PartialTrace(t *testing.T) {
	root, sources := setupProject(t)

	res := collect(t, newTestWorkflow(m.DefaultConfig()), root, sources, "w2.trace", "start\nv 3 a.lua\n")

	assert.False(t, res.Complete)
	assert.NotEmpty(t, res.Worker)
	assert.Equal(t, m.Covered, res.Data.Files[m.Path(filepath.Join(root, "a.lua"))].Lines[3])
}

func TestMerge_PartialPolicy(t *testing.T) {
	root, sources := setupProject(t)
	outDir := m.Path(filepath.Join(root, "out"))
	aPath := m.Path(filepath.Join(root, "a.lua"))

	wf := newTestWorkflow(m.DefaultConfig())
	collect(t, wf, root, sources, "w1.trace", "start\nx 1 a.lua\nx 2 a.lua\nstop\n")
	collect(t, wf, root, sources, "w2.trace", "start\nx 2 a.lua\nv 2 a.lua\nstop\n")
	collect(t, wf, root, sources, "w3.trace", "start\nv 3 a.lua\n")

	discard, err := wf.Merge(context.Background(), outDir, "")
	require.NoError(t, err)
	assert.Equal(t, 3, discard.Workers)
	assert.Equal(t, 1, discard.Partial)
	assert.Equal(t, 1, discard.Discarded)
	assert.Equal(t, map[int]m.LineState{1: m.Executed, 2: m.Covered, 3: m.NotCovered, 4: m.NotCovered},
		discard.Data.Files[aPath].Lines)

	cfg := m.DefaultConfig()
	cfg.PartialPolicy = m.PartialMerge

	merged, err := newTestWorkflow(cfg).Merge(context.Background(), outDir, "")
	require.NoError(t, err)
	assert.Zero(t, merged.Discarded)
	assert.Equal(t, m.Covered, merged.Data.Files[aPath].Lines[3])
	assert.True(t, merged.Data.Files[m.Path(filepath.Join(root, "lib", "b.lua"))].Excluded)
}

func TestMerge_WritesOutputAndReport(t *testing.T) {
	root, sources := setupProject(t)
	outDir := m.Path(filepath.Join(root, "out"))
	out := m.Path(filepath.Join(root, "merged", "coverage.json"))

	wf := newTestWorkflow(m.DefaultConfig())
	collect(t, wf, root, sources, "w1.trace", "start\nv 1 a.lua\nv 2 a.lua\nv 4 a.lua\nstop\n")

	res, err := wf.Merge(context.Background(), outDir, out)
	require.NoError(t, err)
	assert.Equal(t, out, res.Output)

	report, err := wf.Report(out)
	require.NoError(t, err)
	assert.Equal(t, res.Data.Summary(), report.Summary())
	assert.Equal(t, res.Data.Files[m.Path(filepath.Join(root, "a.lua"))].Lines,
		report.Files[m.Path(filepath.Join(root, "a.lua"))].Lines)
}

func TestCheckThreshold(t *testing.T) {
	d := m.NewCoverageData()
	f := &m.FileCoverage{Path: "a.lua", Lines: map[int]m.LineState{1: m.Covered, 2: m.NotCovered}}
	f.Recount()
	d.Files[f.Path] = f

	cfg := m.DefaultConfig()
	assert.ErrorIs(t, newTestWorkflow(cfg).CheckThreshold(d), ErrThresholdNotMet)

	cfg.Threshold = 50
	assert.NoError(t, newTestWorkflow(cfg).CheckThreshold(d))
}

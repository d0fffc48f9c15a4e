package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/greggh/lust-next-sub011/internal/lua/parser"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	return NewSimpleUI(cmd), &buf
}

func assertContainsAll(t *testing.T, output string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func coverageFixture() *m.CoverageData {
	data := m.NewCoverageData()

	a := &m.FileCoverage{
		Path:  "src/a.lua",
		Lines: map[int]m.LineState{1: m.Covered, 2: m.NotCovered, 3: m.Executed, 4: m.NotCovered},
		Functions: []m.FunctionCoverage{
			{FunctionDescriptor: m.FunctionDescriptor{Name: "f", LineStart: 1, LineEnd: 3}, Executed: true, Covered: true},
			{FunctionDescriptor: m.FunctionDescriptor{LineStart: 4, LineEnd: 4}},
		},
	}
	a.Recount()

	data.Files[a.Path] = a
	data.Files["src/b.lua"] = &m.FileCoverage{Path: "src/b.lua", Excluded: true, Err: "b.lua:1: unexpected symbol", ErrKind: m.ErrKindSyntax}

	return data
}

func TestSimpleUI_DisplayCoverage_PrintsTable(t *testing.T) {
	ui, buf := newTestSimpleUI()

	if err := ui.Start(WithReportMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := ui.DisplayCoverage(coverageFixture(), 80, nil); err != nil {
		t.Fatalf("DisplayCoverage() error = %v", err)
	}

	assertContainsAll(t, buf.String(),
		"FILE",
		"src/a.lua",
		"2, 4",
		"25.0%",
		"src/b.lua",
		"excluded: syntax",
		"TOTAL FILES 1",
		"1 EXCLUDED",
		"Functions: 1/2 executed, 1 covered",
		"Coverage 25.0% (threshold 80.0%) FAIL",
	)
}

func TestSimpleUI_DisplayCoverage_Pass(t *testing.T) {
	ui, buf := newTestSimpleUI()

	if err := ui.DisplayCoverage(coverageFixture(), 20, nil); err != nil {
		t.Fatalf("DisplayCoverage() error = %v", err)
	}

	assertContainsAll(t, buf.String(), "(threshold 20.0%) PASS")
}

func TestSimpleUI_DisplayCoverage_Error(t *testing.T) {
	ui, buf := newTestSimpleUI()
	boom := errors.New("boom")

	if err := ui.DisplayCoverage(nil, 80, boom); !errors.Is(err, boom) {
		t.Fatalf("DisplayCoverage() error = %v, want boom", err)
	}

	assertContainsAll(t, buf.String(), "coverage error: boom")
}

func TestSimpleUI_DisplayCodeMaps(t *testing.T) {
	ui, buf := newTestSimpleUI()

	valid := &m.CodeMap{
		Path:            "src/a.lua",
		SourceLines:     []string{"local a = 1 -- lustcov:ignore", "-- note", "return a"},
		ExecutableLines: m.NewLineSet(3),
		IgnoredLines:    m.NewLineSet(1),
		Functions:       []m.FunctionDescriptor{{Name: "f", LineStart: 1, LineEnd: 1}},
		Valid:           true,
	}
	broken := m.Invalid("src/b.lua", "", nil, &parser.IOError{Path: "src/b.lua", Err: errors.New("denied")})

	if err := ui.DisplayCodeMaps([]*m.CodeMap{valid, broken}, true, nil); err != nil {
		t.Fatalf("DisplayCodeMaps() error = %v", err)
	}

	assertContainsAll(t, buf.String(),
		"PATH",
		"src/a.lua",
		"excluded: io",
		"TOTAL FILES 2",
		"1 EXCLUDED",
		"   1 ! local a = 1",
		"   2   -- note",
		"   3 + return a",
	)
}

func TestSimpleUI_DisplayCodeMaps_Error(t *testing.T) {
	ui, buf := newTestSimpleUI()

	if err := ui.DisplayCodeMaps(nil, false, errors.New("nope")); err == nil {
		t.Fatalf("DisplayCodeMaps() expected error")
	}

	assertContainsAll(t, buf.String(), "analysis error: nope")
}

func TestSimpleUI_DisplayMerge(t *testing.T) {
	ui, buf := newTestSimpleUI()

	ui.DisplayMerge(MergeInfo{Workers: 3, Partial: 1, Discarded: 1, Output: "out/coverage.json"})
	ui.Wait()
	ui.Close()

	assertContainsAll(t, buf.String(),
		"Merged 3 worker file(s): 1 partial, 1 discarded",
		"Wrote out/coverage.json",
	)
}

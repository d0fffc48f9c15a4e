package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/parser"
)

func TestFileCoverage_Recount(t *testing.T) {
	f := &FileCoverage{Lines: map[int]LineState{1: Covered, 2: Executed, 3: NotCovered, 4: NotCovered}}
	f.Recount()

	assert.Equal(t, 4, f.TotalExecutable)
	assert.Equal(t, 1, f.CoveredCount)
	assert.Equal(t, 1, f.ExecutedOnlyCount)
	assert.Equal(t, 2, f.NotCoveredCount)
	assert.InDelta(t, 25.0, f.Percentage(), 1e-9)
	assert.Equal(t, []int{1, 2, 3, 4}, f.SortedLines())
}

func TestPercentage_NoExecutableLines(t *testing.T) {
	f := &FileCoverage{}
	f.Recount()
	assert.Zero(t, f.Percentage())

	var s Summary
	assert.Zero(t, s.Percentage())
	assert.True(t, s.MeetsThreshold(0))
	assert.False(t, s.MeetsThreshold(0.1))
}

func TestCoverageData_SummaryIsWeighted(t *testing.T) {
	d := NewCoverageData()

	small := &FileCoverage{Path: "small.lua", Lines: map[int]LineState{1: Covered}}
	big := &FileCoverage{Path: "big.lua", Lines: map[int]LineState{}}

	for i := 1; i <= 9; i++ {
		big.Lines[i] = NotCovered
	}

	broken := &FileCoverage{Path: "broken.lua", Excluded: true, Err: "boom", ErrKind: ErrKindSyntax}

	for _, f := range []*FileCoverage{small, big, broken} {
		f.Recount()
		d.Files[f.Path] = f
	}

	s := d.Summary()
	assert.Equal(t, 2, s.Files)
	assert.Equal(t, 1, s.ExcludedFiles)
	assert.Equal(t, 10, s.TotalExecutable)
	assert.InDelta(t, 10.0, s.Percentage(), 1e-9)
	assert.Equal(t, []Path{"big.lua", "broken.lua", "small.lua"}, d.Paths())
}

func TestWire_RoundTrip(t *testing.T) {
	d := NewCoverageData()
	f := &FileCoverage{
		Path:  "a.lua",
		Lines: map[int]LineState{2: Covered, 3: Executed, 5: NotCovered},
		Functions: []FunctionCoverage{
			{FunctionDescriptor: FunctionDescriptor{ID: 0, LineStart: 1, LineEnd: 1}, Executed: true},
			{FunctionDescriptor: FunctionDescriptor{ID: 1, LineStart: 1, LineEnd: 1}},
			{FunctionDescriptor: FunctionDescriptor{ID: 2, Name: "f", LineStart: 2, LineEnd: 4}, Executed: true},
		},
	}
	f.Recount()
	d.Files[f.Path] = f
	d.Files["bad.lua"] = &FileCoverage{Path: "bad.lua", Excluded: true, Err: "1:1: oops", ErrKind: ErrKindSyntax}

	wire := d.ToWire()
	assert.Equal(t, []int{2, 3, 5}, wire["a.lua"].ExecutableLines)
	assert.Equal(t, []int{2}, wire["a.lua"].Covered)
	assert.Equal(t, []int{2, 3}, wire["a.lua"].Executed)
	assert.True(t, wire["bad.lua"].Excluded)
	assert.Empty(t, wire["bad.lua"].ExecutableLines)

	back := FromWire(wire)
	assert.Equal(t, f.Lines, back.Files["a.lua"].Lines)
	assert.Equal(t, 1, back.Files["a.lua"].CoveredCount)
	assert.Equal(t, f.Functions, back.Files["a.lua"].Functions)
	assert.True(t, back.Files["bad.lua"].Excluded)
	assert.Equal(t, "1:1: oops", back.Files["bad.lua"].Err)
}

func TestFromWire_IgnoresStrayLines(t *testing.T) {
	d := FromWire(map[string]WireFile{
		"x.lua": {ExecutableLines: []int{1}, Covered: []int{7}, Executed: []int{1, 8}},
	})

	assert.Equal(t, map[int]LineState{1: Executed}, d.Files["x.lua"].Lines)
}

func TestParseLineState(t *testing.T) {
	for _, st := range []LineState{NotCovered, Executed, Covered} {
		got, err := ParseLineState(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseLineState("partial")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "10s", cfg.ParseTimeout)
	assert.Equal(t, 10_000_000_000, int(cfg.Timeout()))

	bad := cfg
	bad.Threshold = 120
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.PartialPolicy = "maybe"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.ParseTimeout = "soon"
	assert.Error(t, bad.Validate())
	assert.Zero(t, bad.Timeout())
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&parser.ParseError{Msg: "x"}, ErrKindSyntax},
		{parser.ErrEmptySource, ErrKindSyntax},
		{fmt.Errorf("wrapped: %w", &parser.ResourceLimitError{Limit: parser.LimitTimeout}), ErrKindResourceLimit},
		{&ast.ValidationError{Msg: "x"}, ErrKindValidation},
		{&parser.IOError{Path: "p", Err: errors.New("denied")}, ErrKindIO},
		{errors.New("other"), ErrKindOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}

func TestFileState_String(t *testing.T) {
	assert.Equal(t, "untracked", StateUntracked.String())
	assert.Equal(t, "aggregated", StateAggregated.String())
}

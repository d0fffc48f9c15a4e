package parser

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

func TestParse_IfStatementPositions(t *testing.T) {
	chunk, err := Parse("if x then\n  y = 1\nend", "a.lua")
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)

	ifs, ok := chunk.Block.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, ifs.Clauses[0].Keyword)
	assert.Equal(t, token.Pos{Line: 3, Column: 1}, ifs.End)
	assert.False(t, ifs.ElsePos.IsValid())

	body := ifs.Clauses[0].Body
	require.Len(t, body.Stmts, 1)
	assert.Equal(t, token.Pos{Line: 2, Column: 3}, body.Stmts[0].Pos())
	assert.Equal(t, 3, chunk.LastLine)
	assert.Equal(t, "a.lua", chunk.Name)
}

func TestParse_Functions(t *testing.T) {
	src := `local M = {}

function M.util:run(x, ...)
  return x, ...
end

local function helper(a, b)
  return a + b
end

M.cb = function() end
`

	chunk, err := Parse(src, "m.lua")
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 4)

	fs, ok := chunk.Block.Stmts[1].(*ast.FunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "M.util:run", fs.Name.String())
	assert.True(t, fs.Func.IsMethod)
	assert.True(t, fs.Func.IsVararg)
	require.Len(t, fs.Func.Params, 1)
	assert.Equal(t, "x", fs.Func.Params[0].Name)
	assert.Equal(t, 3, fs.Func.Function.Line)
	assert.Equal(t, 5, fs.Func.End.Line)

	lf, ok := chunk.Block.Stmts[2].(*ast.LocalFunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "helper", lf.Name.Name)
	assert.Len(t, lf.Func.Params, 2)
	assert.False(t, lf.Func.IsMethod)

	as, ok := chunk.Block.Stmts[3].(*ast.AssignStmt)
	require.True(t, ok)

	fn, ok := as.Values[0].(*ast.FunctionExpr)
	require.True(t, ok)
	assert.Empty(t, fn.Body.Stmts)
	assert.Equal(t, fn.End, fn.Body.Start)
}

func TestParse_LocalAttribs(t *testing.T) {
	chunk, err := Parse("local a <const>, b, c <close> = 1, 2, f()", "")
	require.NoError(t, err)

	ls, ok := chunk.Block.Stmts[0].(*ast.LocalStmt)
	require.True(t, ok)
	assert.Equal(t, []string{"const", "", "close"}, ls.Attribs)
	assert.Len(t, ls.Values, 3)
}

func TestParse_Precedence(t *testing.T) {
	chunk, err := Parse("x = 1 + 2 * 3 ^ 2 ^ 1 .. 'a' .. 'b'", "")
	require.NoError(t, err)

	as := chunk.Block.Stmts[0].(*ast.AssignStmt)

	// concat is lowest and right associative
	top, ok := as.Values[0].(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.CONCAT, top.Op)

	right, ok := top.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.CONCAT, right.Op)

	sum, ok := top.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.ADD, sum.Op)

	mul := sum.Right.(*ast.BinaryExpr)
	assert.Equal(t, token.MUL, mul.Op)

	pow := mul.Right.(*ast.BinaryExpr)
	assert.Equal(t, token.POW, pow.Op)
	assert.IsType(t, &ast.BinaryExpr{}, pow.Right)
}

func TestParse_UnaryBindsTighterThanBinaryButNotPow(t *testing.T) {
	chunk, err := Parse("x = -a ^ 2 + not b", "")
	require.NoError(t, err)

	sum := chunk.Block.Stmts[0].(*ast.AssignStmt).Values[0].(*ast.BinaryExpr)
	assert.Equal(t, token.ADD, sum.Op)

	neg := sum.Left.(*ast.UnaryExpr)
	assert.Equal(t, token.SUB, neg.Op)
	assert.Equal(t, token.POW, neg.Operand.(*ast.BinaryExpr).Op)
	assert.Equal(t, token.NOT, sum.Right.(*ast.UnaryExpr).Op)
}

func TestParse_Tables(t *testing.T) {
	chunk, err := Parse("t = { 1, name = 'x'; [k] = v, f{}, g'' }", "")
	require.NoError(t, err)

	tbl := chunk.Block.Stmts[0].(*ast.AssignStmt).Values[0].(*ast.TableExpr)
	require.Len(t, tbl.Fields, 5)
	assert.Equal(t, ast.FieldPositional, tbl.Fields[0].Type)
	assert.Equal(t, ast.FieldNamed, tbl.Fields[1].Type)
	assert.Equal(t, "name", tbl.Fields[1].Name)
	assert.Equal(t, ast.FieldKeyed, tbl.Fields[2].Type)

	call := tbl.Fields[3].Value.(*ast.CallExpr)
	assert.Equal(t, ast.ArgsTable, call.Style)

	call = tbl.Fields[4].Value.(*ast.CallExpr)
	assert.Equal(t, ast.ArgsString, call.Style)
}

func TestParse_Loops(t *testing.T) {
	src := `for i = 1, 10, 2 do
  if i > 5 then break end
end
for k, v in pairs(t) do print(k, v) end
while true do break end
repeat
  local x = 1
until x > 0
do goto done end
::done::
`

	chunk, err := Parse(src, "")
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 6)

	nf := chunk.Block.Stmts[0].(*ast.NumericForStmt)
	assert.Equal(t, "i", nf.Var.Name)
	assert.NotNil(t, nf.Step)

	gf := chunk.Block.Stmts[1].(*ast.GenericForStmt)
	assert.Len(t, gf.Names, 2)

	rep := chunk.Block.Stmts[3].(*ast.RepeatStmt)
	assert.Equal(t, 8, rep.Until.Line)

	assert.IsType(t, &ast.DoStmt{}, chunk.Block.Stmts[4])
	assert.IsType(t, &ast.LabelStmt{}, chunk.Block.Stmts[5])
}

func TestParse_MethodCalls(t *testing.T) {
	chunk, err := Parse("obj:method(1):chain 'x'", "")
	require.NoError(t, err)

	call := chunk.Block.Stmts[0].(*ast.CallStmt).Call
	assert.Equal(t, "chain", call.Method)

	inner := call.Fn.(*ast.CallExpr)
	assert.Equal(t, "method", inner.Method)
	assert.Len(t, inner.Args, 1)
}

func TestParse_Comments(t *testing.T) {
	chunk, err := Parse("-- hi\nx = 1 --[[ long\ncomment ]]\n", "")
	require.NoError(t, err)
	require.Len(t, chunk.Comments, 2)
	assert.Equal(t, "-- hi", chunk.Comments[0].Text)
	assert.Equal(t, 2, chunk.Comments[1].Pos.Line)
	assert.Equal(t, 3, chunk.Comments[1].EndLine)
}

func TestParse_Shebang(t *testing.T) {
	chunk, err := Parse("#!/usr/bin/env lua\nprint(1)\n", "")
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)
	assert.Equal(t, 2, chunk.Block.Stmts[0].Pos().Line)
}

func TestParse_ByteOrderMark(t *testing.T) {
	chunk, err := Parse("\ufeffprint(1)\n", "")
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, chunk.Block.Stmts[0].Pos())

	chunk, err = Parse("\ufeff#!/usr/bin/env lua\nprint(1)\n", "")
	require.NoError(t, err)
	assert.Equal(t, 2, chunk.Block.Stmts[0].Pos().Line)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unfinished assignment", "x = ", "unexpected symbol near <eof>"},
		{"missing end", "if x then", "'end' expected near <eof>"},
		{"missing end other line", "while x do\n\n", "'end' expected (to close 'while' at line 1) near <eof>"},
		{"break outside loop", "break", "break outside a loop"},
		{"code after return", "return 1 x = 2", "'<eof>' expected near 'x'"},
		{"unknown attribute", "local x <foo> = 1", "unknown attribute 'foo'"},
		{"vararg outside vararg function", "function f() return ... end", "cannot use '...'"},
		{"expression statement", "x", "syntax error near <eof>"},
		{"literal target", "1 = 2", "unexpected symbol near '1'"},
		{"malformed number", "x = 3e", "malformed number near '3e'"},
		{"unfinished string", "x = 'abc\ny'", "unfinished string"},
		{"unfinished long string", "x = [[abc", "unfinished long string"},
		{"bad escape", `x = "\q"`, "invalid escape sequence"},
		{"two close variables", "local a <close>, b <close> = 1, 2", "multiple to-be-closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk, err := Parse(tt.src, "bad.lua")
			assert.Nil(t, chunk)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Msg, tt.want)
			assert.Equal(t, "bad.lua", pe.Chunk)
			assert.Positive(t, pe.Line)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("local a = 1\nlocal b = )\n", "")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 11, pe.Column)
}

func TestParse_EmptySource(t *testing.T) {
	chunk, err := Parse("", "x.lua")
	assert.Nil(t, chunk)
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestParse_WhitespaceOnly(t *testing.T) {
	chunk, err := Parse("  \n\n", "x.lua")
	require.NoError(t, err)
	assert.Empty(t, chunk.Block.Stmts)
	assert.Equal(t, 2, chunk.LastLine)
}

func TestParse_SizeLimit(t *testing.T) {
	src := "x = 1\n" + strings.Repeat("-- padding\n", 20)

	chunk, err := Parse(src, "big.lua", WithMaxSize(32))
	assert.Nil(t, chunk)

	var rl *ResourceLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, LimitSize, rl.Limit)
	assert.Equal(t, int64(32), rl.Max)
	assert.Equal(t, int64(len(src)), rl.Actual)
	assert.Contains(t, rl.Error(), "big.lua")
}

func TestParse_DefaultSizeLimit(t *testing.T) {
	src := "x = 1\n" + strings.Repeat(" ", DefaultMaxSize)

	_, err := Parse(src, "huge.lua")

	var rl *ResourceLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, LimitSize, rl.Limit)
}

func TestParse_DepthLimit(t *testing.T) {
	src := "x = " + strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)

	_, err := Parse(src, "deep.lua")

	var rl *ResourceLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, LimitDepth, rl.Limit)
	assert.Equal(t, int64(DefaultMaxDepth), rl.Max)

	chunk, err := Parse(src, "deep.lua", WithMaxDepth(2000))
	require.NoError(t, err)
	assert.Len(t, chunk.Block.Stmts, 1)
}

func TestParse_Timeout(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	chunk, err := Parse("if a then if b then x = 1 end end", "slow.lua",
		WithTimeout(time.Millisecond), WithClock(clock, 1))
	assert.Nil(t, chunk)

	var rl *ResourceLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, LimitTimeout, rl.Limit)
	assert.Contains(t, rl.Error(), "slow.lua")
}

func TestParse_LongLeftChains(t *testing.T) {
	const links = 30000

	tests := []struct {
		name string
		src  string
	}{
		{"binary", "x = 1" + strings.Repeat(" + 1", links)},
		{"field", "x = a" + strings.Repeat(".b", links)},
		{"index", "x = a" + strings.Repeat("[1]", links)},
		{"call", "f" + strings.Repeat("()", links)},
		{"method", "o" + strings.Repeat(":m()", links)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started := time.Now()
			chunk, err := Parse(tt.src, "chain.lua", WithTimeout(2*time.Second))
			elapsed := time.Since(started)

			if err != nil {
				var rl *ResourceLimitError
				require.ErrorAs(t, err, &rl)
				assert.Equal(t, LimitTimeout, rl.Limit)
			} else {
				require.Len(t, chunk.Block.Stmts, 1)
			}

			assert.Less(t, elapsed, 5*time.Second, "parse must stay near its deadline")
		})
	}
}

func TestParse_ChainPositions(t *testing.T) {
	chunk, err := Parse("x = y\n  + a.b.c(1)[2]", "pos.lua")
	require.NoError(t, err)

	assign, ok := chunk.Block.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)

	sum, ok := assign.Values[0].(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.Pos{Line: 1, Column: 5}, sum.Pos())
	assert.Equal(t, token.Pos{Line: 1, Column: 5}, sum.Start)

	index, ok := sum.Right.(*ast.IndexExpr)
	require.True(t, ok)
	assert.Equal(t, token.Pos{Line: 2, Column: 5}, index.Pos())

	call, ok := index.Obj.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, token.Pos{Line: 2, Column: 5}, call.Start)
}

func TestParse_ValidationHonorsDeadline(t *testing.T) {
	src := "x = 1" + strings.Repeat(" + 1", 200)
	epoch := time.Unix(0, 0)

	calls := 0
	counting := func() time.Time {
		calls++
		return epoch
	}

	_, err := Parse(src, "sum.lua", WithClock(counting, 1))
	require.NoError(t, err)

	// The last clock read of a parse belongs to the validation pass.
	last := calls
	calls = 0
	lateValidation := func() time.Time {
		calls++
		if calls >= last {
			return epoch.Add(time.Hour)
		}

		return epoch
	}

	chunk, err := Parse(src, "sum.lua", WithClock(lateValidation, 1), WithTimeout(time.Second))
	assert.Nil(t, chunk)

	var rl *ResourceLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, LimitTimeout, rl.Limit)
}

func TestParseFile(t *testing.T) {
	read := func(path string) ([]byte, error) {
		if path == "ok.lua" {
			return []byte("return 1\n"), nil
		}

		return nil, os.ErrNotExist
	}

	chunk, err := ParseFile(read, "ok.lua")
	require.NoError(t, err)
	assert.Equal(t, "ok.lua", chunk.Name)

	_, err = ParseFile(read, "missing.lua")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "missing.lua", ioErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\r\nb"))
}

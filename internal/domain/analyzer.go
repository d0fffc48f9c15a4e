package domain

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"

	"github.com/greggh/lust-next-sub011/internal/logger"
	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/parser"
	"github.com/greggh/lust-next-sub011/internal/lua/token"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

// Analyzer turns Lua source into code maps.
type Analyzer interface {
	// CreateCodeMap parses, validates and analyzes source. It never fails:
	// problems produce an invalid code map carrying the error.
	CreateCodeMap(path m.Path, source []byte, cfg m.Config) *m.CodeMap
	// AnalyzeChunk builds a code map from an already parsed chunk. The
	// chunk is validated first.
	AnalyzeChunk(path m.Path, chunk *ast.Chunk, source string, cfg m.Config) *m.CodeMap
	ExecutableLines(chunk *ast.Chunk, source string, cfg m.Config) (m.LineSet, error)
	Functions(chunk *ast.Chunk) []m.FunctionDescriptor
}

type analyzer struct {
	log *logger.Logger
}

// NewAnalyzer returns an Analyzer that reports rejected files on log. A nil
// logger discards.
func NewAnalyzer(log *logger.Logger) Analyzer {
	return &analyzer{log: log}
}

// ContentHash returns the hex SHA-256 of b, the same fingerprint the
// filesystem adapter computes for files on disk.
func ContentHash(b []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(b))
}

// ParseOptions translates the parser limits of cfg.
func ParseOptions(cfg m.Config) []parser.Option {
	return []parser.Option{
		parser.WithMaxSize(cfg.MaxFileSize),
		parser.WithTimeout(cfg.Timeout()),
		parser.WithMaxDepth(cfg.MaxDepth),
	}
}

func (a *analyzer) CreateCodeMap(path m.Path, source []byte, cfg m.Config) (cm *m.CodeMap) {
	src := string(source)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("analyze %s: %v", path, r)
			a.reject(path, err)
			cm = m.Invalid(path, ContentHash(source), parser.SplitLines(src), err)
		}
	}()

	chunk, err := parser.Parse(src, string(path), ParseOptions(cfg)...)
	if err != nil {
		a.reject(path, err)
		return m.Invalid(path, ContentHash(source), parser.SplitLines(src), err)
	}

	// Parse has validated the tree under the parse deadline.
	return a.analyze(path, chunk, src, cfg)
}

func (a *analyzer) AnalyzeChunk(path m.Path, chunk *ast.Chunk, source string, cfg m.Config) *m.CodeMap {
	if err := ast.Validate(chunk); err != nil {
		a.reject(path, err)
		return m.Invalid(path, ContentHash([]byte(source)), parser.SplitLines(source), err)
	}

	return a.analyze(path, chunk, source, cfg)
}

func (a *analyzer) analyze(path m.Path, chunk *ast.Chunk, source string, cfg m.Config) *m.CodeMap {
	lines := parser.SplitLines(source)

	kinds, err := parser.ClassifyLines(source)
	if err != nil {
		a.reject(path, err)
		return m.Invalid(path, ContentHash([]byte(source)), lines, err)
	}

	functions := a.Functions(chunk)
	ignore := buildIgnoreIndex(chunk, kinds, functions)

	executable := executableLines(chunk, kinds, cfg.ControlFlowKeywordsExecutable)
	ignored := m.NewLineSet()

	for line := range executable {
		if ignore.ignores(line) {
			ignored.Add(line)
			delete(executable, line)
		}
	}

	cm := &m.CodeMap{
		Path:            path,
		Hash:            ContentHash([]byte(source)),
		SourceLines:     lines,
		ExecutableLines: executable,
		IgnoredLines:    ignored,
		Functions:       functions,
		Valid:           true,
	}

	if cfg.TrackBlocks {
		cm.Blocks = collectBlocks(chunk)
	}

	a.log.Debug("code map built",
		"path", path,
		"executable", len(executable),
		"functions", len(functions),
		"blocks", len(cm.Blocks),
	)

	return cm
}

func (a *analyzer) ExecutableLines(chunk *ast.Chunk, source string, cfg m.Config) (m.LineSet, error) {
	kinds, err := parser.ClassifyLines(source)
	if err != nil {
		return nil, err
	}

	return executableLines(chunk, kinds, cfg.ControlFlowKeywordsExecutable), nil
}

func (a *analyzer) reject(path m.Path, err error) {
	var rl *parser.ResourceLimitError

	switch kind := m.ErrorKind(err); {
	case errors.As(err, &rl):
		a.log.Warning("file excluded from coverage", "path", path, "kind", kind, "limit", string(rl.Limit), "err", err)
	default:
		a.log.Warning("file excluded from coverage", "path", path, "kind", kind, "err", err)
	}
}

// executableLines collects statement start lines. With keywords set, the
// header lines of conditionals, loops and function bodies and their
// terminators (end, else, until) count too. Only lines classified as code
// survive.
func executableLines(chunk *ast.Chunk, kinds []parser.LineKind, keywords bool) m.LineSet {
	lines := m.NewLineSet()

	mark := func(p token.Pos) {
		if p.IsValid() && p.Line <= len(kinds) && kinds[p.Line-1] == parser.LineCode {
			lines.Add(p.Line)
		}
	}

	markKeyword := func(p token.Pos) {
		if keywords {
			mark(p)
		}
	}

	ast.Inspect(chunk, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.LocalStmt, *ast.AssignStmt, *ast.CallStmt, *ast.ReturnStmt,
			*ast.BreakStmt, *ast.GotoStmt, *ast.FunctionStmt, *ast.LocalFunctionStmt:
			mark(n.Pos())
		case *ast.IfStmt:
			for _, c := range n.Clauses {
				markKeyword(c.Keyword)
			}

			markKeyword(n.ElsePos)
			markKeyword(n.End)
		case *ast.WhileStmt:
			markKeyword(n.While)
			markKeyword(n.End)
		case *ast.NumericForStmt:
			markKeyword(n.For)
			markKeyword(n.End)
		case *ast.GenericForStmt:
			markKeyword(n.For)
			markKeyword(n.End)
		case *ast.RepeatStmt:
			markKeyword(n.Until)
		case *ast.DoStmt:
			markKeyword(n.End)
		case *ast.FunctionExpr:
			markKeyword(n.End)
		}

		return true
	})

	return lines
}

func (a *analyzer) Functions(chunk *ast.Chunk) []m.FunctionDescriptor {
	names := map[*ast.FunctionExpr]string{}

	bind := func(target ast.Expr, value ast.Expr) {
		if fn, ok := value.(*ast.FunctionExpr); ok {
			if name := exprName(target); name != "" {
				names[fn] = name
			}
		}
	}

	ast.Inspect(chunk, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FunctionStmt:
			names[n.Func] = n.Name.String()
		case *ast.LocalFunctionStmt:
			names[n.Func] = n.Name.Name
		case *ast.LocalStmt:
			for i, v := range n.Values {
				if i < len(n.Names) {
					bind(n.Names[i], v)
				}
			}
		case *ast.AssignStmt:
			for i, v := range n.Values {
				if i < len(n.Targets) {
					bind(n.Targets[i], v)
				}
			}
		case *ast.TableField:
			fn, ok := n.Value.(*ast.FunctionExpr)
			if !ok {
				break
			}

			switch n.Type {
			case ast.FieldNamed:
				names[fn] = n.Name
			case ast.FieldKeyed:
				if s, ok := n.Key.(*ast.StringExpr); ok && s.Value != "" {
					names[fn] = s.Value
				}
			}
		}

		return true
	})

	var out []m.FunctionDescriptor

	ast.Inspect(chunk, func(n ast.Node) bool {
		fn, ok := n.(*ast.FunctionExpr)
		if !ok {
			return true
		}

		params := make([]string, 0, len(fn.Params)+1)
		for _, p := range fn.Params {
			params = append(params, p.Name)
		}

		if fn.IsVararg {
			params = append(params, "...")
		}

		out = append(out, m.FunctionDescriptor{
			Name:      names[fn],
			LineStart: fn.Function.Line,
			LineEnd:   fn.End.Line,
			Params:    params,
			IsVararg:  fn.IsVararg,
			IsMethod:  fn.IsMethod,
		})

		return true
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].LineStart < out[j].LineStart })

	for i := range out {
		out[i].ID = i
	}

	return out
}

// exprName renders a variable or dotted field access; other expressions
// have no name.
func exprName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.NameExpr:
		return e.Name
	case *ast.IndexExpr:
		key, ok := e.Key.(*ast.StringExpr)
		if !ok {
			return ""
		}

		obj := exprName(e.Obj)
		if obj == "" {
			return ""
		}

		return obj + "." + key.Value
	default:
		return ""
	}
}

// collectBlocks lists the nested blocks of chunk in document order. Lines
// holds the start lines of the statements directly inside each block.
func collectBlocks(chunk *ast.Chunk) []m.BlockDescriptor {
	var blocks []m.BlockDescriptor

	var walk func(n ast.Node, parent int)

	add := func(kind m.BlockKind, start, end token.Pos, body *ast.Block, parent int) {
		id := len(blocks)
		d := m.BlockDescriptor{ID: id, Kind: kind, LineStart: start.Line, LineEnd: end.Line, Parent: parent}

		seen := m.NewLineSet()

		for _, s := range body.Stmts {
			if _, label := s.(*ast.LabelStmt); label {
				continue
			}

			if l := s.Pos().Line; !seen.Has(l) {
				seen.Add(l)
				d.Lines = append(d.Lines, l)
			}
		}

		blocks = append(blocks, d)
		walk(body, id)
	}

	walk = func(n ast.Node, parent int) {
		switch n := n.(type) {
		case *ast.IfStmt:
			for i, c := range n.Clauses {
				walk(c.Cond, parent)

				end := n.End
				switch {
				case i+1 < len(n.Clauses):
					end = n.Clauses[i+1].Keyword
				case n.Else != nil:
					end = n.ElsePos
				}

				add(m.BlockThen, c.Keyword, end, c.Body, parent)
			}

			if n.Else != nil {
				add(m.BlockElse, n.ElsePos, n.End, n.Else, parent)
			}
		case *ast.WhileStmt:
			walk(n.Cond, parent)
			add(m.BlockWhile, n.While, n.End, n.Body, parent)
		case *ast.RepeatStmt:
			add(m.BlockRepeat, n.Repeat, n.Until, n.Body, parent)
			walk(n.Cond, parent)
		case *ast.NumericForStmt:
			walk(n.Start, parent)
			walk(n.Limit, parent)

			if n.Step != nil {
				walk(n.Step, parent)
			}

			add(m.BlockFor, n.For, n.End, n.Body, parent)
		case *ast.GenericForStmt:
			for _, e := range n.Exprs {
				walk(e, parent)
			}

			add(m.BlockFor, n.For, n.End, n.Body, parent)
		case *ast.DoStmt:
			add(m.BlockDo, n.Do, n.End, n.Body, parent)
		case *ast.FunctionExpr:
			add(m.BlockFunction, n.Function, n.End, n.Body, parent)
		default:
			for _, c := range ast.Children(n) {
				if c != nil {
					walk(c, parent)
				}
			}
		}
	}

	walk(chunk, -1)

	return blocks
}

package adapter

import (
	"os"
	"strings"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/parser"
	"github.com/greggh/lust-next-sub011/internal/lua/printer"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

// LuaFileAdapter encapsulates Lua-specific parsing and printing so the domain
// layer and the CLI can work with files without knowing parser details.
type LuaFileAdapter interface {
	// Parse reads path and builds its AST.
	Parse(path m.Path, opts ...parser.Option) (*ast.Chunk, error)
	// Format parses path and returns its pretty-printed source.
	Format(path m.Path, opts ...parser.Option) (string, error)
}

// LocalLuaFileAdapter provides a concrete LuaFileAdapter reading from disk.
type LocalLuaFileAdapter struct {
	read    parser.ReadFunc
	printer *printer.Config
}

// NewLocalLuaFileAdapter constructs a LocalLuaFileAdapter. An empty indent
// selects the printer default.
func NewLocalLuaFileAdapter(indent string) *LocalLuaFileAdapter {
	return &LocalLuaFileAdapter{read: os.ReadFile, printer: &printer.Config{Indent: indent}}
}

// Parse builds an AST for the file at path.
func (a *LocalLuaFileAdapter) Parse(path m.Path, opts ...parser.Option) (*ast.Chunk, error) {
	return parser.ParseFile(a.read, string(path), opts...)
}

// Format returns the canonical rendering of the file at path.
func (a *LocalLuaFileAdapter) Format(path m.Path, opts ...parser.Option) (string, error) {
	chunk, err := a.Parse(path, opts...)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := a.printer.Fprint(&b, chunk); err != nil {
		return "", err
	}

	return b.String(), nil
}

// Package ast declares the types used to represent syntax trees for Lua
// chunks.
//
// Every node owns its children (the tree never shares or cycles) and every
// node that can start a statement or an expression carries the position of
// its first token. Block-closing keywords (end, else, until) are recorded on
// the constructs they close so that static analysis can reason about the
// lines they occupy.
package ast

import (
	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

// NodeKind tags every concrete node type.
type NodeKind int

// Node kinds. KindInvalid is never produced by the parser.
const (
	KindInvalid NodeKind = iota

	KindChunk
	KindBlock

	// statements
	KindLocal
	KindAssign
	KindCallStmt
	KindDo
	KindWhile
	KindRepeat
	KindIf
	KindIfClause
	KindNumericFor
	KindGenericFor
	KindFunctionStmt
	KindLocalFunction
	KindReturn
	KindBreak
	KindGoto
	KindLabel

	// expressions
	KindNil
	KindBool
	KindNumber
	KindString
	KindVararg
	KindFunction
	KindTable
	KindTableField
	KindBinary
	KindUnary
	KindName
	KindIndex
	KindCall
	KindParen

	kindCount
)

var kindNames = [...]string{
	KindInvalid:       "invalid",
	KindChunk:         "chunk",
	KindBlock:         "block",
	KindLocal:         "local",
	KindAssign:        "assign",
	KindCallStmt:      "callstmt",
	KindDo:            "do",
	KindWhile:         "while",
	KindRepeat:        "repeat",
	KindIf:            "if",
	KindIfClause:      "ifclause",
	KindNumericFor:    "fornum",
	KindGenericFor:    "forin",
	KindFunctionStmt:  "funcstmt",
	KindLocalFunction: "localfunc",
	KindReturn:        "return",
	KindBreak:         "break",
	KindGoto:          "goto",
	KindLabel:         "label",
	KindNil:           "nil",
	KindBool:          "bool",
	KindNumber:        "number",
	KindString:        "string",
	KindVararg:        "vararg",
	KindFunction:      "function",
	KindTable:         "table",
	KindTableField:    "field",
	KindBinary:        "binop",
	KindUnary:         "unop",
	KindName:          "name",
	KindIndex:         "index",
	KindCall:          "call",
	KindParen:         "paren",
}

func (k NodeKind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}

	return "unknown"
}

// Known reports whether k is one of the declared node kinds.
func (k NodeKind) Known() bool { return k > KindInvalid && k < kindCount }

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() NodeKind
	Pos() token.Pos
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Comment is a single line or long comment.
type Comment struct {
	Pos     token.Pos
	EndLine int
	Text    string // raw text including the leading "--"
}

// ----------------------------------------------------------------------------
// Structure

// Chunk is the root of a parsed source file.
type Chunk struct {
	Name     string
	Block    *Block
	Comments []*Comment
	// LastLine is the number of lines in the source.
	LastLine int
}

// Block is a sequence of statements.
type Block struct {
	Start token.Pos // position of the first token of the block, or of its opener
	Stmts []Stmt
}

// ----------------------------------------------------------------------------
// Statements

// LocalStmt is "local n1 <attr>, n2 = e1, e2".
type LocalStmt struct {
	Local   token.Pos
	Names   []*NameExpr
	Attribs []string // parallel to Names; "" when absent
	Values  []Expr
}

// AssignStmt is "t1, t2 = e1, e2".
type AssignStmt struct {
	Targets []Expr
	Values  []Expr
}

// CallStmt is a function call used as a statement.
type CallStmt struct {
	Call *CallExpr
}

// DoStmt is "do ... end".
type DoStmt struct {
	Do   token.Pos
	Body *Block
	End  token.Pos
}

// WhileStmt is "while cond do ... end".
type WhileStmt struct {
	While token.Pos
	Cond  Expr
	Body  *Block
	End   token.Pos
}

// RepeatStmt is "repeat ... until cond".
type RepeatStmt struct {
	Repeat token.Pos
	Body   *Block
	Until  token.Pos
	Cond   Expr
}

// IfClause is one "if cond then" or "elseif cond then" arm.
type IfClause struct {
	Keyword token.Pos
	Cond    Expr
	Body    *Block
}

// IfStmt is an if statement with its elseif arms and optional else.
type IfStmt struct {
	Clauses []*IfClause // at least one; Clauses[0] is the "if" arm
	ElsePos token.Pos   // invalid when there is no else
	Else    *Block
	End     token.Pos
}

// NumericForStmt is "for v = start, limit, step do ... end".
type NumericForStmt struct {
	For   token.Pos
	Var   *NameExpr
	Start Expr
	Limit Expr
	Step  Expr // nil when omitted
	Body  *Block
	End   token.Pos
}

// GenericForStmt is "for n1, n2 in e1, e2 do ... end".
type GenericForStmt struct {
	For   token.Pos
	Names []*NameExpr
	Exprs []Expr
	Body  *Block
	End   token.Pos
}

// FuncName is the name part of a function statement: a.b.c or a.b:m.
type FuncName struct {
	Pos    token.Pos
	Parts  []string
	Method string // "" unless the colon form was used
}

// String renders the dotted name.
func (f *FuncName) String() string {
	s := ""

	for i, p := range f.Parts {
		if i > 0 {
			s += "."
		}

		s += p
	}

	if f.Method != "" {
		s += ":" + f.Method
	}

	return s
}

// FunctionStmt is "function a.b:c(...) ... end".
type FunctionStmt struct {
	Function token.Pos
	Name     *FuncName
	Func     *FunctionExpr
}

// LocalFunctionStmt is "local function f(...) ... end".
type LocalFunctionStmt struct {
	Local token.Pos
	Name  *NameExpr
	Func  *FunctionExpr
}

// ReturnStmt is "return e1, e2".
type ReturnStmt struct {
	Return token.Pos
	Values []Expr
}

// BreakStmt is "break".
type BreakStmt struct {
	Break token.Pos
}

// GotoStmt is "goto label".
type GotoStmt struct {
	Goto  token.Pos
	Label string
}

// LabelStmt is "::label::".
type LabelStmt struct {
	Colons token.Pos
	Name   string
}

// ----------------------------------------------------------------------------
// Expressions

// NilExpr is the nil literal.
type NilExpr struct{ ValuePos token.Pos }

// BoolExpr is true or false.
type BoolExpr struct {
	ValuePos token.Pos
	Value    bool
}

// NumberExpr is a numeric literal kept in its source form.
type NumberExpr struct {
	ValuePos token.Pos
	Raw      string
}

// StringExpr is a string literal; Value is decoded.
type StringExpr struct {
	ValuePos token.Pos
	Value    string
}

// VarargExpr is "...".
type VarargExpr struct{ Ellipsis token.Pos }

// FunctionExpr is a function body: "function (params) ... end". Function
// statements and local functions wrap one of these.
type FunctionExpr struct {
	Function token.Pos
	Params   []*NameExpr
	IsVararg bool
	// IsMethod is set when the function was declared with the colon sugar
	// and therefore receives an implicit "self" first parameter.
	IsMethod bool
	Body     *Block
	End      token.Pos
}

// FieldKind distinguishes the three table constructor field forms.
type FieldKind int

// Table field forms.
const (
	FieldPositional FieldKind = iota // value
	FieldNamed                       // name = value
	FieldKeyed                       // [key] = value
)

// TableField is one entry of a table constructor.
type TableField struct {
	FieldPos token.Pos
	Type     FieldKind
	Name     string // FieldNamed only
	Key      Expr   // FieldKeyed only
	Value    Expr
}

// TableExpr is a table constructor.
type TableExpr struct {
	Lbrace token.Pos
	Fields []*TableField
	Rbrace token.Pos
}

// BinaryExpr is "left op right".
type BinaryExpr struct {
	Start token.Pos // first token of Left; zero falls back to Left.Pos()
	Op    token.Kind
	OpPos token.Pos
	Left  Expr
	Right Expr
}

// UnaryExpr is "op operand" for not, -, # and ~.
type UnaryExpr struct {
	Op      token.Kind
	OpPos   token.Pos
	Operand Expr
}

// NameExpr is an identifier.
type NameExpr struct {
	NamePos token.Pos
	Name    string
}

// IndexExpr is "obj[key]" or, with Dot set, "obj.name" where Key is a
// StringExpr holding the name.
type IndexExpr struct {
	Start token.Pos // first token of Obj; zero falls back to Obj.Pos()
	Obj   Expr
	Key   Expr
	Dot   bool
}

// ArgStyle records how call arguments were written.
type ArgStyle int

// Call argument forms.
const (
	ArgsParen  ArgStyle = iota // f(a, b)
	ArgsString                 // f "s"
	ArgsTable                  // f {...}
)

// CallExpr is "fn(args)" or, with Method set, "fn:method(args)".
type CallExpr struct {
	Start  token.Pos // first token of Fn; zero falls back to Fn.Pos()
	Fn     Expr
	Method string
	Args   []Expr
	Style  ArgStyle
}

// ParenExpr is "(inner)". Parentheses are kept because they truncate
// multiple results in Lua.
type ParenExpr struct {
	Lparen token.Pos
	Inner  Expr
}

// ----------------------------------------------------------------------------
// Kind and Pos implementations

func (n *Chunk) Kind() NodeKind             { return KindChunk }
func (n *Block) Kind() NodeKind             { return KindBlock }
func (n *LocalStmt) Kind() NodeKind         { return KindLocal }
func (n *AssignStmt) Kind() NodeKind        { return KindAssign }
func (n *CallStmt) Kind() NodeKind          { return KindCallStmt }
func (n *DoStmt) Kind() NodeKind            { return KindDo }
func (n *WhileStmt) Kind() NodeKind         { return KindWhile }
func (n *RepeatStmt) Kind() NodeKind        { return KindRepeat }
func (n *IfStmt) Kind() NodeKind            { return KindIf }
func (n *IfClause) Kind() NodeKind          { return KindIfClause }
func (n *NumericForStmt) Kind() NodeKind    { return KindNumericFor }
func (n *GenericForStmt) Kind() NodeKind    { return KindGenericFor }
func (n *FunctionStmt) Kind() NodeKind      { return KindFunctionStmt }
func (n *LocalFunctionStmt) Kind() NodeKind { return KindLocalFunction }
func (n *ReturnStmt) Kind() NodeKind        { return KindReturn }
func (n *BreakStmt) Kind() NodeKind         { return KindBreak }
func (n *GotoStmt) Kind() NodeKind          { return KindGoto }
func (n *LabelStmt) Kind() NodeKind         { return KindLabel }
func (n *NilExpr) Kind() NodeKind           { return KindNil }
func (n *BoolExpr) Kind() NodeKind          { return KindBool }
func (n *NumberExpr) Kind() NodeKind        { return KindNumber }
func (n *StringExpr) Kind() NodeKind        { return KindString }
func (n *VarargExpr) Kind() NodeKind        { return KindVararg }
func (n *FunctionExpr) Kind() NodeKind      { return KindFunction }
func (n *TableExpr) Kind() NodeKind         { return KindTable }
func (n *TableField) Kind() NodeKind        { return KindTableField }
func (n *BinaryExpr) Kind() NodeKind        { return KindBinary }
func (n *UnaryExpr) Kind() NodeKind         { return KindUnary }
func (n *NameExpr) Kind() NodeKind          { return KindName }
func (n *IndexExpr) Kind() NodeKind         { return KindIndex }
func (n *CallExpr) Kind() NodeKind          { return KindCall }
func (n *ParenExpr) Kind() NodeKind         { return KindParen }

func (n *Chunk) Pos() token.Pos {
	if n.Block == nil {
		return token.Pos{}
	}

	return n.Block.Pos()
}
func (n *Block) Pos() token.Pos             { return n.Start }
func (n *LocalStmt) Pos() token.Pos         { return n.Local }
func (n *AssignStmt) Pos() token.Pos        { return exprsPos(n.Targets) }
func (n *CallStmt) Pos() token.Pos          { return safePos(n.Call) }
func (n *DoStmt) Pos() token.Pos            { return n.Do }
func (n *WhileStmt) Pos() token.Pos         { return n.While }
func (n *RepeatStmt) Pos() token.Pos        { return n.Repeat }
func (n *IfClause) Pos() token.Pos          { return n.Keyword }
func (n *NumericForStmt) Pos() token.Pos    { return n.For }
func (n *GenericForStmt) Pos() token.Pos    { return n.For }
func (n *FunctionStmt) Pos() token.Pos      { return n.Function }
func (n *LocalFunctionStmt) Pos() token.Pos { return n.Local }
func (n *ReturnStmt) Pos() token.Pos        { return n.Return }
func (n *BreakStmt) Pos() token.Pos         { return n.Break }
func (n *GotoStmt) Pos() token.Pos          { return n.Goto }
func (n *LabelStmt) Pos() token.Pos         { return n.Colons }
func (n *NilExpr) Pos() token.Pos           { return n.ValuePos }
func (n *BoolExpr) Pos() token.Pos          { return n.ValuePos }
func (n *NumberExpr) Pos() token.Pos        { return n.ValuePos }
func (n *StringExpr) Pos() token.Pos        { return n.ValuePos }
func (n *VarargExpr) Pos() token.Pos        { return n.Ellipsis }
func (n *FunctionExpr) Pos() token.Pos      { return n.Function }
func (n *TableExpr) Pos() token.Pos         { return n.Lbrace }
func (n *TableField) Pos() token.Pos        { return n.FieldPos }
func (n *BinaryExpr) Pos() token.Pos        { return startPos(n.Start, n.Left) }
func (n *UnaryExpr) Pos() token.Pos         { return n.OpPos }
func (n *NameExpr) Pos() token.Pos          { return n.NamePos }
func (n *IndexExpr) Pos() token.Pos         { return startPos(n.Start, n.Obj) }
func (n *CallExpr) Pos() token.Pos          { return startPos(n.Start, n.Fn) }
func (n *ParenExpr) Pos() token.Pos         { return n.Lparen }

func (n *IfStmt) Pos() token.Pos {
	if len(n.Clauses) == 0 || n.Clauses[0] == nil {
		return token.Pos{}
	}

	return n.Clauses[0].Keyword
}

func exprsPos(list []Expr) token.Pos {
	if len(list) == 0 {
		return token.Pos{}
	}

	return safePos(list[0])
}

// startPos returns the recorded start of a left-recursive node, walking the
// left spine only for trees built without positions.
func startPos(start token.Pos, left Node) token.Pos {
	if start.IsValid() {
		return start
	}

	return safePos(left)
}

func safePos(n Node) token.Pos {
	if isNil(n) {
		return token.Pos{}
	}

	return n.Pos()
}

func (*LocalStmt) stmtNode()         {}
func (*AssignStmt) stmtNode()        {}
func (*CallStmt) stmtNode()          {}
func (*DoStmt) stmtNode()            {}
func (*WhileStmt) stmtNode()         {}
func (*RepeatStmt) stmtNode()        {}
func (*IfStmt) stmtNode()            {}
func (*NumericForStmt) stmtNode()    {}
func (*GenericForStmt) stmtNode()    {}
func (*FunctionStmt) stmtNode()      {}
func (*LocalFunctionStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()         {}
func (*GotoStmt) stmtNode()          {}
func (*LabelStmt) stmtNode()         {}

func (*NilExpr) exprNode()      {}
func (*BoolExpr) exprNode()     {}
func (*NumberExpr) exprNode()   {}
func (*StringExpr) exprNode()   {}
func (*VarargExpr) exprNode()   {}
func (*FunctionExpr) exprNode() {}
func (*TableExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*NameExpr) exprNode()     {}
func (*IndexExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*ParenExpr) exprNode()    {}

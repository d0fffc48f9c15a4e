// Package token defines the lexical tokens of Lua source and their positions.
package token

import "fmt"

// Kind is the set of lexical tokens of the Lua language.
type Kind int

// The list of tokens.
const (
	ILLEGAL Kind = iota
	EOF
	COMMENT

	literalBeg
	NAME   // foo
	NUMBER // 12, 0x1p4, 3.5e-2
	STRING // "abc", 'abc', [[abc]]
	literalEnd

	operatorBeg
	ADD    // +
	SUB    // -
	MUL    // *
	DIV    // /
	IDIV   // //
	MOD    // %
	POW    // ^
	LEN    // #
	BAND   // &
	BXOR   // ~ (binary) and bitwise not (unary)
	BOR    // |
	SHL    // <<
	SHR    // >>
	CONCAT // ..
	EQ     // ==
	NE     // ~=
	LT     // <
	LE     // <=
	GT     // >
	GE     // >=
	ASSIGN // =

	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACK    // [
	RBRACK    // ]
	DBCOLON   // ::
	SEMICOLON // ;
	COLON     // :
	COMMA     // ,
	DOT       // .
	ELLIPSIS  // ...
	operatorEnd

	keywordBeg
	AND
	BREAK
	DO
	ELSE
	ELSEIF
	END
	FALSE
	FOR
	FUNCTION
	GOTO
	IF
	IN
	LOCAL
	NIL
	NOT
	OR
	REPEAT
	RETURN
	THEN
	TRUE
	UNTIL
	WHILE
	keywordEnd
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",

	NAME:   "NAME",
	NUMBER: "NUMBER",
	STRING: "STRING",

	ADD:    "+",
	SUB:    "-",
	MUL:    "*",
	DIV:    "/",
	IDIV:   "//",
	MOD:    "%",
	POW:    "^",
	LEN:    "#",
	BAND:   "&",
	BXOR:   "~",
	BOR:    "|",
	SHL:    "<<",
	SHR:    ">>",
	CONCAT: "..",
	EQ:     "==",
	NE:     "~=",
	LT:     "<",
	LE:     "<=",
	GT:     ">",
	GE:     ">=",
	ASSIGN: "=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACK:    "[",
	RBRACK:    "]",
	DBCOLON:   "::",
	SEMICOLON: ";",
	COLON:     ":",
	COMMA:     ",",
	DOT:       ".",
	ELLIPSIS:  "...",

	AND:      "and",
	BREAK:    "break",
	DO:       "do",
	ELSE:     "else",
	ELSEIF:   "elseif",
	END:      "end",
	FALSE:    "false",
	FOR:      "for",
	FUNCTION: "function",
	GOTO:     "goto",
	IF:       "if",
	IN:       "in",
	LOCAL:    "local",
	NIL:      "nil",
	NOT:      "not",
	OR:       "or",
	REPEAT:   "repeat",
	RETURN:   "return",
	THEN:     "then",
	TRUE:     "true",
	UNTIL:    "until",
	WHILE:    "while",
}

// String returns the source text of operators and keywords and the
// upper-case name of the other token kinds.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(tokens) && tokens[k] != "" {
		return tokens[k]
	}

	return fmt.Sprintf("token(%d)", int(k))
}

var keywords map[string]Kind

func init() {
	keywords = make(map[string]Kind, keywordEnd-keywordBeg)
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		keywords[tokens[k]] = k
	}
}

// Lookup maps an identifier to its keyword kind, or NAME.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return NAME
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return keywordBeg < k && k < keywordEnd }

// IsLiteral reports whether k is a name, number or string.
func (k Kind) IsLiteral() bool { return literalBeg < k && k < literalEnd }

// IsOperator reports whether k is an operator or delimiter.
func (k Kind) IsOperator() bool { return operatorBeg < k && k < operatorEnd }

// Pos is a 1-based line/column position in a chunk. The zero value means
// "no position".
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position carries a line.
func (p Pos) IsValid() bool { return p.Line > 0 }

// Before reports whether p is strictly before q in document order.
func (p Pos) Before(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}

	return p.Column < q.Column
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a scanned lexeme.
type Token struct {
	Kind Kind
	Pos  Pos
	// EndLine is the line of the last character; differs from Pos.Line only
	// for long strings and long comments.
	EndLine int
	// Lit holds the raw source text for NAME, NUMBER and COMMENT and the
	// decoded value for STRING.
	Lit string
	// Raw is the verbatim source text of the token.
	Raw string
}

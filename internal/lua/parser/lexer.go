package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

// lexer turns Lua source into tokens on demand. Comments are not returned
// as tokens; they are collected on the side for directive handling and line
// classification.
type lexer struct {
	src   string
	chunk string
	off   int
	line  int
	col   int

	comments []*ast.Comment
}

// byteOrderMark is skipped at the start of a chunk.
const byteOrderMark = "\ufeff"

func newLexer(src, chunk string) *lexer {
	l := &lexer{src: src, chunk: chunk, line: 1, col: 1}

	if strings.HasPrefix(src, byteOrderMark) {
		l.off = len(byteOrderMark)
	}

	// a first line starting with '#' is a shebang
	if strings.HasPrefix(src[l.off:], "#") {
		for l.off < len(l.src) && l.src[l.off] != '\n' {
			l.advance()
		}
	}

	return l
}

func (l *lexer) fail(line, col int, format string, args ...any) {
	panic(bailout{err: &ParseError{Chunk: l.chunk, Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}})
}

func (l *lexer) peek(n int) byte {
	if l.off+n < len(l.src) {
		return l.src[l.off+n]
	}

	return 0
}

func (l *lexer) advance() byte {
	c := l.src[l.off]
	l.off++

	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return c
}

func (l *lexer) skipSpace() {
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			l.advance()
		default:
			return
		}
	}
}

// next scans the next token, skipping whitespace and comments.
func (l *lexer) next() token.Token {
	for {
		l.skipSpace()

		if l.off >= len(l.src) {
			return token.Token{Kind: token.EOF, Pos: token.Pos{Line: l.line, Column: l.col}, EndLine: l.line}
		}

		if l.src[l.off] == '-' && l.peek(1) == '-' {
			l.scanComment()
			continue
		}

		break
	}

	start := l.off
	pos := token.Pos{Line: l.line, Column: l.col}
	c := l.src[l.off]

	tok := token.Token{Pos: pos}

	switch {
	case isLetter(c):
		for l.off < len(l.src) && isAlnum(l.src[l.off]) {
			l.advance()
		}

		tok.Lit = l.src[start:l.off]
		tok.Kind = token.Lookup(tok.Lit)
	case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
		tok.Kind = token.NUMBER
		tok.Lit = l.scanNumber(pos)
	case c == '"' || c == '\'':
		tok.Kind = token.STRING
		tok.Lit = l.scanString(pos)
	case c == '[':
		level := l.longBracketLevel()

		switch {
		case level >= 0:
			tok.Kind = token.STRING
			tok.Lit = l.scanLongString(pos, level, "string")
		case level == -2:
			l.fail(pos.Line, pos.Column, "invalid long string delimiter near '%s'", l.src[start:l.off+1])
		default:
			l.advance()

			tok.Kind = token.LBRACK
		}
	default:
		tok.Kind = l.scanOperator(pos)
	}

	tok.Raw = l.src[start:l.off]
	tok.EndLine = l.line

	return tok
}

func (l *lexer) scanOperator(pos token.Pos) token.Kind {
	c := l.advance()

	two := func(next byte, yes, no token.Kind) token.Kind {
		if l.off < len(l.src) && l.src[l.off] == next {
			l.advance()
			return yes
		}

		return no
	}

	switch c {
	case '+':
		return token.ADD
	case '-':
		return token.SUB
	case '*':
		return token.MUL
	case '/':
		return two('/', token.IDIV, token.DIV)
	case '%':
		return token.MOD
	case '^':
		return token.POW
	case '#':
		return token.LEN
	case '&':
		return token.BAND
	case '~':
		return two('=', token.NE, token.BXOR)
	case '|':
		return token.BOR
	case '<':
		if l.off < len(l.src) && l.src[l.off] == '<' {
			l.advance()
			return token.SHL
		}

		return two('=', token.LE, token.LT)
	case '>':
		if l.off < len(l.src) && l.src[l.off] == '>' {
			l.advance()
			return token.SHR
		}

		return two('=', token.GE, token.GT)
	case '=':
		return two('=', token.EQ, token.ASSIGN)
	case '(':
		return token.LPAREN
	case ')':
		return token.RPAREN
	case '{':
		return token.LBRACE
	case '}':
		return token.RBRACE
	case ']':
		return token.RBRACK
	case ';':
		return token.SEMICOLON
	case ':':
		return two(':', token.DBCOLON, token.COLON)
	case ',':
		return token.COMMA
	case '.':
		if l.off < len(l.src) && l.src[l.off] == '.' {
			l.advance()
			return two('.', token.ELLIPSIS, token.CONCAT)
		}

		return token.DOT
	}

	if c >= utf8.RuneSelf {
		r, _ := utf8.DecodeRuneInString(l.src[l.off-1:])
		l.fail(pos.Line, pos.Column, "unexpected symbol near '%c'", r)
	}

	l.fail(pos.Line, pos.Column, "unexpected symbol near '%c'", c)

	return token.ILLEGAL
}

// longBracketLevel inspects an opening '[' at the current offset. It returns
// the number of '=' for a long bracket, -1 for a plain '[' and -2 for a
// malformed "[=" opener.
func (l *lexer) longBracketLevel() int {
	i := l.off + 1
	for i < len(l.src) && l.src[i] == '=' {
		i++
	}

	level := i - l.off - 1

	if i < len(l.src) && l.src[i] == '[' {
		return level
	}

	if level > 0 {
		return -2
	}

	return -1
}

func (l *lexer) scanLongString(pos token.Pos, level int, what string) string {
	// opening bracket
	for i := 0; i < level+2; i++ {
		l.advance()
	}

	// a newline right after the opening bracket is skipped
	if l.off < len(l.src) && l.src[l.off] == '\r' {
		l.advance()
	}

	if l.off < len(l.src) && l.src[l.off] == '\n' {
		l.advance()
	}

	contentStart := l.off

	for {
		if l.off >= len(l.src) {
			l.fail(pos.Line, pos.Column, "unfinished long %s near <eof>", what)
		}

		if l.src[l.off] == ']' && l.closesLongBracket(level) {
			content := l.src[contentStart:l.off]

			for i := 0; i < level+2; i++ {
				l.advance()
			}

			return content
		}

		l.advance()
	}
}

func (l *lexer) closesLongBracket(level int) bool {
	i := l.off + 1
	for n := 0; n < level; n++ {
		if i >= len(l.src) || l.src[i] != '=' {
			return false
		}

		i++
	}

	return i < len(l.src) && l.src[i] == ']'
}

func (l *lexer) scanComment() {
	pos := token.Pos{Line: l.line, Column: l.col}
	start := l.off

	l.advance()
	l.advance()

	if l.off < len(l.src) && l.src[l.off] == '[' {
		if level := l.longBracketLevel(); level >= 0 {
			l.scanLongString(pos, level, "comment")
			l.comments = append(l.comments, &ast.Comment{Pos: pos, EndLine: l.line, Text: l.src[start:l.off]})

			return
		}
	}

	for l.off < len(l.src) && l.src[l.off] != '\n' {
		l.advance()
	}

	l.comments = append(l.comments, &ast.Comment{Pos: pos, EndLine: pos.Line, Text: strings.TrimRight(l.src[start:l.off], "\r")})
}

func (l *lexer) scanNumber(pos token.Pos) string {
	start := l.off
	expo := "Ee"

	if l.src[l.off] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.advance()
		l.advance()

		expo = "Pp"
	}

	for l.off < len(l.src) {
		c := l.src[l.off]

		switch {
		case strings.IndexByte(expo, c) >= 0:
			l.advance()

			if l.off < len(l.src) && (l.src[l.off] == '+' || l.src[l.off] == '-') {
				l.advance()
			}
		case isHex(c) || c == '.':
			l.advance()
		default:
			goto done
		}
	}

done:
	// a numeral touching a letter is malformed
	for l.off < len(l.src) && isAlnum(l.src[l.off]) {
		l.advance()
	}

	raw := l.src[start:l.off]
	if !validNumber(raw) {
		l.fail(pos.Line, pos.Column, "malformed number near '%s'", raw)
	}

	return raw
}

// validNumber accepts Lua decimal and hexadecimal numerals, with optional
// fraction and exponent.
func validNumber(s string) bool {
	digit := isDigit
	expo := byte('e')

	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		digit = isHex
		expo = 'p'
	}

	i, mantissa := 0, 0

	for i < len(s) && digit(s[i]) {
		i++
		mantissa++
	}

	if i < len(s) && s[i] == '.' {
		i++

		for i < len(s) && digit(s[i]) {
			i++
			mantissa++
		}
	}

	if mantissa == 0 {
		return false
	}

	if i < len(s) && (s[i]|0x20) == expo {
		i++

		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}

		exp := 0

		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}

		if exp == 0 {
			return false
		}
	}

	return i == len(s)
}

//nolint:cyclop,gocognit // escape handling is a flat list of cases
func (l *lexer) scanString(pos token.Pos) string {
	quote := l.advance()

	var b strings.Builder

	for {
		if l.off >= len(l.src) {
			l.fail(pos.Line, pos.Column, "unfinished string near <eof>")
		}

		c := l.src[l.off]

		switch c {
		case quote:
			l.advance()
			return b.String()
		case '\n', '\r':
			l.fail(pos.Line, pos.Column, "unfinished string near '%s'", l.src[pos2off(l, pos):l.off])
		case '\\':
			escLine, escCol := l.line, l.col
			l.advance()

			if l.off >= len(l.src) {
				l.fail(pos.Line, pos.Column, "unfinished string near <eof>")
			}

			e := l.advance()

			switch e {
			case 'a':
				b.WriteByte('\a')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'v':
				b.WriteByte('\v')
			case '\\', '"', '\'':
				b.WriteByte(e)
			case '\n':
				b.WriteByte('\n')
			case '\r':
				if l.off < len(l.src) && l.src[l.off] == '\n' {
					l.advance()
				}

				b.WriteByte('\n')
			case 'z':
				l.skipSpace()
			case 'x':
				v := 0

				for n := 0; n < 2; n++ {
					if l.off >= len(l.src) || !isHex(l.src[l.off]) {
						l.fail(escLine, escCol, "hexadecimal digit expected")
					}

					v = v*16 + hexVal(l.advance())
				}

				b.WriteByte(byte(v))
			case 'u':
				b.WriteString(l.scanUTF8Escape(escLine, escCol))
			default:
				if !isDigit(e) {
					l.fail(escLine, escCol, "invalid escape sequence '\\%c'", e)
				}

				v := int(e - '0')

				for n := 0; n < 2 && l.off < len(l.src) && isDigit(l.src[l.off]); n++ {
					v = v*10 + int(l.advance()-'0')
				}

				if v > 255 {
					l.fail(escLine, escCol, "decimal escape too large")
				}

				b.WriteByte(byte(v))
			}
		default:
			b.WriteByte(l.advance())
		}
	}
}

func (l *lexer) scanUTF8Escape(line, col int) string {
	if l.off >= len(l.src) || l.src[l.off] != '{' {
		l.fail(line, col, "missing '{' in \\u{xxxx}")
	}

	l.advance()

	v, n := 0, 0

	for l.off < len(l.src) && isHex(l.src[l.off]) {
		v = v*16 + hexVal(l.advance())
		n++

		if v > utf8.MaxRune {
			l.fail(line, col, "UTF-8 value too large")
		}
	}

	if n == 0 {
		l.fail(line, col, "hexadecimal digit expected")
	}

	if l.off >= len(l.src) || l.src[l.off] != '}' {
		l.fail(line, col, "missing '}' in \\u{xxxx}")
	}

	l.advance()

	return string(rune(v))
}

// pos2off finds the byte offset of the current line's start plus the token
// column; used only to quote the text of an unfinished string.
func pos2off(l *lexer, pos token.Pos) int {
	off := l.off
	for off > 0 && l.src[off-1] != '\n' {
		off--
	}

	off += pos.Column - 1
	if off > l.off {
		return l.off
	}

	return off
}

func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool  { return isLetter(c) || isDigit(c) }
func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

package lang

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

type cursor struct {
	char rune
	curr int
	next int
	Position
}

// Lexer turns Ellex source text into a stream of Tokens. It never
// panics on malformed input; unrecognized runes become Invalid tokens
// and the parser is responsible for turning those into a ParseError.
type Lexer struct {
	input []byte
	cursor

	str bytes.Buffer
}

func NewLexer(r io.Reader) *Lexer {
	buf, _ := io.ReadAll(r)
	buf, _ = bytes.CutPrefix(buf, []byte{0xef, 0xbb, 0xbf})
	l := Lexer{
		input: buf,
	}
	l.cursor.Line = 1
	l.read()
	return &l
}

func NewLexerString(src string) *Lexer {
	return NewLexer(strings.NewReader(src))
}

func (l *Lexer) Scan() Token {
	defer l.reset()

	l.skip(isSpaceOrTab)

	var tok Token
	tok.Offset = l.curr
	tok.Position = l.cursor.Position
	if l.done() {
		tok.Type = EOF
		return tok
	}

	switch {
	case isComment(l.char):
		l.skipComment()
		return l.Scan()
	case isQuote(l.char):
		l.scanString(&tok)
	case isLetter(l.char):
		l.scanIdent(&tok)
	case isDigit(l.char) || (l.char == minus && isDigit(l.peek())):
		l.scanNumber(&tok)
	default:
		l.scanPunct(&tok)
	}
	return tok
}

func (l *Lexer) skipComment() {
	for !l.done() && !isNL(l.char) {
		l.read()
	}
}

func (l *Lexer) scanString(tok *Token) {
	quote := l.char
	l.read()
	for !l.done() && l.char != quote {
		l.write()
		l.read()
	}
	tok.Type = Text
	if l.char != quote {
		tok.Type = Invalid
	} else {
		l.read()
	}
	tok.Literal = l.literal()
}

func (l *Lexer) scanNumber(tok *Token) {
	if l.char == minus {
		l.write()
		l.read()
	}
	for !l.done() && isDigit(l.char) {
		l.write()
		l.read()
	}
	tok.Type = NumberTok
	if l.char == dot && isDigit(l.peek()) {
		l.write()
		l.read()
		for !l.done() && isDigit(l.char) {
			l.write()
			l.read()
		}
	}
	tok.Literal = l.literal()
}

func (l *Lexer) scanIdent(tok *Token) {
	for !l.done() && isAlpha(l.char) {
		l.write()
		l.read()
	}
	tok.Literal = l.literal()
	switch {
	case isKeyword(tok.Literal):
		tok.Type = Keyword
	default:
		tok.Type = Ident
	}
}

func (l *Lexer) scanPunct(tok *Token) {
	switch l.char {
	case lparen:
		tok.Type = Lparen
	case rparen:
		tok.Type = Rparen
	case comma:
		tok.Type = Comma
	case colon:
		tok.Type = Colon
	case equal:
		tok.Type = Eq
		if l.peek() == equal {
			l.read()
		}
	case arrow1:
		tok.Type = Eq
	default:
		tok.Type = Invalid
		tok.Literal = string(l.char)
	}
	l.read()
}

func (l *Lexer) done() bool {
	return l.char == utf8.RuneError || l.char == 0
}

func (l *Lexer) read() {
	if l.curr >= len(l.input) {
		l.char = utf8.RuneError
		return
	}
	r, n := utf8.DecodeRune(l.input[l.next:])
	if r == utf8.RuneError {
		l.char = r
		l.next = len(l.input)
		return
	}
	if r == nl {
		l.cursor.Line++
		l.cursor.Column = 0
	}
	l.cursor.Column++
	l.char, l.curr, l.next = r, l.next, l.next+n
}

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRune(l.input[l.next:])
	return r
}

func (l *Lexer) reset() {
	l.str.Reset()
}

func (l *Lexer) write() {
	l.str.WriteRune(l.char)
}

func (l *Lexer) literal() string {
	return l.str.String()
}

func (l *Lexer) skip(accept func(rune) bool) {
	for !l.done() && accept(l.char) {
		l.read()
	}
}

const (
	lparen = '('
	rparen = ')'
	space  = ' '
	tab    = '\t'
	nl     = '\n'
	cr     = '\r'
	squote = '\''
	dquote = '"'
	under  = '_'
	pound  = '#'
	dot    = '.'
	minus  = '-'
	equal  = '='
	comma  = ','
	colon  = ':'
	arrow1 = '→'
)

func isComment(r rune) bool {
	return r == pound
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == under
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return isLetter(r) || isDigit(r)
}

func isSpaceOrTab(r rune) bool {
	return r == space || r == tab || isEOL(r)
}

func isQuote(r rune) bool {
	return r == squote || r == dquote
}

func isNL(r rune) bool {
	return r == nl || r == cr
}

func isEOL(r rune) bool {
	return isNL(r)
}

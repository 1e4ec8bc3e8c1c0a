package lang

import "fmt"

const (
	EOF rune = -(iota + 1)
	EOL
	Ident
	Keyword
	Text
	NumberTok
	Lparen
	Rparen
	Comma
	Colon
	Eq
	Invalid
)

var keywords = []string{
	"tell",
	"ask",
	"repeat",
	"times",
	"do",
	"end",
	"when",
	"is",
	"matches",
	"otherwise",
	"make",
	"with",
	"as",
	"use",
	"color",
	"draw",
	"circle",
	"radius",
	"forward",
	"backward",
	"left",
	"right",
	"pen_up",
	"pen_down",
	"clear",
}

func isKeyword(str string) bool {
	for _, k := range keywords {
		if k == str {
			return true
		}
	}
	return false
}

type Position struct {
	Line   int
	Column int
}

type Token struct {
	Type    rune
	Literal string
	Offset  int
	Position
}

func (t Token) String() string {
	var prefix string
	switch t.Type {
	case EOF:
		return "<eof>"
	case EOL:
		return "<eol>"
	case Lparen:
		return "<lparen>"
	case Rparen:
		return "<rparen>"
	case Comma:
		return "<comma>"
	case Colon:
		return "<colon>"
	case Eq:
		return "<eq>"
	case Keyword:
		prefix = "keyword"
	case Ident:
		prefix = "identifier"
	case Text:
		prefix = "string"
	case NumberTok:
		prefix = "number"
	case Invalid:
		prefix = "invalid"
	default:
		prefix = "unknown"
	}
	return fmt.Sprintf("%s(%s)", prefix, t.Literal)
}

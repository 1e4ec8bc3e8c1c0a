package lang

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parser is a recursive-descent parser over the Lexer's token stream.
// Statement dispatch is keyed by the leading keyword literal rather
// than by an operator-precedence table: the core dialect has no
// binary-operator arithmetic, so there is nothing for a Pratt climber
// to climb.
type Parser struct {
	lex  *Lexer
	curr Token
	peek Token
}

func NewParser(r io.Reader) *Parser {
	p := &Parser{lex: NewLexer(r)}
	p.advance()
	p.advance()
	return p
}

func NewParserString(src string) *Parser {
	return NewParser(strings.NewReader(src))
}

func (p *Parser) advance() {
	p.curr = p.peek
	p.peek = p.lex.Scan()
}

// ParseProgram parses a whole input to EOF and returns a *Program or a
// *ParseError. It never panics; any internal recovery is surfaced as
// an ordinary ParseError instead.
func (p *Parser) ParseProgram() (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			prog, err = nil, NewParseError(p.curr.Position, fmt.Sprintf("internal parse failure: %v", r))
		}
	}()

	var stmts []Node
	for p.curr.Type != EOF {
		stmt, serr := p.parseStatement()
		if serr != nil {
			return nil, serr
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return &Program{Stmts: stmts}, nil
}

func (p *Parser) is(lit string) bool {
	return p.curr.Type == Keyword && p.curr.Literal == lit
}

func (p *Parser) expect(lit string) error {
	if !p.is(lit) {
		return NewParseError(p.curr.Position, fmt.Sprintf("expected %q, found %s", lit, p.curr))
	}
	p.advance()
	return nil
}

func (p *Parser) parseStatement() (Node, error) {
	switch {
	case p.curr.Type == Invalid:
		return nil, NewParseError(p.curr.Position, fmt.Sprintf("unexpected character %q", p.curr.Literal))
	case p.is("tell"):
		return p.parseTell()
	case p.is("ask"):
		return p.parseAsk()
	case p.is("repeat"):
		return p.parseRepeat()
	case p.is("when"):
		return p.parseWhen()
	case p.is("make"):
		return p.parseMake()
	case p.is("forward"), p.is("backward"), p.is("left"), p.is("right"),
		p.is("pen_up"), p.is("pen_down"), p.is("clear"):
		return p.parseTurtleVerb()
	case p.is("use"):
		return p.parseUseColor()
	case p.is("draw"):
		return p.parseDrawCircle()
	case p.curr.Type == Ident:
		return p.parseCall()
	default:
		return nil, NewParseError(p.curr.Position, fmt.Sprintf("unexpected %s", p.curr))
	}
}

func (p *Parser) parseBlockUntil(terminators ...string) ([]Node, error) {
	var stmts []Node
	for {
		for _, t := range terminators {
			if p.is(t) {
				return stmts, nil
			}
		}
		if p.curr.Type == EOF {
			return nil, NewParseError(p.curr.Position, "unexpected end of input, expected \"end\"")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseTell() (Node, error) {
	pos := p.curr.Position
	p.advance()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Tell{Expr: expr, Position: pos}, nil
}

func (p *Parser) parseAsk() (Node, error) {
	pos := p.curr.Position
	p.advance()
	prompt, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.curr.Type != Eq {
		return nil, NewParseError(p.curr.Position, "expected \"→\" or \"=\" after ask's prompt")
	}
	p.advance()
	if p.curr.Type != Ident {
		return nil, NewParseError(p.curr.Position, "expected a variable name after ask's binding arrow")
	}
	target := p.curr.Literal
	p.advance()

	hint := HintNone
	if p.is("as") {
		p.advance()
		if p.curr.Type != Ident {
			return nil, NewParseError(p.curr.Position, "expected string, number, or list after \"as\"")
		}
		switch p.curr.Literal {
		case "string":
			hint = HintString
		case "number":
			hint = HintNumber
		case "list":
			hint = HintList
		default:
			return nil, NewParseError(p.curr.Position, fmt.Sprintf("unknown type hint %q", p.curr.Literal))
		}
		p.advance()
	}
	return &Ask{Prompt: prompt, Target: target, Hint: hint, Position: pos}, nil
}

func (p *Parser) parseRepeat() (Node, error) {
	pos := p.curr.Position
	p.advance()
	count, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("times"); err != nil {
		return nil, err
	}
	if err := p.expect("do"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil("end")
	if err != nil {
		return nil, err
	}
	if err := p.expect("end"); err != nil {
		return nil, err
	}
	return &Repeat{Count: count, Body: body, Position: pos}, nil
}

func (p *Parser) parseWhen() (Node, error) {
	pos := p.curr.Position
	p.advance()
	subject, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.is("is") || p.is("matches") {
		p.advance()
	} else {
		return nil, NewParseError(p.curr.Position, "expected \"is\" or \"matches\" in when")
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("do"); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlockUntil("end", "otherwise")
	if err != nil {
		return nil, err
	}
	var elseBody []Node
	if p.is("otherwise") {
		p.advance()
		if err := p.expect("do"); err != nil {
			return nil, err
		}
		elseBody, err = p.parseBlockUntil("end")
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect("end"); err != nil {
		return nil, err
	}
	return &When{Subject: subject, Value: value, Then: thenBody, Else: elseBody, Position: pos}, nil
}

func (p *Parser) parseMake() (Node, error) {
	pos := p.curr.Position
	p.advance()
	if p.curr.Type != Ident {
		return nil, NewParseError(p.curr.Position, "expected a name after \"make\"")
	}
	name := p.curr.Literal
	p.advance()

	var params []string
	if p.is("with") {
		p.advance()
		for {
			if p.curr.Type != Ident {
				return nil, NewParseError(p.curr.Position, "expected a parameter name")
			}
			params = append(params, p.curr.Literal)
			p.advance()
			if p.curr.Type != Comma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect("do"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil("end")
	if err != nil {
		return nil, err
	}
	if err := p.expect("end"); err != nil {
		return nil, err
	}
	return &Make{Name: name, Params: params, Body: body, Position: pos}, nil
}

func (p *Parser) parseTurtleVerb() (Node, error) {
	pos := p.curr.Position
	verb := p.curr.Literal
	p.advance()
	return &TurtleOp{Verb: verb, Position: pos}, nil
}

func (p *Parser) parseUseColor() (Node, error) {
	pos := p.curr.Position
	p.advance()
	if err := p.expectIdentLiteral("color"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &TurtleOp{Verb: "use_color", Arg: expr, Position: pos}, nil
}

func (p *Parser) parseDrawCircle() (Node, error) {
	pos := p.curr.Position
	p.advance()
	if err := p.expectIdentLiteral("circle"); err != nil {
		return nil, err
	}
	if err := p.expect("with"); err != nil {
		return nil, err
	}
	if err := p.expectIdentLiteral("radius"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &TurtleOp{Verb: "draw_circle", Arg: expr, Position: pos}, nil
}

// expectIdentLiteral matches the words that follow "use"/"draw"/"with"
// (color, circle, radius), accepting the literal whether the lexer
// tagged it as a Keyword or an Ident.
func (p *Parser) expectIdentLiteral(lit string) error {
	if (p.curr.Type == Ident || p.curr.Type == Keyword) && p.curr.Literal == lit {
		p.advance()
		return nil
	}
	return NewParseError(p.curr.Position, fmt.Sprintf("expected %q, found %s", lit, p.curr))
}

func (p *Parser) parseCall() (Node, error) {
	pos := p.curr.Position
	name := p.curr.Literal
	p.advance()

	var args []Node
	if p.canStartExpr() {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.curr.Type != Comma {
				break
			}
			p.advance()
		}
	}
	return &Call{Name: name, Args: args, Position: pos}, nil
}

func (p *Parser) canStartExpr() bool {
	switch p.curr.Type {
	case Text, NumberTok, Ident, Lparen:
		return true
	default:
		return false
	}
}

func (p *Parser) parseExpr() (Node, error) {
	pos := p.curr.Position
	switch p.curr.Type {
	case Text:
		lit := p.curr.Literal
		p.advance()
		return &StringLit{Value: lit, Position: pos}, nil
	case NumberTok:
		f, err := strconv.ParseFloat(p.curr.Literal, 64)
		if err != nil {
			return nil, NewParseError(pos, fmt.Sprintf("invalid number %q", p.curr.Literal))
		}
		p.advance()
		return &NumberLit{Value: f, Position: pos}, nil
	case Lparen:
		return p.parseList()
	case Ident:
		name := p.curr.Literal
		p.advance()
		if p.canStartExpr() {
			return p.parseCallExprArgs(name, pos)
		}
		return &IdentExpr{Name: name, Position: pos}, nil
	default:
		return nil, NewParseError(pos, fmt.Sprintf("expected an expression, found %s", p.curr))
	}
}

func (p *Parser) parseCallExprArgs(name string, pos Position) (Node, error) {
	var args []Node
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curr.Type != Comma {
			break
		}
		p.advance()
	}
	return &CallExpr{Name: name, Args: args, Position: pos}, nil
}

func (p *Parser) parseList() (Node, error) {
	pos := p.curr.Position
	p.advance()
	var items []Node
	for p.curr.Type != Rparen {
		if p.curr.Type == EOF {
			return nil, NewParseError(p.curr.Position, "unterminated list, expected \")\"")
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.curr.Type == Comma {
			p.advance()
		}
	}
	p.advance()
	return &ListLit{Items: items, Position: pos}, nil
}

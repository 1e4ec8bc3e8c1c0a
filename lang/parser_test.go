package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTell(t *testing.T) {
	prog, err := NewParserString(`tell "hi"`).ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	tell, ok := prog.Stmts[0].(*Tell)
	require.True(t, ok)
	lit, ok := tell.Expr.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "hi", lit.Value)
}

func TestParseAskWithArrowAndEquals(t *testing.T) {
	for _, src := range []string{
		`ask "name?" → who`,
		`ask "name?" = who`,
	} {
		prog, err := NewParserString(src).ParseProgram()
		require.NoError(t, err, src)
		ask, ok := prog.Stmts[0].(*Ask)
		require.True(t, ok)
		assert.Equal(t, "who", ask.Target)
		assert.Equal(t, HintNone, ask.Hint)
	}
}

func TestParseAskWithTypeHint(t *testing.T) {
	prog, err := NewParserString(`ask "age?" = age as number`).ParseProgram()
	require.NoError(t, err)
	ask := prog.Stmts[0].(*Ask)
	assert.Equal(t, HintNumber, ask.Hint)
}

func TestParseRepeat(t *testing.T) {
	prog, err := NewParserString(`repeat 3 times do tell "x" end`).ParseProgram()
	require.NoError(t, err)
	rep := prog.Stmts[0].(*Repeat)
	require.Len(t, rep.Body, 1)
	assert.IsType(t, &NumberLit{}, rep.Count)
}

func TestParseWhenWithOtherwise(t *testing.T) {
	src := `when a is "x" do tell "yes" end`
	prog, err := NewParserString(src).ParseProgram()
	require.NoError(t, err)
	w := prog.Stmts[0].(*When)
	assert.Nil(t, w.Else)

	src2 := `when a is "x" do tell "yes" otherwise do tell "no" end`
	prog2, err := NewParserString(src2).ParseProgram()
	require.NoError(t, err)
	w2 := prog2.Stmts[0].(*When)
	assert.NotNil(t, w2.Else)
}

func TestParseMakeWithParams(t *testing.T) {
	src := `make greet with name do tell "hi {name}" end`
	prog, err := NewParserString(src).ParseProgram()
	require.NoError(t, err)
	m := prog.Stmts[0].(*Make)
	assert.Equal(t, "greet", m.Name)
	assert.Equal(t, []string{"name"}, m.Params)
}

func TestParseTurtleVerbs(t *testing.T) {
	prog, err := NewParserString("forward\nleft\npen_up\npen_down\nclear").ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 5)
	for _, s := range prog.Stmts {
		_, ok := s.(*TurtleOp)
		assert.True(t, ok)
	}
}

func TestParseUseColorAndDrawCircle(t *testing.T) {
	prog, err := NewParserString(`use color "red"` + "\n" + `draw circle with radius 10`).ParseProgram()
	require.NoError(t, err)
	op1 := prog.Stmts[0].(*TurtleOp)
	assert.Equal(t, "use_color", op1.Verb)
	op2 := prog.Stmts[1].(*TurtleOp)
	assert.Equal(t, "draw_circle", op2.Verb)
}

func TestParseCallWithArgs(t *testing.T) {
	prog, err := NewParserString(`greet "Alice", 3`).ParseProgram()
	require.NoError(t, err)
	call := prog.Stmts[0].(*Call)
	assert.Equal(t, "greet", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseCommentsStripped(t *testing.T) {
	prog, err := NewParserString("# a comment\ntell \"hi\" # trailing\n").ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	_, ok := prog.Stmts[0].(*Tell)
	assert.True(t, ok)
}

// Parsing malformed (or empty) input never panics.
func TestParserNeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"tell",
		"repeat times do end",
		"make do end",
		"@#$%^&",
		"when a is do end",
		"ask \"x\"",
		"tell \"unterminated",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = NewParserString(in).ParseProgram()
		}, in)
	}
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := NewParserString("repeat times do end").ParseProgram()
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.GreaterOrEqual(t, perr.Line, 1)
	assert.GreaterOrEqual(t, perr.Column, 0)
}

func TestParseListLiteral(t *testing.T) {
	prog, err := NewParserString(`tell (1, 2, 3)`).ParseProgram()
	require.NoError(t, err)
	tell := prog.Stmts[0].(*Tell)
	list, ok := tell.Expr.(*ListLit)
	require.True(t, ok)
	assert.Len(t, list.Items, 3)
}

// Parse(Print(ast)) succeeds and yields the same number of top-level
// statements as the original.
func TestIdempotentReparse(t *testing.T) {
	srcs := []string{
		`tell "hello"`,
		`repeat 3 times do tell "x" end`,
		`make greet with name do tell "hi {name}" end`,
		`when a is "x" do tell "yes" otherwise do tell "no" end`,
		`ask "age?" = age as number`,
	}
	for _, src := range srcs {
		prog1, err := NewParserString(src).ParseProgram()
		require.NoError(t, err, src)
		printed := Print(prog1)
		prog2, err := NewParserString(printed).ParseProgram()
		require.NoError(t, err, printed)
		assert.Equal(t, len(prog1.Stmts), len(prog2.Stmts), src)
	}
}

// Package repl implements the REPL session: a stateful wrapper
// composing the Parser, Evaluator and Safety Monitor over repeated
// interactive lines, holding variables, functions, history and an
// output buffer across invocations.
package repl

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/ellex-lang/ellex/ioadapter"
	"github.com/ellex-lang/ellex/lang"
	"github.com/ellex-lang/ellex/safety"
	"github.com/ellex-lang/ellex/turtle"
)

// pending records an in-flight suspension: the statements of the line
// that suspended, and the index to resume at once ProvideInput
// supplies a value.
type pending struct {
	stmts  []lang.Node
	index  int
	target string
}

// Session owns every piece of per-embedding state: variables and
// functions (via Eval), input history, an output buffer, an execution
// counter, a config snapshot, the turtle sub-runtime, and the I/O
// adapter handle.
type Session struct {
	Eval    *lang.Evaluator
	Config  safety.Config
	Adapter ioadapter.Adapter
	metrics *safety.Metrics

	History        []string
	OutputBuffer   []string
	ExecutionCount int

	pending *pending

	// Log defaults to io.Discard: a library caller gets silence unless
	// it sets a real logger. cmd/ellex leaves the default in place.
	Log *log.Logger
}

// New builds a fresh Session: a new Evaluator, function table, scope
// stack and Turtle all owned by this session, none shared with any
// other session.
func New(adapter ioadapter.Adapter, cfg safety.Config, metrics *safety.Metrics) *Session {
	t := turtle.New(turtle.DefaultCanvasW, turtle.DefaultCanvasH)
	mon := safety.NewMonitor(cfg, metrics)
	ev := lang.NewEvaluator(adapter, t, cfg, mon)
	return &Session{
		Eval:    ev,
		Config:  cfg,
		Adapter: adapter,
		metrics: metrics,
		Log:     log.New(io.Discard, "", 0),
	}
}

// ExecuteLine parses and evaluates one line of input. It recognizes
// the slash-command surface before attempting to parse the line as
// Ellex. The returned lines are exactly those produced by tell (plus
// any slash-command echo) during this call, not the session's whole
// OutputBuffer.
func (s *Session) ExecuteLine(text string) ([]string, error) {
	s.History = append(s.History, text)
	s.ExecutionCount++

	if isSlashCommand(text) {
		lines, err := s.execSlash(text)
		s.OutputBuffer = append(s.OutputBuffer, lines...)
		return lines, err
	}

	before := len(s.captured())
	s.Eval.Monitor.Reset()
	s.Eval.Config = s.Config

	prog, perr := lang.NewParserString(text).ParseProgram()
	if perr != nil {
		return nil, perr
	}

	next, err := s.Eval.ExecuteFrom(prog.Stmts, 0)
	if sus, ok := err.(*lang.Suspended); ok {
		s.pending = &pending{stmts: prog.Stmts, index: next, target: sus.Target}
	}
	lines := s.drainSince(before)
	s.OutputBuffer = append(s.OutputBuffer, lines...)
	if err != nil {
		if _, ok := err.(*lang.Suspended); ok {
			return lines, nil
		}
		return lines, err
	}
	return lines, nil
}

// captured/drainSince let ExecuteLine report only the output produced
// by this call when the adapter is one that accumulates a log (Test,
// Web); a Terminal adapter writes straight through and has nothing to
// drain, so both return nil for it.
func (s *Session) captured() []string {
	switch a := s.Adapter.(type) {
	case *ioadapter.Test:
		return a.Output
	case *ioadapter.Web:
		return a.Output
	default:
		return nil
	}
}

func (s *Session) drainSince(before int) []string {
	all := s.captured()
	if all == nil || before > len(all) {
		return nil
	}
	out := make([]string, len(all)-before)
	copy(out, all[before:])
	return out
}

// ProvideInput resumes a suspended session's pending ask: it mutates
// the target variable directly and resumes evaluation of the
// remaining statements of the line that suspended.
func (s *Session) ProvideInput(variable, value string) ([]string, error) {
	if s.pending == nil {
		return nil, fmt.Errorf("no pending ask awaiting input")
	}
	if s.pending.target != variable {
		return nil, fmt.Errorf("pending ask is for %q, not %q", s.pending.target, variable)
	}
	s.Eval.Scopes.Define(variable, lang.String{Value: value})
	p := s.pending
	s.pending = nil

	before := len(s.captured())
	next, err := s.Eval.ExecuteFrom(p.stmts, p.index)
	if sus, ok := err.(*lang.Suspended); ok {
		s.pending = &pending{stmts: p.stmts, index: next, target: sus.Target}
		err = nil
	}
	lines := s.drainSince(before)
	s.OutputBuffer = append(s.OutputBuffer, lines...)
	return lines, err
}

// Awaiting reports the variable name a suspended session is waiting
// on, and whether one is pending at all.
func (s *Session) Awaiting() (string, bool) {
	if s.pending == nil {
		return "", false
	}
	return s.pending.target, true
}

// InteractiveAsk is the synchronous terminal-mode ask: it delegates
// straight to the adapter, used by a terminal embedding that never
// suspends.
func (s *Session) InteractiveAsk(prompt string) (string, error) {
	return s.Adapter.Prompt(prompt)
}

// Call invokes a named user function directly: a bare function name
// typed as REPL input calls it, exercised through Evaluator.Call
// rather than re-parsing "name" as a Call statement, since the REPL
// already knows it's a function lookup.
func (s *Session) Call(name string, args []lang.Value) (lang.Value, error) {
	return s.Eval.Call(name, args)
}

// Reset wipes variables, functions, history, output buffer and turtle
// state but keeps Config and Adapter.
func (s *Session) Reset() {
	t := turtle.New(turtle.DefaultCanvasW, turtle.DefaultCanvasH)
	mon := safety.NewMonitor(s.Config, s.metrics)
	s.Eval = lang.NewEvaluator(s.Adapter, t, s.Config, mon)
	s.History = nil
	s.OutputBuffer = nil
	s.pending = nil
}

// parseSetValue implements /set NAME VALUE's rule: parse VALUE as a
// number if it looks numeric, else store it as a string.
func parseSetValue(raw string) lang.Value {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return lang.Number{Value: f}
	}
	return lang.String{Value: raw}
}

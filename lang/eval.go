package lang

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ellex-lang/ellex/env"
	"github.com/ellex-lang/ellex/ioadapter"
	"github.com/ellex-lang/ellex/safety"
	"github.com/ellex-lang/ellex/turtle"
)

// Suspended is returned by Execute/ExecuteFrom when an Ask statement's
// adapter signals ioadapter.ErrSuspend, the hosted/web adapter's way of
// saying it has no answer yet. It is deliberately not an EllexError: it
// does not represent a failure, only a yield point. The caller
// (repl.Session) resumes evaluation at NextIndex once a matching
// ProvideInput call supplies Target's value. Suspension is only honored
// at the top level of a program's statement list; an ask nested inside
// a repeat/when/make body that suspends surfaces the same error but has
// no resume point narrower than the whole top-level statement.
type Suspended struct {
	Target    string
	NextIndex int
}

func (s *Suspended) Error() string {
	return fmt.Sprintf("ask: suspended awaiting input for %q", s.Target)
}

// Scopes is the evaluator's scope stack: index 0 is the session scope,
// surviving across REPL lines and across calls; every user-function
// invocation pushes a fresh scope on top and pops it on return.
type Scopes struct {
	stack       []env.Env[Value]
	sessionKeys map[string]struct{}
}

// NewScopes creates a scope stack with a single, empty session scope.
func NewScopes() *Scopes {
	return &Scopes{
		stack:       []env.Env[Value]{env.EmptyEnv[Value]()},
		sessionKeys: make(map[string]struct{}),
	}
}

func (s *Scopes) top() env.Env[Value] { return s.stack[len(s.stack)-1] }

// Push adds a fresh scope enclosed by the current top, for a function
// call's parameter bindings and locals.
func (s *Scopes) Push() { s.stack = append(s.stack, env.EnclosedEnv[Value](s.top())) }

// Pop discards the current top scope, returning to its enclosing one.
func (s *Scopes) Pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Define binds name in the top scope.
func (s *Scopes) Define(name string, v Value) {
	s.top().Define(name, v)
	if len(s.stack) == 1 {
		s.sessionKeys[name] = struct{}{}
	}
}

// Resolve walks from top to bottom and returns the first binding found.
func (s *Scopes) Resolve(name string) (Value, error) {
	v, err := s.top().Resolve(name)
	if err != nil {
		return Nil{}, &LogicError{Reason: fmt.Sprintf("%s is not defined", name)}
	}
	return v, nil
}

// Session-scope accessors used by the REPL for /vars and /set, which
// always address index 0 regardless of any currently active call.
func (s *Scopes) DefineSession(name string, v Value) {
	s.stack[0].Define(name, v)
	s.sessionKeys[name] = struct{}{}
}

func (s *Scopes) ResolveSession(name string) (Value, bool) {
	v, err := s.stack[0].Resolve(name)
	return v, err == nil
}

// SessionNames lists every identifier ever bound at index 0, used by
// the REPL's /vars command. env.Env has no enumeration method, so
// Scopes keeps its own shadow key set.
func (s *Scopes) SessionNames() []string {
	names := make([]string, 0, len(s.sessionKeys))
	for k := range s.sessionKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Evaluator is the tree-walking interpreter. The scope stack and
// function table created by NewEvaluator persist across Execute calls;
// the REPL session keeps one Evaluator (replaced on reset), which is
// how scopes, functions and turtle state survive across lines.
type Evaluator struct {
	Scopes  *Scopes
	Funcs   *FunctionTable
	Turtle  *turtle.Turtle
	IO      ioadapter.Adapter
	Monitor *safety.Monitor
	Config  safety.Config

	// Warnings accumulates non-fatal monitor/turtle warnings emitted
	// during the most recent Execute/Call, surfaced out-of-band to the
	// I/O adapter rather than failing the statement outright.
	Warnings []string
}

// NewEvaluator wires an Evaluator to its Safety Monitor, I/O adapter
// and Turtle sub-runtime.
func NewEvaluator(io ioadapter.Adapter, t *turtle.Turtle, cfg safety.Config, m *safety.Monitor) *Evaluator {
	return &Evaluator{
		Scopes:  NewScopes(),
		Funcs:   NewFunctionTable(),
		Turtle:  t,
		IO:      io,
		Monitor: m,
		Config:  cfg,
	}
}

func (e *Evaluator) warn(w string) {
	if w != "" {
		e.Warnings = append(e.Warnings, w)
		e.IO.WriteLine(w)
	}
}

func (e *Evaluator) violation(err error) error {
	v, ok := err.(*safety.Violation)
	if !ok {
		return err
	}
	if v.Kind == safety.KindTimeout {
		return NewTimeoutError(e.Config.ExecutionTimeoutMS)
	}
	return NewSafetyViolation(SafetyKind(v.Kind), v.Limit)
}

// tick is called once per evaluated statement to advance the
// instruction-count quota.
func (e *Evaluator) tick() error {
	w, err := e.Monitor.Tick()
	e.warn(w)
	if err != nil {
		return e.violation(err)
	}
	return nil
}

// Execute runs a program's statements in source order under the
// evaluator's scopes, function table and monitor. It never mutates the
// statements it's given.
func (e *Evaluator) Execute(stmts []Node) error {
	_, err := e.ExecuteFrom(stmts, 0)
	return err
}

// ExecuteFrom runs stmts[start:] in order, returning the index of the
// first not-yet-executed statement. On success that index equals
// len(stmts); on a Suspended ask it is the statement right after the
// one that suspended, the resume point repl.Session needs.
func (e *Evaluator) ExecuteFrom(stmts []Node, start int) (next int, err error) {
	e.Warnings = nil
	for i := start; i < len(stmts); i++ {
		if err := e.execStmt(stmts[i]); err != nil {
			if sus, ok := err.(*Suspended); ok {
				sus.NextIndex = i + 1
				return i + 1, sus
			}
			return i, err
		}
	}
	return len(stmts), nil
}

func (e *Evaluator) execStmt(stmt Node) error {
	if err := e.tick(); err != nil {
		return err
	}
	switch n := stmt.(type) {
	case *Tell:
		return e.execTell(n)
	case *Ask:
		return e.execAsk(n)
	case *Repeat:
		return e.execRepeat(n)
	case *When:
		return e.execWhen(n)
	case *Make:
		return e.execMake(n)
	case *Call:
		_, err := e.callNamed(n.Name, n.Args)
		return err
	case *CallExpr:
		_, err := e.callNamed(n.Name, n.Args)
		return err
	case *TurtleOp:
		return e.execTurtle(n)
	case *Comment:
		return nil
	default:
		return NewLogicError(fmt.Sprintf("unrecognized statement %T", stmt))
	}
}

func (e *Evaluator) execTell(n *Tell) error {
	v, err := e.evalExpr(n.Expr)
	if err != nil {
		return err
	}
	text := e.coerceString(v)
	e.IO.WriteLine(text)
	return e.noteOutput(len(text) + 1)
}

func (e *Evaluator) noteOutput(n int) error {
	w, err := e.Monitor.NoteOutput(n)
	e.warn(w)
	if err != nil {
		return e.violation(err)
	}
	return nil
}

// coerceString stringifies a value, resolving interpolation for String
// values lazily, at the point the string is consumed by Tell or by
// ask's prompt.
func (e *Evaluator) coerceString(v Value) string {
	if s, ok := v.(String); ok {
		return Interpolate(s.Value, e.Scopes)
	}
	return v.String()
}

func (e *Evaluator) execAsk(n *Ask) error {
	promptVal, err := e.evalExpr(n.Prompt)
	if err != nil {
		return err
	}
	prompt := e.coerceString(promptVal)
	answer, err := e.IO.Prompt(prompt)
	if errors.Is(err, ioadapter.ErrSuspend) {
		return &Suspended{Target: n.Target}
	}
	if err != nil {
		return NewLogicError(fmt.Sprintf("ask: %v", err))
	}
	val, err := applyHint(answer, n.Hint)
	if err != nil {
		return err
	}
	e.Scopes.Define(n.Target, val)
	return e.estimateMemory(int64(len(answer)) + 16)
}

func (e *Evaluator) estimateMemory(delta int64) error {
	w, err := e.Monitor.EstimateMemory(delta)
	e.warn(w)
	if err != nil {
		return e.violation(err)
	}
	return nil
}

// applyHint coerces a raw ask answer to its type hint: string is
// identity, number parses a decimal (failure is a LogicError), list
// parses comma-separated items as strings.
func applyHint(raw string, hint TypeHint) (Value, error) {
	switch hint {
	case HintNumber:
		f, err := coerceNumber(String{Value: strings.TrimSpace(raw)})
		if err != nil {
			return nil, NewLogicError(fmt.Sprintf("%q is not a number", raw))
		}
		return Number{Value: f}, nil
	case HintList:
		parts := strings.Split(raw, ",")
		items := make([]Value, len(parts))
		for i, p := range parts {
			items[i] = String{Value: strings.TrimSpace(p)}
		}
		return List{Items: items}, nil
	default:
		return String{Value: raw}, nil
	}
}

func (e *Evaluator) execRepeat(n *Repeat) error {
	countVal, err := e.evalExpr(n.Count)
	if err != nil {
		return err
	}
	num, ok := countVal.(Number)
	if !ok || num.Value < 0 || num.Value != float64(int(num.Value)) {
		return NewLogicError("repeat needs a whole, non-negative number of times")
	}
	count := int(num.Value)

	if err := e.Monitor.EnterLoop(count); err != nil {
		return e.violation(err)
	}
	defer e.Monitor.ExitLoop()

	for i := 0; i < count; i++ {
		w, err := e.Monitor.LoopStep()
		e.warn(w)
		if err != nil {
			return e.violation(err)
		}
		for _, stmt := range n.Body {
			if err := e.execStmt(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Evaluator) execWhen(n *When) error {
	subject, err := e.evalExpr(n.Subject)
	if err != nil {
		return err
	}
	value, err := e.evalExpr(n.Value)
	if err != nil {
		return err
	}
	body := n.Else
	if Equal(subject, value) {
		body = n.Then
	}
	for _, stmt := range body {
		if err := e.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execMake(n *Make) error {
	e.Funcs.Define(&FunctionRecord{Name: n.Name, Params: n.Params, Body: n.Body})
	return e.estimateMemory(int64(len(n.Body))*8 + 32)
}

// Call invokes a named function by hand, used by the REPL to let a
// user type a bare function name as input.
func (e *Evaluator) Call(name string, args []Value) (Value, error) {
	rec, ok := e.Funcs.Lookup(name)
	if !ok {
		return Nil{}, e.unknownCommand(name)
	}
	return e.invoke(rec, args)
}

func (e *Evaluator) callNamed(name string, argExprs []Node) (Value, error) {
	rec, ok := e.Funcs.Lookup(name)
	if !ok {
		return Nil{}, e.unknownCommand(name)
	}
	args := make([]Value, len(argExprs))
	for i, a := range argExprs {
		v, err := e.evalExpr(a)
		if err != nil {
			return Nil{}, err
		}
		args[i] = v
	}
	return e.invoke(rec, args)
}

func (e *Evaluator) invoke(rec *FunctionRecord, args []Value) (Value, error) {
	if len(args) != len(rec.Params) {
		return Nil{}, NewLogicError(fmt.Sprintf("%s expects %d argument(s), got %d", rec.Name, len(rec.Params), len(args)))
	}
	w, err := e.Monitor.EnterCall()
	e.warn(w)
	if err != nil {
		return Nil{}, e.violation(err)
	}
	defer e.Monitor.ExitCall()

	e.Scopes.Push()
	defer e.Scopes.Pop()
	for i, p := range rec.Params {
		e.Scopes.Define(p, args[i])
	}
	for _, stmt := range rec.Body {
		if err := e.execStmt(stmt); err != nil {
			return Nil{}, err
		}
	}
	return Nil{}, nil
}

// unknownCommand builds an UnknownCommandError with a Levenshtein-1
// suggestion drawn from the function table and built-in turtle verb
// names.
func (e *Evaluator) unknownCommand(name string) error {
	candidates := append([]string{}, e.Funcs.Names()...)
	candidates = append(candidates, builtinNames...)
	best, dist := "", -1
	for _, c := range candidates {
		d := levenshtein(name, c)
		if dist < 0 || d < dist {
			best, dist = c, d
		}
	}
	if dist == 1 {
		return NewUnknownCommandError(name, best)
	}
	return NewUnknownCommandError(name, "")
}

var builtinNames = []string{
	"forward", "backward", "left", "right", "pen_up", "pen_down", "clear",
}

// levenshtein computes plain edit distance between two short
// identifiers.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d[i][j] = min3(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
		}
	}
	return d[la][lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func (e *Evaluator) evalExpr(n Node) (Value, error) {
	switch n := n.(type) {
	case *StringLit:
		return String{Value: n.Value}, nil
	case *NumberLit:
		return Number{Value: n.Value}, nil
	case *ListLit:
		items := make([]Value, len(n.Items))
		for i, it := range n.Items {
			v, err := e.evalExpr(it)
			if err != nil {
				return Nil{}, err
			}
			items[i] = v
		}
		return List{Items: items}, nil
	case *IdentExpr:
		return e.Scopes.Resolve(n.Name)
	case *CallExpr:
		return e.callNamed(n.Name, n.Args)
	default:
		return Nil{}, NewLogicError(fmt.Sprintf("cannot evaluate %T as an expression", n))
	}
}

func (e *Evaluator) execTurtle(n *TurtleOp) error {
	if !e.Config.EnableTurtle {
		return e.unknownCommand(n.Verb)
	}
	switch n.Verb {
	case "forward":
		e.warn(e.Turtle.Forward(e.turtleDistance(n)))
	case "backward":
		e.warn(e.Turtle.Backward(e.turtleDistance(n)))
	case "left":
		e.Turtle.Left(e.turtleAngle(n))
	case "right":
		e.Turtle.Right(e.turtleAngle(n))
	case "pen_up":
		e.Turtle.PenUp()
	case "pen_down":
		e.Turtle.PenDownOp()
	case "clear":
		e.Turtle.Clear()
	case "use_color":
		v, err := e.evalExpr(n.Arg)
		if err != nil {
			return err
		}
		e.Turtle.SetColorName(e.coerceString(v))
	case "draw_circle":
		v, err := e.evalExpr(n.Arg)
		if err != nil {
			return err
		}
		r, err := coerceNumber(v)
		if err != nil {
			return NewLogicError("circle radius must be a number")
		}
		e.Turtle.DrawCircle(r)
	default:
		return e.unknownCommand(n.Verb)
	}
	return e.estimateMemory(24)
}

// turtleDistance/turtleAngle evaluate the optional numeric argument a
// turtle verb may carry, falling back to the fixed defaults when none
// is given.
func (e *Evaluator) turtleDistance(n *TurtleOp) float64 {
	if n.Arg == nil {
		return turtle.DefaultStep
	}
	v, err := e.evalExpr(n.Arg)
	if err != nil {
		return turtle.DefaultStep
	}
	f, err := coerceNumber(v)
	if err != nil {
		return turtle.DefaultStep
	}
	return f
}

func (e *Evaluator) turtleAngle(n *TurtleOp) float64 {
	if n.Arg == nil {
		return turtle.DefaultTurn
	}
	v, err := e.evalExpr(n.Arg)
	if err != nil {
		return turtle.DefaultTurn
	}
	f, err := coerceNumber(v)
	if err != nil {
		return turtle.DefaultTurn
	}
	return f
}

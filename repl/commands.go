package repl

import (
	"fmt"
	"strings"

	"github.com/ellex-lang/ellex/lang"
)

// ErrExit is returned by execSlash for /exit; cmd/ellex's REPL loop
// checks for it with errors.Is to break out cleanly rather than
// treating it as a failure.
var ErrExit = fmt.Errorf("exit requested")

func isSlashCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

// helpText is the friendly per-command banner.
const helpText = `Ellex REPL commands:
  /help          show this message
  /clear         clear the output buffer
  /history       show input history for this session
  /vars          list session variables and their values
  /funcs         list defined functions
  /config        show the active safety quotas
  /set NAME VAL  set a session variable (number if it looks numeric, else string)
  /reset         wipe variables, functions and history (keeps config)
  /exit          leave the REPL`

func (s *Session) execSlash(line string) ([]string, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	cmd := fields[0]
	switch cmd {
	case "/help":
		return strings.Split(helpText, "\n"), nil
	case "/clear":
		s.OutputBuffer = nil
		return nil, nil
	case "/history":
		return append([]string{}, s.History...), nil
	case "/vars":
		return s.execVars(), nil
	case "/funcs":
		return s.execFuncs(), nil
	case "/config":
		return s.execConfig(), nil
	case "/set":
		return s.execSet(fields[1:])
	case "/reset":
		s.Reset()
		return []string{"Session reset."}, nil
	case "/exit":
		return nil, ErrExit
	default:
		return []string{fmt.Sprintf("Unknown command %q. Try /help.", cmd)}, nil
	}
}

func (s *Session) execVars() []string {
	names := s.Eval.Scopes.SessionNames()
	if len(names) == 0 {
		return []string{"(no variables set)"}
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := s.Eval.Scopes.ResolveSession(name)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("%s = %s", name, v.String()))
	}
	return out
}

func (s *Session) execFuncs() []string {
	names := s.Eval.Funcs.Names()
	if len(names) == 0 {
		return []string{"(no functions defined)"}
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func (s *Session) execConfig() []string {
	c := s.Config
	return []string{
		fmt.Sprintf("execution_timeout_ms = %d", c.ExecutionTimeoutMS),
		fmt.Sprintf("memory_limit_mb = %d", c.MemoryLimitMB),
		fmt.Sprintf("max_recursion_depth = %d", c.MaxRecursionDepth),
		fmt.Sprintf("max_loop_iterations = %d", c.MaxLoopIterations),
		fmt.Sprintf("enable_turtle = %t", c.EnableTurtle),
		fmt.Sprintf("enable_ai = %t", c.EnableAI),
	}
}

func (s *Session) execSet(args []string) ([]string, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /set NAME VALUE")
	}
	name, raw := args[0], strings.Join(args[1:], " ")
	raw = strings.Trim(raw, `"`)
	val := parseSetValue(raw)
	s.Eval.Scopes.DefineSession(name, val)
	return []string{fmt.Sprintf("Set %s = %s", name, displaySet(val))}, nil
}

// displaySet echoes a /set value bare, e.g. /set name "Alice" echoes
// Set name = Alice, not a quoted literal.
func displaySet(v lang.Value) string { return v.String() }
